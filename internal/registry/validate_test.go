package registry

import (
	"errors"
	"strings"
	"testing"
)

func TestBoundaryValues(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"title at max", ValidateTitle(strings.Repeat("a", MaxTitleLen)), nil},
		{"title one over", ValidateTitle(strings.Repeat("a", MaxTitleLen+1)), ErrInvalidTitle},
		{"multibyte title at max", ValidateTitle(strings.Repeat("é", MaxTitleLen)), nil},
		{"multibyte title one over", ValidateTitle(strings.Repeat("é", MaxTitleLen+1)), ErrInvalidTitle},
		{"empty description ok", ValidateDescription(""), nil},
		{"description at max", ValidateDescription(strings.Repeat("a", MaxDescriptionLen)), nil},
		{"multibyte description at max", ValidateDescription(strings.Repeat("語", MaxDescriptionLen)), nil},
		{"category at max", ValidateCategory(strings.Repeat("a", MaxCategoryLen)), nil},
		{"multibyte category at max", ValidateCategory(strings.Repeat("ü", MaxCategoryLen)), nil},
		{"multibyte category one over", ValidateCategory(strings.Repeat("ü", MaxCategoryLen+1)), ErrInvalidCategory},
		{"tag at max", ValidateTags([]string{strings.Repeat("a", MaxTagLen)}), nil},
		{"multibyte tag at max", ValidateTags([]string{strings.Repeat("世", MaxTagLen)}), nil},
		{"multibyte tag one over", ValidateTags([]string{strings.Repeat("世", MaxTagLen+1)}), ErrTagTooLong},
		{"ten tags ok", ValidateTags(make([]string, MaxTags)), nil},
		{"eleven tags", ValidateTags(make([]string, MaxTags+1)), ErrTooManyTags},
		{"empty tags ok", ValidateTags(nil), nil},
		{"royalty at max", ValidateRoyaltyRate(MaxRoyaltyRate), nil},
		{"royalty zero", ValidateRoyaltyRate(0), nil},
		{"currency STX", ValidateCurrency("STX"), nil},
		{"currency USD", ValidateCurrency("USD"), nil},
		{"currency BTC", ValidateCurrency("BTC"), nil},
		{"currency lowercase", ValidateCurrency("stx"), ErrInvalidCurrency},
		{"hash nil", ValidateHash(nil), ErrInvalidHash},
		{"hash exact", ValidateHash(make([]byte, HashSize)), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want == nil {
				if tt.err != nil {
					t.Errorf("unexpected error: %v", tt.err)
				}
				return
			}
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("error = %v, expected %v", tt.err, tt.want)
			}
		})
	}
}
