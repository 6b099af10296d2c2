package registry

import "unicode/utf8"

// Field bounds for content records. These mirror the on-chain contract and
// are not configurable. Text bounds count characters, not bytes.
const (
	HashSize          = 32
	MaxTitleLen       = 256
	MaxDescriptionLen = 1024
	MaxCategoryLen    = 50
	MaxTags           = 10
	MaxTagLen         = 50
	MaxRoyaltyRate    = 100
)

// Currencies accepted for content pricing.
var validCurrencies = map[string]struct{}{
	"STX": {},
	"USD": {},
	"BTC": {},
}

// ValidateHash checks that the content fingerprint is exactly 32 bytes.
func ValidateHash(hash []byte) error {
	if len(hash) != HashSize {
		return ErrInvalidHash
	}
	return nil
}

// ValidateTitle checks that the title is non-empty and within bounds.
func ValidateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n == 0 || n > MaxTitleLen {
		return ErrInvalidTitle
	}
	return nil
}

// ValidateDescription checks the description length. Empty is allowed.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return ErrInvalidDescription
	}
	return nil
}

// ValidateCategory checks that the category is non-empty and within bounds.
func ValidateCategory(category string) error {
	n := utf8.RuneCountInString(category)
	if n == 0 || n > MaxCategoryLen {
		return ErrInvalidCategory
	}
	return nil
}

// ValidateTags checks the tag count before individual tag lengths, so
// "too many tags" and "tag too long" stay distinguishable failures.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTags {
		return ErrTooManyTags
	}
	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > MaxTagLen {
			return ErrTagTooLong
		}
	}
	return nil
}

// ValidateRoyaltyRate checks the royalty percentage upper bound. The lower
// bound is the type's natural non-negativity.
func ValidateRoyaltyRate(rate uint64) error {
	if rate > MaxRoyaltyRate {
		return ErrInvalidRoyaltyRate
	}
	return nil
}

// ValidateCurrency checks membership in the fixed currency set.
func ValidateCurrency(currency string) error {
	if _, ok := validCurrencies[currency]; !ok {
		return ErrInvalidCurrency
	}
	return nil
}
