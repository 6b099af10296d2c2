package identity

import (
	"fmt"

	"github.com/stellar/go/strkey"
)

// Address is the opaque identity of a caller. The registry core only ever
// compares addresses for equality; shape validation happens at the API
// boundary via Validate.
type Address string

// Burn is the reserved null address (the strkey encoding of an all-zero
// account key). Funds sent here are unrecoverable, so it is rejected as an
// authority value.
var Burn = Address(mustEncodeAccountID(make([]byte, 32)))

func mustEncodeAccountID(raw []byte) string {
	s, err := strkey.Encode(strkey.VersionByteAccountID, raw)
	if err != nil {
		panic(fmt.Sprintf("encoding burn address: %v", err))
	}
	return s
}

// String returns the address as a plain string.
func (a Address) String() string {
	return string(a)
}

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a == ""
}

// IsBurn reports whether the address is the reserved null address.
func (a Address) IsBurn() bool {
	return a == Burn
}

// Validate checks that the address is a well-formed account or contract
// strkey. Contract addresses are accepted so a deployed contract can act as
// the registry authority.
func (a Address) Validate() error {
	if a.IsZero() {
		return fmt.Errorf("address is empty")
	}
	if _, err := strkey.Decode(strkey.VersionByteAccountID, string(a)); err == nil {
		return nil
	}
	if _, err := strkey.Decode(strkey.VersionByteContract, string(a)); err == nil {
		return nil
	}
	return fmt.Errorf("invalid address: %q", string(a))
}
