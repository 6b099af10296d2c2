package registry

// Error is a categorical registry rejection. Every mutating operation
// either commits completely or returns one of these; the numeric codes are
// stable and match the on-chain contract's error constants, so downstream
// consumers can switch on Code without string matching.
type Error struct {
	Code    uint32
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors by code so errors.Is works across wrapped values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrNotAuthorized          = &Error{Code: 100, Message: "caller is not authorized"}
	ErrInvalidHash            = &Error{Code: 101, Message: "content hash must be exactly 32 bytes"}
	ErrInvalidTitle           = &Error{Code: 102, Message: "title must be between 1 and 256 characters"}
	ErrInvalidDescription     = &Error{Code: 103, Message: "description must be at most 1024 characters"}
	ErrInvalidCategory        = &Error{Code: 104, Message: "category must be between 1 and 50 characters"}
	ErrInvalidTags            = &Error{Code: 105, Message: "invalid tags"}
	ErrInvalidPrice           = &Error{Code: 106, Message: "price must not be negative"}
	ErrInvalidRoyaltyRate     = &Error{Code: 107, Message: "royalty rate must be at most 100"}
	ErrAuthorityNotVerified   = &Error{Code: 109, Message: "registry authority is not set"}
	ErrContentAlreadyExists   = &Error{Code: 110, Message: "content hash is already registered"}
	ErrContentNotFound        = &Error{Code: 111, Message: "content not found"}
	ErrMaxContentsExceeded    = &Error{Code: 112, Message: "registry capacity exceeded"}
	ErrInvalidUpdateParam     = &Error{Code: 113, Message: "invalid update parameter"}
	ErrInvalidMaxContents     = &Error{Code: 115, Message: "max contents must be greater than zero"}
	ErrInvalidRegistrationFee = &Error{Code: 116, Message: "registration fee must not be negative"}
	ErrTagTooLong             = &Error{Code: 118, Message: "tag must be at most 50 characters"}
	ErrTooManyTags            = &Error{Code: 119, Message: "at most 10 tags are allowed"}
	ErrInvalidCurrency        = &Error{Code: 120, Message: "currency must be one of STX, USD, BTC"}
)
