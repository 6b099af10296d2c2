package models

// ContentResponse represents a content record for API responses.
// The hash is hex-encoded for readability.
type ContentResponse struct {
	ContentID   uint64   `json:"content_id"`
	Hash        string   `json:"hash"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`

	// Commercial terms
	Price       uint64 `json:"price"`
	RoyaltyRate uint64 `json:"royalty_rate"`
	Currency    string `json:"currency"`

	// Ownership
	Creator      string `json:"creator"`
	Status       bool   `json:"status"`
	RegisteredAt uint64 `json:"registered_at"`
}

// ContentUpdateResponse represents the latest tracked edit of a record.
type ContentUpdateResponse struct {
	ContentID   uint64 `json:"content_id"`
	Title       string `json:"updated_title"`
	Description string `json:"updated_description"`
	UpdatedAt   uint64 `json:"updated_at"`
	UpdatedBy   string `json:"updated_by"`
}

// ContentListResponse represents a paginated list of content records.
type ContentListResponse struct {
	Contents []ContentResponse `json:"contents"`
	Total    uint64            `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	ContentID uint64 `json:"content_id"`
}

// CountResponse wraps the total number of registered records.
type CountResponse struct {
	Count uint64 `json:"count"`
}

// VerifyOwnershipResponse is the result of an ownership query.
// The query is total: an unknown hash yields Owned=false, not an error.
type VerifyOwnershipResponse struct {
	Owned bool `json:"owned"`
}

// StateResponse exposes the current registry configuration.
type StateResponse struct {
	NextContentID   uint64 `json:"next_content_id"`
	MaxContents     uint64 `json:"max_contents"`
	RegistrationFee uint64 `json:"registration_fee"`
	Authority       string `json:"authority,omitempty"`
}

// ErrorResponse represents an API error. Code carries the registry's
// stable numeric error code when the failure is a registry rejection.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    uint32 `json:"code,omitempty"`
}
