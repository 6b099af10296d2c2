package api

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"contentregistry/internal/identity"
	"contentregistry/internal/models"
	"contentregistry/internal/registry"
)

// callerHeader carries the invoker's identity. The host environment in
// front of the node is expected to have authenticated it.
const callerHeader = "X-Registry-Caller"

// sendJSON writes a JSON response with the given status code
func (s *Server) sendJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already written; nothing left to do but note it.
		slog.Error("Failed to encode response", "error", err)
	}
}

// sendError writes a plain error response
func (s *Server) sendError(w http.ResponseWriter, message string, status int) {
	s.sendJSON(w, status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// sendRegistryError maps a registry rejection to an HTTP status, keeping
// the stable numeric code in the payload
func (s *Server) sendRegistryError(w http.ResponseWriter, err error) {
	var regErr *registry.Error
	if !errors.As(err, &regErr) {
		s.sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, registryErrorStatus(regErr), models.ErrorResponse{
		Error:   http.StatusText(registryErrorStatus(regErr)),
		Message: regErr.Message,
		Code:    regErr.Code,
	})
}

// registryErrorStatus picks the HTTP status for a registry error code
func registryErrorStatus(err *registry.Error) int {
	switch err.Code {
	case registry.ErrNotAuthorized.Code, registry.ErrAuthorityNotVerified.Code:
		return http.StatusForbidden
	case registry.ErrContentNotFound.Code:
		return http.StatusNotFound
	case registry.ErrContentAlreadyExists.Code, registry.ErrMaxContentsExceeded.Code:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// callerFromRequest extracts and validates the invoker's identity
func callerFromRequest(r *http.Request) (identity.Address, error) {
	caller := identity.Address(r.Header.Get(callerHeader))
	if caller.IsZero() {
		return "", fmt.Errorf("missing %s header", callerHeader)
	}
	if err := caller.Validate(); err != nil {
		return "", err
	}
	return caller, nil
}

// parseContentID parses the {id} path segment
func parseContentID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid content id %q", raw)
	}
	return id, nil
}

// parsePagination extracts page/page_size query parameters with defaults
func parsePagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = 20

	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

// decodeHash parses a hex-encoded content hash
func decodeHash(raw string) ([]byte, error) {
	hash, err := hex.DecodeString(raw)
	if err != nil {
		return nil, registry.ErrInvalidHash
	}
	return hash, nil
}

// toContentResponse converts a record to its API representation
func toContentResponse(record *models.ContentRecord) models.ContentResponse {
	return models.ContentResponse{
		ContentID:    record.ContentID,
		Hash:         hex.EncodeToString(record.Hash),
		Title:        record.Title,
		Description:  record.Description,
		Category:     record.Category,
		Tags:         record.Tags,
		Price:        record.Price,
		RoyaltyRate:  record.RoyaltyRate,
		Currency:     record.Currency,
		Creator:      record.Creator.String(),
		Status:       record.Status,
		RegisteredAt: record.RegisteredAt,
	}
}

// toContentUpdateResponse converts a tracker entry to its API representation
func toContentUpdateResponse(update *models.ContentUpdateRecord) models.ContentUpdateResponse {
	return models.ContentUpdateResponse{
		ContentID:   update.ContentID,
		Title:       update.Title,
		Description: update.Description,
		UpdatedAt:   update.UpdatedAt,
		UpdatedBy:   update.UpdatedBy.String(),
	}
}
