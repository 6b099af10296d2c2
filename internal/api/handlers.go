package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"contentregistry/internal/identity"
	"contentregistry/internal/metrics"
	"contentregistry/internal/models"
	"contentregistry/internal/registry"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// handleIndex serves a minimal service descriptor
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.sendError(w, "Endpoint not found", http.StatusNotFound)
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]interface{}{
		"service": "content-registry",
		"endpoints": []string{
			"/health",
			"/metrics",
			"/contents",
			"/contents/{id}",
			"/contents/{id}/update",
			"/contents/count",
			"/contents/verify",
		},
	})
}

// handleHealth reports registry and archive health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	archiveStatus := "ok"
	status := http.StatusOK
	if s.repository != nil {
		if err := s.repository.Ping(ctx); err != nil {
			archiveStatus = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	state := s.registry.State()
	s.sendJSON(w, status, map[string]interface{}{
		"status":   http.StatusText(status),
		"archive":  archiveStatus,
		"contents": state.NextContentID,
		"authority_set": !state.Authority.IsZero(),
	})
}

// handleMetrics exposes Prometheus metrics
func (s *Server) handleMetrics() http.Handler {
	return promhttp.Handler()
}

type registerRequest struct {
	Hash        string   `json:"hash"` // hex-encoded, 32 bytes
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Price       int64    `json:"price"`
	RoyaltyRate int64    `json:"royalty_rate"`
	Currency    string   `json:"currency"`
}

// handleRegister registers new content on behalf of the caller
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// JSON carries signed numbers; negative amounts are rejected here so
	// the core can treat both as naturally unsigned.
	if req.Price < 0 {
		s.rejectRegistration(w, registry.ErrInvalidPrice)
		return
	}
	if req.RoyaltyRate < 0 {
		s.rejectRegistration(w, registry.ErrInvalidRoyaltyRate)
		return
	}
	hash, err := decodeHash(req.Hash)
	if err != nil {
		s.rejectRegistration(w, registry.ErrInvalidHash)
		return
	}

	id, err := s.registry.Register(r.Context(), caller, registry.RegisterParams{
		Hash:        hash,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Price:       uint64(req.Price),
		RoyaltyRate: uint64(req.RoyaltyRate),
		Currency:    req.Currency,
	})
	if err != nil {
		s.rejectRegistration(w, err)
		return
	}

	s.sendJSON(w, http.StatusCreated, models.RegisterResponse{ContentID: id})
}

// rejectRegistration reports the failure and counts it by error code
func (s *Server) rejectRegistration(w http.ResponseWriter, err error) {
	if regErr, ok := err.(*registry.Error); ok {
		metrics.RegistrationErrors.WithLabelValues(strconv.FormatUint(uint64(regErr.Code), 10)).Inc()
	}
	s.sendRegistryError(w, err)
}

type updateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// handleUpdate edits a record's title and description
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, rawID string) {
	caller, err := callerFromRequest(r)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := parseContentID(rawID)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.registry.Update(r.Context(), caller, id, req.Title, req.Description); err != nil {
		s.sendRegistryError(w, err)
		return
	}

	record, err := s.registry.Get(id)
	if err != nil {
		s.sendRegistryError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, toContentResponse(record))
}

// handleListContents lists archived records with pagination
func (s *Server) handleListContents(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	offset := (page - 1) * pageSize

	records, err := s.repository.ListContents(r.Context(), pageSize, offset)
	if err != nil {
		s.sendError(w, fmt.Sprintf("failed to list contents: %v", err), http.StatusInternalServerError)
		return
	}

	contents := make([]models.ContentResponse, 0, len(records))
	for _, record := range records {
		contents = append(contents, toContentResponse(record))
	}

	s.sendJSON(w, http.StatusOK, models.ContentListResponse{
		Contents: contents,
		Total:    s.registry.Count(),
		Page:     page,
		PageSize: pageSize,
	})
}

// handleGetContent returns a single record by id
func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseContentID(rawID)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := s.registry.Get(id)
	if err != nil {
		s.sendRegistryError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, toContentResponse(record))
}

// handleGetContentUpdate returns the latest tracked edit for a record
func (s *Server) handleGetContentUpdate(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseContentID(rawID)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	update, err := s.registry.LastUpdate(id)
	if err != nil {
		s.sendRegistryError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, toContentUpdateResponse(update))
}

// handleCount returns the total number of registered records
func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, models.CountResponse{Count: s.registry.Count()})
}

type verifyRequest struct {
	Hash    string `json:"hash"` // hex-encoded
	Creator string `json:"creator"`
}

// handleVerifyOwnership answers an ownership query. The query is total:
// unknown hashes yield false rather than an error.
func (s *Server) handleVerifyOwnership(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	metrics.OwnershipQueries.Inc()

	hash, err := decodeHash(req.Hash)
	if err != nil {
		// Malformed hashes cannot own anything; stay total.
		s.sendJSON(w, http.StatusOK, models.VerifyOwnershipResponse{Owned: false})
		return
	}

	owned := s.registry.VerifyOwnership(hash, identity.Address(req.Creator))
	s.sendJSON(w, http.StatusOK, models.VerifyOwnershipResponse{Owned: owned})
}

type setAuthorityRequest struct {
	Authority string `json:"authority"`
}

// handleSetAuthority sets the one-shot governance identity
func (s *Server) handleSetAuthority(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req setAuthorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	authority := identity.Address(req.Authority)
	if err := authority.Validate(); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.registry.SetAuthority(r.Context(), authority); err != nil {
		s.sendRegistryError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, s.stateResponse())
}

type setMaxContentsRequest struct {
	MaxContents int64 `json:"max_contents"`
}

// handleSetMaxContents adjusts the capacity ceiling
func (s *Server) handleSetMaxContents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	caller, err := callerFromRequest(r)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req setMaxContentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.MaxContents <= 0 {
		s.sendRegistryError(w, registry.ErrInvalidMaxContents)
		return
	}

	if err := s.registry.SetMaxContents(r.Context(), caller, uint64(req.MaxContents)); err != nil {
		s.sendRegistryError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, s.stateResponse())
}

type setFeeRequest struct {
	RegistrationFee int64 `json:"registration_fee"`
}

// handleSetRegistrationFee adjusts the per-registration fee
func (s *Server) handleSetRegistrationFee(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	caller, err := callerFromRequest(r)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req setFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.RegistrationFee < 0 {
		s.sendRegistryError(w, registry.ErrInvalidRegistrationFee)
		return
	}

	if err := s.registry.SetRegistrationFee(r.Context(), caller, uint64(req.RegistrationFee)); err != nil {
		s.sendRegistryError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, s.stateResponse())
}

// stateResponse snapshots the configuration for admin responses
func (s *Server) stateResponse() models.StateResponse {
	state := s.registry.State()
	return models.StateResponse{
		NextContentID:   state.NextContentID,
		MaxContents:     state.MaxContents,
		RegistrationFee: state.RegistrationFee,
		Authority:       state.Authority.String(),
	}
}
