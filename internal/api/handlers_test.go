package api

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"contentregistry/internal/models"
	"contentregistry/internal/payments"
	"contentregistry/internal/registry"
)

const (
	creatorAddr   = "GA7QYNF7SOWQ3GLR2BGMZEHXAVIRZA4KVWLTJJFC7MGXUA74P7UJVSGZ"
	authorityAddr = "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7"
	strangerAddr  = "GCEZWKCA5VLDNRLN3RPRJMRZOX3Z6G5CHCGSNFHEYVXM3XOJMDS674JZ"
)

// stubRepository satisfies storage.Repository with in-memory no-ops. The
// handlers only reach it for the paginated list and the health check.
type stubRepository struct {
	contents []*models.ContentRecord
	pingErr  error
}

func (s *stubRepository) Migrate(ctx context.Context) error { return nil }

func (s *stubRepository) SaveContent(ctx context.Context, record *models.ContentRecord) error {
	s.contents = append(s.contents, record.Clone())
	return nil
}

func (s *stubRepository) UpdateContent(ctx context.Context, record *models.ContentRecord) error {
	for i, existing := range s.contents {
		if existing.ContentID == record.ContentID {
			s.contents[i] = record.Clone()
		}
	}
	return nil
}

func (s *stubRepository) ListContents(ctx context.Context, limit, offset int) ([]*models.ContentRecord, error) {
	if offset >= len(s.contents) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.contents) {
		end = len(s.contents)
	}
	return s.contents[offset:end], nil
}

func (s *stubRepository) ListAllContents(ctx context.Context) ([]*models.ContentRecord, error) {
	return s.contents, nil
}

func (s *stubRepository) SaveContentUpdate(ctx context.Context, update *models.ContentUpdateRecord) error {
	return nil
}

func (s *stubRepository) ListAllContentUpdates(ctx context.Context) ([]*models.ContentUpdateRecord, error) {
	return nil, nil
}

func (s *stubRepository) SaveRegistryState(ctx context.Context, state *models.RegistryState) error {
	return nil
}

func (s *stubRepository) GetRegistryState(ctx context.Context) (*models.RegistryState, error) {
	return nil, nil
}

func (s *stubRepository) SaveTransfer(ctx context.Context, transfer *models.FeeTransfer) error {
	return nil
}

func (s *stubRepository) Ping(ctx context.Context) error { return s.pingErr }
func (s *stubRepository) Close() error                   { return nil }

func newTestServer(t *testing.T) (*Server, *registry.Registry) {
	t.Helper()

	reg := registry.New(registry.Options{
		MaxContents: 1000,
		Transferor:  payments.NewRecorder(),
	})
	return NewServer(0, reg, &stubRepository{}), reg
}

func newTestServerWithAuthority(t *testing.T) (*Server, *registry.Registry) {
	t.Helper()

	srv, reg := newTestServer(t)
	if err := reg.SetAuthority(context.Background(), authorityAddr); err != nil {
		t.Fatalf("SetAuthority failed: %v", err)
	}
	return srv, reg
}

func registerBody(hash string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"hash":         hash,
		"title":        "Title",
		"description":  "Description",
		"category":     "Category",
		"tags":         []string{"tag1", "tag2"},
		"price":        500,
		"royalty_rate": 10,
		"currency":     "STX",
	})
	return body
}

func testHashHex(b byte) string {
	return hex.EncodeToString(bytes.Repeat([]byte{b}, 32))
}

func doRequest(srv *Server, method, path, caller string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if caller != "" {
		req.Header.Set(callerHeader, caller)
	}
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	srv, reg := newTestServerWithAuthority(t)

	rec := doRequest(srv, http.MethodPost, "/contents", creatorAddr, registerBody(testHashHex(1)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, expected 201: %s", rec.Code, rec.Body.String())
	}

	var resp models.RegisterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ContentID != 0 {
		t.Errorf("first content id = %d, expected 0", resp.ContentID)
	}
	if reg.Count() != 1 {
		t.Errorf("registry count = %d, expected 1", reg.Count())
	}
}

func TestRegisterEndpointDuplicateHash(t *testing.T) {
	srv, _ := newTestServerWithAuthority(t)

	if rec := doRequest(srv, http.MethodPost, "/contents", creatorAddr, registerBody(testHashHex(1))); rec.Code != http.StatusCreated {
		t.Fatalf("first registration failed: %d", rec.Code)
	}

	rec := doRequest(srv, http.MethodPost, "/contents", strangerAddr, registerBody(testHashHex(1)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, expected 409", rec.Code)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != registry.ErrContentAlreadyExists.Code {
		t.Errorf("error code = %d, expected %d", resp.Code, registry.ErrContentAlreadyExists.Code)
	}
}

func TestRegisterEndpointRejections(t *testing.T) {
	srv, _ := newTestServerWithAuthority(t)

	tests := []struct {
		name       string
		caller     string
		body       []byte
		wantStatus int
		wantCode   uint32
	}{
		{
			name:       "missing caller header",
			caller:     "",
			body:       registerBody(testHashHex(1)),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed caller",
			caller:     "not-an-address",
			body:       registerBody(testHashHex(1)),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed hash",
			caller:     creatorAddr,
			body:       registerBody("zzzz"),
			wantStatus: http.StatusBadRequest,
			wantCode:   registry.ErrInvalidHash.Code,
		},
		{
			name:       "short hash",
			caller:     creatorAddr,
			body:       registerBody(hex.EncodeToString(bytes.Repeat([]byte{1}, 16))),
			wantStatus: http.StatusBadRequest,
			wantCode:   registry.ErrInvalidHash.Code,
		},
		{
			name:       "negative price",
			caller:     creatorAddr,
			body:       []byte(fmt.Sprintf(`{"hash":%q,"title":"T","description":"D","category":"C","tags":["t"],"price":-1,"royalty_rate":10,"currency":"STX"}`, testHashHex(2))),
			wantStatus: http.StatusBadRequest,
			wantCode:   registry.ErrInvalidPrice.Code,
		},
		{
			name:       "bad currency",
			caller:     creatorAddr,
			body:       []byte(fmt.Sprintf(`{"hash":%q,"title":"T","description":"D","category":"C","tags":["t"],"price":1,"royalty_rate":10,"currency":"EUR"}`, testHashHex(2))),
			wantStatus: http.StatusBadRequest,
			wantCode:   registry.ErrInvalidCurrency.Code,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodPost, "/contents", tt.caller, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, expected %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != 0 {
				var resp models.ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Code != tt.wantCode {
					t.Errorf("error code = %d, expected %d", resp.Code, tt.wantCode)
				}
			}
		})
	}
}

func TestRegisterEndpointWithoutAuthority(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/contents", creatorAddr, registerBody(testHashHex(1)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, expected 403", rec.Code)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != registry.ErrAuthorityNotVerified.Code {
		t.Errorf("error code = %d, expected %d", resp.Code, registry.ErrAuthorityNotVerified.Code)
	}
}

func TestUpdateEndpoint(t *testing.T) {
	srv, _ := newTestServerWithAuthority(t)

	if rec := doRequest(srv, http.MethodPost, "/contents", creatorAddr, registerBody(testHashHex(1))); rec.Code != http.StatusCreated {
		t.Fatalf("registration failed: %d", rec.Code)
	}

	body, _ := json.Marshal(map[string]string{"title": "NewTitle", "description": "NewDescription"})
	rec := doRequest(srv, http.MethodPut, "/contents/0", creatorAddr, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200: %s", rec.Code, rec.Body.String())
	}

	var resp models.ContentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Title != "NewTitle" {
		t.Errorf("title = %q, expected NewTitle", resp.Title)
	}

	// Only the creator may edit.
	rec = doRequest(srv, http.MethodPut, "/contents/0", strangerAddr, body)
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger update status = %d, expected 403", rec.Code)
	}

	// Unknown ids are not found.
	rec = doRequest(srv, http.MethodPut, "/contents/42", creatorAddr, body)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id update status = %d, expected 404", rec.Code)
	}
}

func TestGetContentEndpoint(t *testing.T) {
	srv, _ := newTestServerWithAuthority(t)

	if rec := doRequest(srv, http.MethodPost, "/contents", creatorAddr, registerBody(testHashHex(7))); rec.Code != http.StatusCreated {
		t.Fatalf("registration failed: %d", rec.Code)
	}

	rec := doRequest(srv, http.MethodGet, "/contents/0", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var resp models.ContentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Hash != testHashHex(7) {
		t.Errorf("hash = %q, expected %q", resp.Hash, testHashHex(7))
	}
	if resp.Creator != creatorAddr {
		t.Errorf("creator = %q, expected %q", resp.Creator, creatorAddr)
	}

	if rec := doRequest(srv, http.MethodGet, "/contents/42", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, expected 404", rec.Code)
	}
	if rec := doRequest(srv, http.MethodGet, "/contents/abc", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id status = %d, expected 400", rec.Code)
	}
}

func TestCountEndpoint(t *testing.T) {
	srv, _ := newTestServerWithAuthority(t)

	for i := byte(1); i <= 3; i++ {
		if rec := doRequest(srv, http.MethodPost, "/contents", creatorAddr, registerBody(testHashHex(i))); rec.Code != http.StatusCreated {
			t.Fatalf("registration %d failed: %d", i, rec.Code)
		}
	}

	rec := doRequest(srv, http.MethodGet, "/contents/count", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var resp models.CountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 3 {
		t.Errorf("count = %d, expected 3", resp.Count)
	}
}

func TestVerifyOwnershipEndpoint(t *testing.T) {
	srv, _ := newTestServerWithAuthority(t)

	if rec := doRequest(srv, http.MethodPost, "/contents", creatorAddr, registerBody(testHashHex(1))); rec.Code != http.StatusCreated {
		t.Fatalf("registration failed: %d", rec.Code)
	}

	tests := []struct {
		name    string
		hash    string
		creator string
		owned   bool
	}{
		{"creator owns registered hash", testHashHex(1), creatorAddr, true},
		{"stranger does not own it", testHashHex(1), strangerAddr, false},
		{"unknown hash", testHashHex(9), creatorAddr, false},
		{"malformed hash", "zzzz", creatorAddr, false},
		{"short hash", "aabb", creatorAddr, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{"hash": tt.hash, "creator": tt.creator})
			rec := doRequest(srv, http.MethodPost, "/contents/verify", "", body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, expected 200", rec.Code)
			}

			var resp models.VerifyOwnershipResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Owned != tt.owned {
				t.Errorf("owned = %v, expected %v", resp.Owned, tt.owned)
			}
		})
	}
}

func TestSetAuthorityEndpointOneShot(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"authority": authorityAddr})
	rec := doRequest(srv, http.MethodPost, "/admin/authority", "", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200: %s", rec.Code, rec.Body.String())
	}

	var resp models.StateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Authority != authorityAddr {
		t.Errorf("authority = %q, expected %q", resp.Authority, authorityAddr)
	}

	// The slot is claimed exactly once.
	body, _ = json.Marshal(map[string]string{"authority": strangerAddr})
	if rec := doRequest(srv, http.MethodPost, "/admin/authority", "", body); rec.Code != http.StatusForbidden {
		t.Errorf("second set status = %d, expected 403", rec.Code)
	}
}

func TestAdminConfigEndpoints(t *testing.T) {
	srv, reg := newTestServerWithAuthority(t)

	body, _ := json.Marshal(map[string]int64{"max_contents": 500})
	rec := doRequest(srv, http.MethodPost, "/admin/max-contents", authorityAddr, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("max-contents status = %d, expected 200: %s", rec.Code, rec.Body.String())
	}

	body, _ = json.Marshal(map[string]int64{"registration_fee": 250})
	rec = doRequest(srv, http.MethodPost, "/admin/fee", authorityAddr, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("fee status = %d, expected 200: %s", rec.Code, rec.Body.String())
	}

	state := reg.State()
	if state.MaxContents != 500 {
		t.Errorf("max contents = %d, expected 500", state.MaxContents)
	}
	if state.RegistrationFee != 250 {
		t.Errorf("registration fee = %d, expected 250", state.RegistrationFee)
	}

	// Zero capacity is rejected before any privilege check.
	body, _ = json.Marshal(map[string]int64{"max_contents": 0})
	rec = doRequest(srv, http.MethodPost, "/admin/max-contents", authorityAddr, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero max-contents status = %d, expected 400", rec.Code)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != registry.ErrInvalidMaxContents.Code {
		t.Errorf("error code = %d, expected %d", resp.Code, registry.ErrInvalidMaxContents.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServerWithAuthority(t)

	rec := doRequest(srv, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["archive"] != "ok" {
		t.Errorf("archive = %v, expected ok", resp["archive"])
	}
	if resp["authority_set"] != true {
		t.Errorf("authority_set = %v, expected true", resp["authority_set"])
	}
}
