package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/signet/signet/internal/auth"
	"github.com/signet/signet/internal/handler/dto"
	"github.com/signet/signet/internal/model"
	"github.com/signet/signet/internal/service"
)

// memStore is a minimal in-memory account store with fault injection.
type memStore struct {
	byEmail   map[string]*model.Account
	lookupErr error
	saves     int
}

func newMemStore() *memStore {
	return &memStore{byEmail: make(map[string]*model.Account)}
}

func (m *memStore) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.byEmail[email], nil
}

func (m *memStore) CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error) {
	m.saves++
	now := time.Now().UTC()
	account.ID = "acct-1"
	account.CreatedAt = now
	account.LastUpdatedAt = now
	account.Version = 1
	m.byEmail[account.Email] = account
	return account, nil
}

func newTestHandler(store service.AccountStore) *AuthHandler {
	signer := auth.NewTokenSigner("test-secret", 10*time.Hour)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	cookie := service.CookieConfig{Name: "signet_session", TTL: 24 * time.Hour}
	svc := service.NewRegistrationService(store, nil, signer, hasher, cookie, nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthHandler(svc, logger)
}

func postRegister(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	return rec
}

const validBody = `{"email":"a@x.com","password":"pw","firstName":"A","lastName":"B"}`

func TestAuthHandler_Register_Success(t *testing.T) {
	store := newMemStore()
	h := newTestHandler(store)

	rec := postRegister(t, h, validBody)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.RegisterResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.Success {
		t.Error("expected success=true")
	}
	user := resp.Data.User
	if user.Email != "a@x.com" || user.FirstName != "A" || user.LastName != "B" {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.ID == "" {
		t.Error("expected a generated user id")
	}

	// The serialized user must not leak secrets or audit fields.
	raw := rec.Body.String()
	for _, forbidden := range []string{"passwordHash", "password_hash", "createdAt", "version"} {
		if strings.Contains(raw, forbidden) {
			t.Errorf("response body leaks %q: %s", forbidden, raw)
		}
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected exactly one cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != "signet_session" {
		t.Errorf("unexpected cookie name %s", cookie.Name)
	}
	if !cookie.HttpOnly || !cookie.Secure {
		t.Error("expected HttpOnly and Secure cookie")
	}
	if cookie.SameSite != http.SameSiteNoneMode {
		t.Errorf("expected SameSite=None, got %v", cookie.SameSite)
	}
	if cookie.Value == "" {
		t.Error("expected cookie to carry the session token")
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	store := newMemStore()
	h := newTestHandler(store)

	if rec := postRegister(t, h, validBody); rec.Code != http.StatusCreated {
		t.Fatalf("first registration failed: %d", rec.Code)
	}

	rec := postRegister(t, h, validBody)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "A user with that email already exists" {
		t.Errorf("unexpected error message: %s", resp.Error)
	}
	if resp.Code != "EMAIL_EXISTS" {
		t.Errorf("unexpected error code: %s", resp.Code)
	}
}

func TestAuthHandler_Register_MissingField(t *testing.T) {
	store := newMemStore()
	h := newTestHandler(store)

	rec := postRegister(t, h, `{"email":"a@x.com","firstName":"A","lastName":"B"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "Invalid request body" {
		t.Errorf("unexpected error message: %s", resp.Error)
	}

	if store.saves != 0 {
		t.Errorf("expected no store save, got %d", store.saves)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no cookie on validation failure")
	}
}

func TestAuthHandler_Register_MalformedJSON(t *testing.T) {
	h := newTestHandler(newMemStore())

	rec := postRegister(t, h, `{"email":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "INVALID_REQUEST" {
		t.Errorf("unexpected error code: %s", resp.Code)
	}
}

func TestAuthHandler_Register_StoreFault(t *testing.T) {
	store := newMemStore()
	store.lookupErr = errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
	h := newTestHandler(store)

	rec := postRegister(t, h, validBody)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "An internal error occurred" {
		t.Errorf("unexpected error message: %s", resp.Error)
	}
	if strings.Contains(resp.Error, "connection") || strings.Contains(resp.Error, "5432") {
		t.Error("internal error must not leak storage detail")
	}
}
