package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/signet/signet/internal/auth"
	"github.com/signet/signet/internal/metrics"
	"github.com/signet/signet/internal/model"
	"github.com/signet/signet/internal/repository"
)

// fakeStore is an in-memory AccountStore with fault injection.
type fakeStore struct {
	byEmail map[string]*model.Account

	lookups int
	saves   int

	lookupErr error
	saveErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{byEmail: make(map[string]*model.Account)}
}

func (f *fakeStore) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	f.lookups++
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	account, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	return account, nil
}

func (f *fakeStore) CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error) {
	f.saves++
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if _, ok := f.byEmail[account.Email]; ok {
		return nil, repository.ErrEmailExists
	}
	now := time.Now().UTC()
	account.ID = "acct-" + account.Email
	account.CreatedAt = now
	account.LastUpdatedAt = now
	account.Version = 1
	f.byEmail[account.Email] = account
	return account, nil
}

// cookieRecorder captures cookies written by the service.
type cookieRecorder struct {
	cookies []*http.Cookie
}

func (c *cookieRecorder) SetCookie(cookie *http.Cookie) {
	c.cookies = append(c.cookies, cookie)
}

// failingRegistry always errors to prove session recording is best-effort.
type failingRegistry struct{ calls int }

func (f *failingRegistry) RecordSession(ctx context.Context, jti, accountID string, ttl time.Duration) error {
	f.calls++
	return errors.New("redis down")
}

func newTestService(store AccountStore, sessions SessionRegistry, recorder metrics.Recorder) *RegistrationService {
	signer := auth.NewTokenSigner("test-secret", 10*time.Hour)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	cookie := CookieConfig{Name: "signet_session", TTL: 24 * time.Hour}
	return NewRegistrationService(store, sessions, signer, hasher, cookie, recorder, nil)
}

func validInput() RegisterInput {
	return RegisterInput{
		Email:     "a@x.com",
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
}

func TestRegister_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*RegisterInput)
	}{
		{"missing_email", func(in *RegisterInput) { in.Email = "" }},
		{"missing_password", func(in *RegisterInput) { in.Password = "" }},
		{"missing_first_name", func(in *RegisterInput) { in.FirstName = "" }},
		{"missing_last_name", func(in *RegisterInput) { in.LastName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			sink := &cookieRecorder{}
			svc := newTestService(store, nil, nil)

			input := validInput()
			tt.mod(&input)

			_, err := svc.Register(context.Background(), input, sink)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}

			if store.lookups != 0 {
				t.Errorf("expected no store lookups, got %d", store.lookups)
			}
			if store.saves != 0 {
				t.Errorf("expected no store saves, got %d", store.saves)
			}
			if len(sink.cookies) != 0 {
				t.Errorf("expected no cookies, got %d", len(sink.cookies))
			}
		})
	}
}

func TestRegister_Success(t *testing.T) {
	store := newFakeStore()
	sink := &cookieRecorder{}
	svc := newTestService(store, nil, nil)

	before := time.Now()
	account, err := svc.Register(context.Background(), validInput(), sink)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if account.ID == "" {
		t.Error("expected a generated account ID")
	}
	if account.Email != "a@x.com" || account.FirstName != "A" || account.LastName != "B" {
		t.Errorf("unexpected account fields: %+v", account)
	}
	if account.EmailVerified {
		t.Error("expected EmailVerified to default false")
	}
	if account.PasswordHash != "" {
		t.Error("returned account must not carry the password hash")
	}

	stored := store.byEmail["a@x.com"]
	if stored == nil {
		t.Fatal("expected account to be persisted")
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "pw" {
		t.Error("stored hash must be set and must not equal the plaintext")
	}
	if stored.PasswordChangedAt.IsZero() {
		t.Error("expected PasswordChangedAt to be set at creation")
	}

	if store.lookups != 1 {
		t.Errorf("expected exactly one lookup, got %d", store.lookups)
	}
	if store.saves != 1 {
		t.Errorf("expected exactly one save, got %d", store.saves)
	}

	if len(sink.cookies) != 1 {
		t.Fatalf("expected exactly one cookie, got %d", len(sink.cookies))
	}

	cookie := sink.cookies[0]
	if cookie.Name != "signet_session" {
		t.Errorf("expected cookie name 'signet_session', got %s", cookie.Name)
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if !cookie.Secure {
		t.Error("expected Secure cookie")
	}
	if cookie.SameSite != http.SameSiteNoneMode {
		t.Errorf("expected SameSite=None, got %v", cookie.SameSite)
	}

	wantExpiry := before.Add(24 * time.Hour)
	if cookie.Expires.Before(wantExpiry.Add(-time.Minute)) || cookie.Expires.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expected cookie expiry around issuance+24h, got %s", cookie.Expires)
	}

	// The cookie value is a valid session token bound to the account.
	signer := auth.NewTokenSigner("test-secret", 10*time.Hour)
	claims, err := signer.Parse(cookie.Value)
	if err != nil {
		t.Fatalf("cookie value is not a valid token: %v", err)
	}
	if claims.ID != account.ID {
		t.Errorf("token bound to %s, want %s", claims.ID, account.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newFakeStore()
	sink := &cookieRecorder{}
	svc := newTestService(store, nil, nil)

	if _, err := svc.Register(context.Background(), validInput(), sink); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	savesAfterFirst := store.saves

	_, err := svc.Register(context.Background(), validInput(), sink)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists on second call, got %v", err)
	}

	if store.saves != savesAfterFirst {
		t.Errorf("expected no save on the duplicate path, got %d extra", store.saves-savesAfterFirst)
	}
	if len(sink.cookies) != 1 {
		t.Errorf("expected no cookie on the duplicate path, got %d total", len(sink.cookies))
	}
}

func TestRegister_DuplicateRaceAtSave(t *testing.T) {
	// Both requests can pass the lookup before either writes; the
	// storage unique constraint must surface as the conflict error.
	store := newFakeStore()
	store.saveErr = repository.ErrEmailExists
	sink := &cookieRecorder{}
	svc := newTestService(store, nil, nil)

	_, err := svc.Register(context.Background(), validInput(), sink)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if len(sink.cookies) != 0 {
		t.Error("expected no cookie when the save is rejected")
	}
}

func TestRegister_StoreLookupFault(t *testing.T) {
	store := newFakeStore()
	store.lookupErr = errors.New("pq: connection refused to db-internal-host:5432")
	sink := &cookieRecorder{}
	svc := newTestService(store, nil, nil)

	_, err := svc.Register(context.Background(), validInput(), sink)
	if err == nil {
		t.Fatal("expected error on store fault")
	}
	if errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrEmailExists) {
		t.Errorf("store fault must not masquerade as a client error: %v", err)
	}
	if store.saves != 0 {
		t.Errorf("expected no save after lookup fault, got %d", store.saves)
	}
	if len(sink.cookies) != 0 {
		t.Error("expected no cookie after lookup fault")
	}
}

func TestRegister_SessionRegistryBestEffort(t *testing.T) {
	store := newFakeStore()
	sink := &cookieRecorder{}
	registry := &failingRegistry{}
	svc := newTestService(store, registry, nil)

	account, err := svc.Register(context.Background(), validInput(), sink)
	if err != nil {
		t.Fatalf("registry outage must not fail registration: %v", err)
	}
	if account == nil {
		t.Fatal("expected an account")
	}
	if registry.calls != 1 {
		t.Errorf("expected one registry call, got %d", registry.calls)
	}
	if len(sink.cookies) != 1 {
		t.Errorf("expected a cookie despite the registry outage, got %d", len(sink.cookies))
	}
}

func TestRegister_Metrics(t *testing.T) {
	store := newFakeStore()
	recorder := metrics.NewInMemory()
	svc := newTestService(store, nil, recorder)

	ctx := context.Background()
	sink := &cookieRecorder{}

	if _, err := svc.Register(ctx, validInput(), sink); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.Register(ctx, validInput(), sink); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{}, sink); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}

	snap := recorder.Snapshot()
	if snap.Registrations[metrics.OutcomeSuccess] != 1 {
		t.Errorf("expected 1 success, got %d", snap.Registrations[metrics.OutcomeSuccess])
	}
	if snap.Registrations[metrics.OutcomeConflict] != 1 {
		t.Errorf("expected 1 conflict, got %d", snap.Registrations[metrics.OutcomeConflict])
	}
	if snap.Registrations[metrics.OutcomeInvalid] != 1 {
		t.Errorf("expected 1 invalid, got %d", snap.Registrations[metrics.OutcomeInvalid])
	}
	if snap.SessionsIssued != 1 {
		t.Errorf("expected 1 session issued, got %d", snap.SessionsIssued)
	}
	if snap.PasswordHashDurationCount != 1 {
		t.Errorf("expected 1 hash duration sample, got %d", snap.PasswordHashDurationCount)
	}
}
