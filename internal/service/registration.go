// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/signet/signet/internal/metrics"
	"github.com/signet/signet/internal/model"
	"github.com/signet/signet/internal/repository"
)

// Service errors.
var (
	ErrInvalidRequest = errors.New("invalid request body")
	ErrEmailExists    = errors.New("a user with that email already exists")
)

// AccountStore is the persistence surface the registration flow needs.
// GetAccountByEmail returns (nil, nil) when no account matches.
// CreateAccount assigns the identifier and must enforce email
// uniqueness at the storage layer, returning repository.ErrEmailExists
// on a duplicate.
type AccountStore interface {
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error)
}

// SessionRegistry records issued session tokens for later revocation
// or introspection.
type SessionRegistry interface {
	RecordSession(ctx context.Context, jti, accountID string, ttl time.Duration) error
}

// SessionSigner mints signed session tokens bound to an account ID.
type SessionSigner interface {
	Sign(accountID string) (token string, jti string, err error)
	TTL() time.Duration
}

// PasswordHasher derives a salted hash from a plaintext password.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// CookieSink is the narrow response capability the service needs.
// The HTTP handler adapts its ResponseWriter to this; the service has
// no other transport dependency.
type CookieSink interface {
	SetCookie(cookie *http.Cookie)
}

// CookieConfig controls the session cookie written on registration.
// TTL is the cookie lifetime; it is independent of the signed token
// lifetime carried by the signer.
type CookieConfig struct {
	Name string
	TTL  time.Duration
}

// RegistrationService handles account registration and session issuance.
type RegistrationService struct {
	store    AccountStore
	sessions SessionRegistry
	signer   SessionSigner
	hasher   PasswordHasher
	cookie   CookieConfig
	metrics  metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewRegistrationService creates a RegistrationService.
// sessions may be nil; recording issued sessions is best-effort.
func NewRegistrationService(
	store AccountStore,
	sessions SessionRegistry,
	signer SessionSigner,
	hasher PasswordHasher,
	cookie CookieConfig,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *RegistrationService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationService{
		store:    store,
		sessions: sessions,
		signer:   signer,
		hasher:   hasher,
		cookie:   cookie,
		metrics:  recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterInput defines input for registering an account.
// All four fields are required.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register validates the input, persists a new account and issues a
// signed session token delivered through sink as a cookie. It returns
// a sanitized copy of the account with the password hash cleared.
//
// The steps run in strict order and each failure short-circuits the
// rest: on any error path no later side effect occurs. On success
// there is exactly one store lookup, one store save and one cookie
// write.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput, sink CookieSink) (*model.Account, error) {
	start := s.now()

	if input.Email == "" || input.Password == "" || input.FirstName == "" || input.LastName == "" {
		s.metrics.IncRegistration(metrics.OutcomeInvalid)
		return nil, ErrInvalidRequest
	}

	existing, err := s.store.GetAccountByEmail(ctx, input.Email)
	if err != nil {
		s.metrics.IncRegistration(metrics.OutcomeInternal)
		return nil, fmt.Errorf("lookup account by email: %w", err)
	}
	if existing != nil {
		s.metrics.IncRegistration(metrics.OutcomeConflict)
		return nil, ErrEmailExists
	}

	hashStart := s.now()
	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.metrics.IncRegistration(metrics.OutcomeInternal)
		return nil, fmt.Errorf("hash password: %w", err)
	}
	s.metrics.ObservePasswordHashDuration(s.now().Sub(hashStart))

	account := &model.Account{
		Email:             input.Email,
		PasswordHash:      passwordHash,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		PasswordChangedAt: s.now().UTC(),
	}

	saved, err := s.store.CreateAccount(ctx, account)
	if err != nil {
		// The lookup above is not atomic with the insert; the storage
		// unique constraint is the authoritative duplicate check.
		if errors.Is(err, repository.ErrEmailExists) {
			s.metrics.IncRegistration(metrics.OutcomeConflict)
			return nil, ErrEmailExists
		}
		s.metrics.IncRegistration(metrics.OutcomeInternal)
		return nil, fmt.Errorf("save account: %w", err)
	}

	s.logger.Info("issuing session token", "account_id", saved.ID)

	token, jti, err := s.signer.Sign(saved.ID)
	if err != nil {
		s.metrics.IncRegistration(metrics.OutcomeInternal)
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	s.metrics.IncSessionIssued()

	if s.sessions != nil {
		// Best-effort: a registry outage must not fail registration.
		if err := s.sessions.RecordSession(ctx, jti, saved.ID, s.signer.TTL()); err != nil {
			s.logger.Warn("failed to record session", "jti", jti, "error", err)
		}
	}

	sink.SetCookie(&http.Cookie{
		Name:     s.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  s.now().Add(s.cookie.TTL),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	s.metrics.IncRegistration(metrics.OutcomeSuccess)
	s.metrics.ObserveRegistrationDuration(s.now().Sub(start))

	return saved.Sanitized(), nil
}
