package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/signet/signet/internal/handler/dto"
	"github.com/signet/signet/internal/model"
	"github.com/signet/signet/internal/service"
)

// Registrar is the service surface the auth handler needs.
type Registrar interface {
	Register(ctx context.Context, input service.RegisterInput, sink service.CookieSink) (*model.Account, error)
}

// AuthHandler handles HTTP requests for registration.
type AuthHandler struct {
	svc    Registrar
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc Registrar, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// cookieWriter adapts http.ResponseWriter to the service's CookieSink.
type cookieWriter struct {
	w http.ResponseWriter
}

func (c cookieWriter) SetCookie(cookie *http.Cookie) {
	http.SetCookie(c.w, cookie)
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	input := service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	account, err := h.svc.Register(r.Context(), input, cookieWriter{w: w})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("account_registered", "account_id", account.ID)

	writeJSON(w, http.StatusCreated, dto.ToRegisterResponse(account))
}

// handleServiceError maps service errors to HTTP responses.
// Validation and conflict both map to 400; store faults surface as a
// generic 500 so storage detail never leaks to clients.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
	case errors.Is(err, service.ErrEmailExists):
		h.writeError(w, http.StatusBadRequest, "EMAIL_EXISTS", "A user with that email already exists")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *AuthHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
