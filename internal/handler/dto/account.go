// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/signet/signet/internal/model"

// RegisterRequest represents the request body for account registration.
// All four fields are required.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AccountResponse represents an account in API responses.
// It never carries the password hash or store-owned audit fields.
type AccountResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	EmailVerified bool   `json:"emailVerified"`
}

// RegisterResponse is the success envelope for registration.
type RegisterResponse struct {
	Success bool         `json:"success"`
	Data    RegisterData `json:"data"`
}

// RegisterData wraps the registered account.
type RegisterData struct {
	User AccountResponse `json:"user"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToRegisterResponse converts a sanitized Account to the success envelope.
func ToRegisterResponse(account *model.Account) *RegisterResponse {
	return &RegisterResponse{
		Success: true,
		Data: RegisterData{
			User: AccountResponse{
				ID:            account.ID,
				Email:         account.Email,
				FirstName:     account.FirstName,
				LastName:      account.LastName,
				EmailVerified: account.EmailVerified,
			},
		},
	}
}
