// Package handler contains the HTTP handlers for the kidwatch API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kidwatch/kidwatch/internal/api/response"
	"github.com/kidwatch/kidwatch/internal/auth"
)

// ResetSender delivers a password reset token to an account holder.
// Production wires a mailer; development logs the token.
type ResetSender func(email, token string)

// AuthHandler serves signin and the password reset flow.
type AuthHandler struct {
	service   *auth.Service
	sendReset ResetSender
	logger    zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service *auth.Service, sendReset ResetSender, logger zerolog.Logger) *AuthHandler {
	if sendReset == nil {
		sendReset = func(email, token string) {
			logger.Info().Str("email", email).Msg("password reset token issued (no mailer configured)")
		}
	}
	return &AuthHandler{service: service, sendReset: sendReset, logger: logger}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	User  *auth.User `json:"user"`
	Token string     `json:"token"`
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.BadRequest(w, r, "email and password are required")
		return
	}

	user, token, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "Invalid email or password")
			return
		}
		h.logger.Error().Err(err).Msg("signin failed")
		response.InternalError(w, r, "signin failed")
		return
	}

	response.JSON(w, r, http.StatusOK, signInResponse{User: user, Token: token})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /auth/forgot-password. The response is the
// same whether or not the account exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		response.BadRequest(w, r, "email is required")
		return
	}

	token, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		h.logger.Error().Err(err).Msg("forgot password failed")
		response.InternalError(w, r, "could not process request")
		return
	}
	if token != "" {
		h.sendReset(req.Email, token)
	}

	response.Message(w, r, http.StatusOK, "If the account exists, a reset email has been sent")
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" || req.Password == "" {
		response.BadRequest(w, r, "token and password are required")
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidResetToken) {
			response.BadRequest(w, r, "Invalid or expired reset token")
			return
		}
		h.logger.Error().Err(err).Msg("reset password failed")
		response.InternalError(w, r, "could not reset password")
		return
	}

	response.Message(w, r, http.StatusOK, "Password has been reset")
}
