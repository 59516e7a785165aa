// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/clipframe/internal/auth"
	"github.com/tomtom215/clipframe/internal/engagement"
	"github.com/tomtom215/clipframe/internal/logging"
	"github.com/tomtom215/clipframe/internal/models"
)

// authResponse carries a fresh token and the account it belongs to.
type authResponse struct {
	Token string               `json:"token"`
	User  models.PublicProfile `json:"user"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			NewResponseWriter(w, r).BadRequest(err.Error())
			return
		}
		respondError(w, r, err)
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		respondError(w, r, err)
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Msg("User registered")

	h.setTokenCookie(w, token)
	NewResponseWriter(w, r).Created(authResponse{Token: token, User: user.Public()})
}

// Login handles POST /auth/login. Wrong email and wrong password are
// indistinguishable to the caller.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, engagement.ErrNotFound) {
			NewResponseWriter(w, r).Unauthorized("Invalid email or password")
			return
		}
		respondError(w, r, err)
		return
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !ok {
		NewResponseWriter(w, r).Unauthorized("Invalid email or password")
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("user_id", user.ID.String()).
		Msg("User logged in")

	h.setTokenCookie(w, token)
	NewResponseWriter(w, r).Success(authResponse{Token: token, User: user.Public()})
}

// Logout handles POST /auth/logout by expiring the token cookie.
// Bearer tokens are stateless; clients discard them.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.Server.IsProduction(),
	})
	NewResponseWriter(w, r).NoContent()
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.Security.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.Server.IsProduction(),
	})
}
