// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"net/http"
	"testing"
)

func TestRegisterAndMe(t *testing.T) {
	env := newTestEnv(t)

	token, userID := env.register(t, "alice", "alice@example.com")

	rec := env.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d: %s", rec.Code, rec.Body.String())
	}

	var me struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	decodeData(t, rec, &me)
	if me.ID != userID.String() {
		t.Errorf("me.id = %s, want %s", me.ID, userID)
	}
	if me.Username != "alice" || me.Email != "alice@example.com" {
		t.Errorf("unexpected profile: %+v", me)
	}
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "correct-horse-battery",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != ErrCodeConflict {
		t.Errorf("error code = %s, want %s", code, ErrCodeConflict)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Username: "al",
		Email:    "not-an-email",
		Password: "short",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != ErrCodeValidationFailed {
		t.Errorf("error code = %s, want %s", code, ErrCodeValidationFailed)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	t.Run("correct password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
			Email:    "alice@example.com",
			Password: "correct-horse-battery",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		var resp authResponse
		decodeData(t, rec, &resp)
		if resp.Token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong-password",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("unknown email matches wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
			Email:    "nobody@example.com",
			Password: "correct-horse-battery",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestProtectedEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/videos/my"},
		{http.MethodGet, "/api/v1/videos/my/likes"},
		{http.MethodGet, "/api/v1/videos/my/views"},
		{http.MethodPost, "/api/v1/videos"},
	} {
		rec := env.do(t, tc.method, tc.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}
