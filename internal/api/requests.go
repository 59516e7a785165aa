// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/clipframe/internal/validation"
)

// maxJSONBodyBytes caps JSON request bodies. Uploads go through
// multipart forms with their own limits.
const maxJSONBodyBytes = 1 << 20

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest is the payload for PATCH /users/me.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
}

// UpdateVideoRequest is the payload for PATCH /videos/{id}.
// All fields are optional; absent fields are left unchanged.
type UpdateVideoRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	IsPrivate   *bool   `json:"is_private"`
}

// CreateCommentRequest is the payload for POST /videos/{id}/comments.
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// badRequestError marks client-side decode failures so the error
// mapper answers 400 instead of 500.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

// decodeJSON reads, decodes, and validates a JSON request body.
func decodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return &badRequestError{msg: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	if err := validation.ValidateStruct(dst); err != nil {
		return err
	}
	return nil
}

// Pagination is a parsed limit/offset window.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination reads limit and offset query parameters, applying
// the configured default and maximum page sizes.
func parsePagination(r *http.Request, defaultLimit, maxLimit int) (Pagination, error) {
	p := Pagination{Limit: defaultLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return p, errors.New("limit must be a positive integer")
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		p.Limit = limit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return p, errors.New("offset must be a non-negative integer")
		}
		p.Offset = offset
	}

	return p, nil
}
