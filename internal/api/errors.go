// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/clipframe/internal/database"
	"github.com/tomtom215/clipframe/internal/engagement"
	"github.com/tomtom215/clipframe/internal/logging"
	"github.com/tomtom215/clipframe/internal/storage"
	"github.com/tomtom215/clipframe/internal/validation"
)

// respondError translates domain sentinels into the standardized error
// envelope. Unclassified errors become opaque 500s so internals never
// leak to clients.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	var validationErr *validation.RequestValidationError
	if errors.As(err, &validationErr) {
		rw.ValidationError("Request validation failed", validationErr.Fields())
		return
	}

	var badReq *badRequestError
	if errors.As(err, &badReq) {
		rw.BadRequest(badReq.msg)
		return
	}

	switch {
	case errors.Is(err, engagement.ErrNotFound):
		rw.NotFound("Resource not found")
	case errors.Is(err, engagement.ErrForbidden):
		rw.Forbidden("Access denied")
	case errors.Is(err, engagement.ErrInvalidCredential):
		rw.Unauthorized("Invalid or expired credentials")
	case errors.Is(err, engagement.ErrStoreUnavailable):
		rw.ServiceUnavailable("Engagement store unavailable")
	case errors.Is(err, database.ErrConflict):
		rw.Conflict("Resource already exists")
	case errors.Is(err, storage.ErrFileTooLarge):
		rw.Error(http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, err.Error())
	case errors.Is(err, storage.ErrUnsupportedType):
		rw.Error(http.StatusUnsupportedMediaType, ErrCodeUnsupportedMedia, err.Error())
	default:
		logging.Err(err).Str("path", r.URL.Path).Msg("Unhandled handler error")
		rw.InternalError("An internal error occurred")
	}
}
