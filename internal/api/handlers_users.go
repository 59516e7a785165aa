// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"net/http"

	"github.com/tomtom215/clipframe/internal/auth"
	"github.com/tomtom215/clipframe/internal/logging"
)

// Me handles GET /users/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		NewResponseWriter(w, r).Unauthorized("Authentication required")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(user)
}

// UpdateMe handles PATCH /users/me: username changes.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		NewResponseWriter(w, r).Unauthorized("Authentication required")
		return
	}

	var req UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.users.UpdateUsername(r.Context(), userID, req.Username); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(user)
}

// DeleteMe handles DELETE /users/me. The relational delete cascades to
// the user's videos and comments; the engagement purge runs after it
// commits. Dislike memberships the purge cannot reach from the user's
// inverse indexes are scrubbed when the affected videos are deleted.
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		NewResponseWriter(w, r).Unauthorized("Authentication required")
		return
	}

	// Videos must purge individually before the cascade removes the
	// rows, or their engagement keys would be orphaned.
	videos, err := h.videos.ListVideosByOwner(r.Context(), userID, h.cfg.API.MaxPageSize, 0)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}

	for _, video := range videos {
		if err := h.engagement.OnVideoDeleted(r.Context(), video.ID.String()); err != nil {
			logging.Ctx(r.Context()).Error().Err(err).
				Str("video_id", video.ID.String()).
				Msg("Engagement purge failed for deleted user's video")
		}
		for _, objectURL := range []string{video.FileURL, video.PreviewURL} {
			if objectURL == "" {
				continue
			}
			if delErr := h.objects.Delete(r.Context(), objectURL); delErr != nil {
				logging.Ctx(r.Context()).Warn().Err(delErr).
					Str("object_url", objectURL).
					Msg("Failed to delete stored object for removed account")
			}
		}
	}

	if err := h.engagement.OnUserDeleted(r.Context(), userID.String()); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("user_id", userID.String()).
			Msg("Engagement purge failed after account delete")
		respondError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("user_id", userID.String()).
		Msg("Account deleted")
	NewResponseWriter(w, r).NoContent()
}

// GetUser handles GET /users/{userID}: a public profile.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "userID")
	if !ok {
		NewResponseWriter(w, r).NotFound("User not found")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(user.Public())
}
