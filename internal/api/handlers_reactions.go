// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"net/http"

	"github.com/tomtom215/clipframe/internal/auth"
	"github.com/tomtom215/clipframe/internal/engagement"
)

// reactionResponse is the state after a reaction change: the caller's
// resulting reaction and the video's updated counts.
type reactionResponse struct {
	Reaction engagement.Reaction `json:"my_reaction"`
	Counts   engagement.Counts   `json:"counts"`
}

// LikeVideo handles POST /videos/{videoID}/like. A like on an already
// liked video removes it; a like over a dislike replaces it.
func (h *Handler) LikeVideo(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, engagement.ReactionLike)
}

// DislikeVideo handles POST /videos/{videoID}/dislike, the mirror of
// LikeVideo.
func (h *Handler) DislikeVideo(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, engagement.ReactionDislike)
}

// ClearReaction handles DELETE /videos/{videoID}/reactions, removing
// whichever reaction the caller holds. Idempotent.
func (h *Handler) ClearReaction(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, engagement.ReactionNone)
}

func (h *Handler) react(w http.ResponseWriter, r *http.Request, reaction engagement.Reaction) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		NewResponseWriter(w, r).Unauthorized("Authentication required")
		return
	}

	id, ok := pathUUID(r, "videoID")
	if !ok {
		NewResponseWriter(w, r).NotFound("Video not found")
		return
	}

	result, err := h.engagement.ReactToVideo(r.Context(), id.String(), userID.String(), reaction)
	if err != nil {
		respondError(w, r, err)
		return
	}

	counts, _, err := h.engagement.Counts(r.Context(), id.String(), "")
	if err != nil {
		respondError(w, r, err)
		return
	}

	NewResponseWriter(w, r).Success(reactionResponse{Reaction: result, Counts: counts})
}

// GetReactions handles GET /videos/{videoID}/reactions: the video's
// counts plus the caller's own reaction when authenticated.
func (h *Handler) GetReactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "videoID")
	if !ok {
		NewResponseWriter(w, r).NotFound("Video not found")
		return
	}

	var viewerID string
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		viewerID = userID.String()
	}

	counts, reaction, err := h.engagement.Counts(r.Context(), id.String(), viewerID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	NewResponseWriter(w, r).Success(reactionResponse{Reaction: reaction, Counts: counts})
}
