// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/clipframe/internal/auth"
	"github.com/tomtom215/clipframe/internal/logging"
	"github.com/tomtom215/clipframe/internal/models"
)

// ListComments handles GET /videos/{videoID}/comments, oldest first.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "videoID")
	if !ok {
		NewResponseWriter(w, r).NotFound("Video not found")
		return
	}

	page, err := h.pagination(r)
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}

	if _, err := h.videos.GetVideo(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	comments, err := h.comments.ListComments(r.Context(), id, page.Limit, page.Offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	NewResponseWriter(w, r).SuccessWithPagination(comments, &PaginationMeta{
		Count:   len(comments),
		Offset:  page.Offset,
		Limit:   page.Limit,
		HasMore: len(comments) == page.Limit,
	})
}

// CreateComment handles POST /videos/{videoID}/comments.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
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

	var req CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if _, err := h.videos.GetVideo(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		VideoID:   id,
		AuthorID:  userID,
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.comments.CreateComment(r.Context(), comment); err != nil {
		respondError(w, r, err)
		return
	}

	NewResponseWriter(w, r).Created(comment)
}

// DeleteComment handles DELETE /comments/{commentID}. The comment's
// author or the video's owner may delete it. The engagement purge for
// the comment's reaction sets runs after the relational delete.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		NewResponseWriter(w, r).Unauthorized("Authentication required")
		return
	}

	id, ok := pathUUID(r, "commentID")
	if !ok {
		NewResponseWriter(w, r).NotFound("Comment not found")
		return
	}

	comment, err := h.comments.GetComment(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if comment.AuthorID != userID {
		video, err := h.videos.GetVideo(r.Context(), comment.VideoID)
		if err != nil || video.OwnerID != userID {
			NewResponseWriter(w, r).Forbidden("Only the author or video owner may delete this comment")
			return
		}
	}

	if err := h.comments.DeleteComment(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.engagement.OnCommentDeleted(r.Context(), id.String()); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("comment_id", id.String()).
			Msg("Engagement purge failed after comment delete")
		respondError(w, r, err)
		return
	}

	NewResponseWriter(w, r).NoContent()
}
