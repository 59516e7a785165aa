// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/clipframe/internal/auth"
	"github.com/tomtom215/clipframe/internal/database"
	"github.com/tomtom215/clipframe/internal/engagement"
	"github.com/tomtom215/clipframe/internal/logging"
	"github.com/tomtom215/clipframe/internal/models"
	"github.com/tomtom215/clipframe/internal/validation"
)

// videoResponse is a video plus its engagement state.
type videoResponse struct {
	*models.Video
	Counts   engagement.Counts   `json:"counts"`
	Reaction engagement.Reaction `json:"my_reaction"`
}

// ListVideos handles GET /videos: the public feed, newest first.
func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	page, err := h.pagination(r)
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}

	videos, err := h.videos.ListPublicVideos(r.Context(), page.Limit, page.Offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	NewResponseWriter(w, r).SuccessWithPagination(videos, &PaginationMeta{
		Count:   len(videos),
		Offset:  page.Offset,
		Limit:   page.Limit,
		HasMore: len(videos) == page.Limit,
	})
}

// MyVideos handles GET /videos/my: the caller's own videos, private
// included.
func (h *Handler) MyVideos(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		NewResponseWriter(w, r).Unauthorized("Authentication required")
		return
	}

	page, err := h.pagination(r)
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}

	videos, err := h.videos.ListVideosByOwner(r.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	NewResponseWriter(w, r).SuccessWithPagination(videos, &PaginationMeta{
		Count:   len(videos),
		Offset:  page.Offset,
		Limit:   page.Limit,
		HasMore: len(videos) == page.Limit,
	})
}

// MyLikedVideos handles GET /videos/my/likes: the videos the caller
// likes, hydrated from the engagement inverse index. IDs whose video
// rows were deleted since are skipped.
func (h *Handler) MyLikedVideos(w http.ResponseWriter, r *http.Request) {
	h.listEngagedVideos(w, r, h.engagement.LikedVideos)
}

// MyViewedVideos handles GET /videos/my/views: the caller's watch
// history.
func (h *Handler) MyViewedVideos(w http.ResponseWriter, r *http.Request) {
	h.listEngagedVideos(w, r, h.engagement.ViewedVideos)
}

func (h *Handler) listEngagedVideos(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, userID string) ([]string, error),
) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		NewResponseWriter(w, r).Unauthorized("Authentication required")
		return
	}

	rawIDs, err := list(r.Context(), userID.String())
	if err != nil {
		respondError(w, r, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		if id, parseErr := uuid.Parse(raw); parseErr == nil {
			ids = append(ids, id)
		}
	}

	videos, err := h.videos.GetVideosByIDs(r.Context(), ids)
	if err != nil {
		respondError(w, r, err)
		return
	}

	NewResponseWriter(w, r).SuccessWithPagination(videos, &PaginationMeta{
		Count: len(videos),
	})
}

// UploadVideo handles POST /videos: a multipart upload of the clip file
// with name, description, and privacy fields.
func (h *Handler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		NewResponseWriter(w, r).Unauthorized("Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Storage.MaxVideoSize+maxJSONBodyBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		NewResponseWriter(w, r).BadRequest("Missing or unreadable file field")
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	isPrivate, _ := strconv.ParseBool(r.FormValue("is_private"))

	meta := struct {
		Name        string `validate:"required,min=1,max=200"`
		Description string `validate:"max=5000"`
	}{Name: name, Description: r.FormValue("description")}
	if verr := validation.ValidateStruct(&meta); verr != nil {
		respondError(w, r, verr)
		return
	}

	fileURL, err := h.objects.UploadVideo(r.Context(),
		header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		respondError(w, r, err)
		return
	}

	now := time.Now().UTC()
	video := &models.Video{
		ID:          uuid.New(),
		OwnerID:     userID,
		Name:        meta.Name,
		Description: meta.Description,
		FileURL:     fileURL,
		IsPrivate:   isPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.videos.CreateVideo(r.Context(), video); err != nil {
		// The row never existed; drop the orphaned object.
		if delErr := h.objects.Delete(r.Context(), fileURL); delErr != nil {
			logging.Ctx(r.Context()).Warn().Err(delErr).
				Str("file_url", fileURL).
				Msg("Failed to delete orphaned upload")
		}
		respondError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("video_id", video.ID.String()).
		Str("owner_id", userID.String()).
		Bool("private", isPrivate).
		Msg("Video uploaded")

	NewResponseWriter(w, r).Created(video)
}

// GetVideo handles GET /videos/{videoID}. Access control and view
// attribution run through the engagement facade: anonymous callers may
// watch public videos without a trace, identified callers get a view
// recorded, private videos admit only their owner.
func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "videoID")
	if !ok {
		NewResponseWriter(w, r).NotFound("Video not found")
		return
	}

	decision, err := h.engagement.ViewVideo(r.Context(), id.String(), auth.ExtractToken(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	video, err := h.videos.GetVideo(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	counts, reaction, err := h.engagement.Counts(r.Context(), id.String(), decision.ViewerID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	NewResponseWriter(w, r).Success(videoResponse{
		Video:    video,
		Counts:   counts,
		Reaction: reaction,
	})
}

// UpdateVideo handles PATCH /videos/{videoID}. Owner only.
func (h *Handler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	video, ok := h.requireOwnedVideo(w, r)
	if !ok {
		return
	}

	var req UpdateVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	update := database.VideoUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	}
	if err := h.videos.UpdateVideo(r.Context(), video.ID, update); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := h.videos.GetVideo(r.Context(), video.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(updated)
}

// DeleteVideo handles DELETE /videos/{videoID}. Owner only. The
// relational delete commits first; the engagement purge and object
// deletion run after and never roll it back. A purge failure is
// reported so the client can retry, with the row already gone.
func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	video, ok := h.requireOwnedVideo(w, r)
	if !ok {
		return
	}

	if err := h.videos.DeleteVideo(r.Context(), video.ID); err != nil {
		respondError(w, r, err)
		return
	}

	for _, objectURL := range []string{video.FileURL, video.PreviewURL} {
		if objectURL == "" {
			continue
		}
		if err := h.objects.Delete(r.Context(), objectURL); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).
				Str("object_url", objectURL).
				Msg("Failed to delete stored object for removed video")
		}
	}

	if err := h.engagement.OnVideoDeleted(r.Context(), video.ID.String()); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("video_id", video.ID.String()).
			Msg("Engagement purge failed after video delete")
		respondError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("video_id", video.ID.String()).
		Msg("Video deleted")
	NewResponseWriter(w, r).NoContent()
}

// UploadPreview handles POST /videos/{videoID}/preview: a multipart
// image upload replacing the video's preview. Owner only.
func (h *Handler) UploadPreview(w http.ResponseWriter, r *http.Request) {
	video, ok := h.requireOwnedVideo(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Storage.MaxImageSize+maxJSONBodyBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		NewResponseWriter(w, r).BadRequest("Missing or unreadable file field")
		return
	}
	defer file.Close()

	previewURL, err := h.objects.UploadImage(r.Context(),
		header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.videos.SetPreviewURL(r.Context(), video.ID, previewURL); err != nil {
		respondError(w, r, err)
		return
	}

	if video.PreviewURL != "" {
		if delErr := h.objects.Delete(r.Context(), video.PreviewURL); delErr != nil {
			logging.Ctx(r.Context()).Warn().Err(delErr).
				Str("object_url", video.PreviewURL).
				Msg("Failed to delete replaced preview")
		}
	}

	NewResponseWriter(w, r).Success(map[string]string{"preview_url": previewURL})
}

// requireOwnedVideo resolves the videoID path parameter and checks the
// caller owns it. Non-owners get 403; unknown IDs get 404.
func (h *Handler) requireOwnedVideo(w http.ResponseWriter, r *http.Request) (*models.Video, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		NewResponseWriter(w, r).Unauthorized("Authentication required")
		return nil, false
	}

	id, ok := pathUUID(r, "videoID")
	if !ok {
		NewResponseWriter(w, r).NotFound("Video not found")
		return nil, false
	}

	video, err := h.videos.GetVideo(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return nil, false
	}
	if video.OwnerID != userID {
		NewResponseWriter(w, r).Forbidden("Only the owner may modify this video")
		return nil, false
	}
	return video, true
}
