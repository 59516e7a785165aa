// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/clipframe/internal/auth"
	"github.com/tomtom215/clipframe/internal/config"
	"github.com/tomtom215/clipframe/internal/database"
	"github.com/tomtom215/clipframe/internal/engagement"
	"github.com/tomtom215/clipframe/internal/models"
)

// UserStore is the slice of the relational layer the user handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// VideoStore is the slice of the relational layer the video handlers need.
type VideoStore interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideo(ctx context.Context, id uuid.UUID) (*models.Video, error)
	ListPublicVideos(ctx context.Context, limit, offset int) ([]*models.Video, error)
	ListVideosByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Video, error)
	GetVideosByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Video, error)
	UpdateVideo(ctx context.Context, id uuid.UUID, update database.VideoUpdate) error
	SetPreviewURL(ctx context.Context, id uuid.UUID, previewURL string) error
	DeleteVideo(ctx context.Context, id uuid.UUID) error
}

// CommentStore is the slice of the relational layer the comment handlers need.
type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListComments(ctx context.Context, videoID uuid.UUID, limit, offset int) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

// ObjectStorage is the slice of the storage layer the upload handlers need.
type ObjectStorage interface {
	UploadVideo(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
	UploadImage(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, objectURL string) error
}

// Pinger reports backend liveness for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	users      UserStore
	videos     VideoStore
	comments   CommentStore
	objects    ObjectStorage
	engagement *engagement.Service
	jwt        *auth.JWTManager
	db         Pinger
	cfg        *config.Config
}

// NewHandler wires the handler dependencies.
func NewHandler(
	users UserStore,
	videos VideoStore,
	comments CommentStore,
	objects ObjectStorage,
	engagementSvc *engagement.Service,
	jwt *auth.JWTManager,
	db Pinger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		users:      users,
		videos:     videos,
		comments:   comments,
		objects:    objects,
		engagement: engagementSvc,
		jwt:        jwt,
		db:         db,
		cfg:        cfg,
	}
}

// pathUUID parses the named Chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

// pagination applies the configured page size limits to the request.
func (h *Handler) pagination(r *http.Request) (Pagination, error) {
	return parsePagination(r, h.cfg.API.DefaultPageSize, h.cfg.API.MaxPageSize)
}
