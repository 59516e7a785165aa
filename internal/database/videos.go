// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/clipframe/internal/engagement"
	"github.com/tomtom215/clipframe/internal/models"
)

const videoColumns = `id, owner_id, name, description, file_url, preview_url, is_private, created_at, updated_at`

func scanVideo(row pgx.Row) (*models.Video, error) {
	v := &models.Video{}
	err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Description, &v.FileURL,
		&v.PreviewURL, &v.IsPrivate, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, mapRowError(err)
	}
	return v, nil
}

func collectVideos(rows pgx.Rows) ([]*models.Video, error) {
	defer rows.Close()

	videos := []*models.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// CreateVideo inserts a new video row.
func (db *DB) CreateVideo(ctx context.Context, video *models.Video) (err error) {
	start := time.Now()
	defer func() { record("insert", "videos", start, err) }()

	_, err = db.pool.Exec(ctx,
		`INSERT INTO videos (id, owner_id, name, description, file_url, preview_url, is_private, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		video.ID, video.OwnerID, video.Name, video.Description, video.FileURL,
		video.PreviewURL, video.IsPrivate, video.CreatedAt)
	return err
}

// GetVideo fetches a video by primary key.
func (db *DB) GetVideo(ctx context.Context, id uuid.UUID) (video *models.Video, err error) {
	start := time.Now()
	defer func() { record("select", "videos", start, err) }()

	video, err = scanVideo(db.pool.QueryRow(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
	return video, err
}

// ListPublicVideos returns public videos, newest first.
func (db *DB) ListPublicVideos(ctx context.Context, limit, offset int) (videos []*models.Video, err error) {
	start := time.Now()
	defer func() { record("select", "videos", start, err) }()

	rows, err := db.pool.Query(ctx,
		`SELECT `+videoColumns+` FROM videos
		 WHERE NOT is_private
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectVideos(rows)
}

// ListVideosByOwner returns all of an owner's videos, newest first,
// private included.
func (db *DB) ListVideosByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) (videos []*models.Video, err error) {
	start := time.Now()
	defer func() { record("select", "videos", start, err) }()

	rows, err := db.pool.Query(ctx,
		`SELECT `+videoColumns+` FROM videos
		 WHERE owner_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectVideos(rows)
}

// GetVideosByIDs fetches the given videos, skipping IDs that no longer
// exist. Used to hydrate engagement inverse-index listings, which may
// briefly reference videos deleted since the listing was read.
func (db *DB) GetVideosByIDs(ctx context.Context, ids []uuid.UUID) (videos []*models.Video, err error) {
	start := time.Now()
	defer func() { record("select", "videos", start, err) }()

	if len(ids) == 0 {
		return []*models.Video{}, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+videoColumns+` FROM videos
		 WHERE id = ANY($1)
		 ORDER BY created_at DESC`, ids)
	if err != nil {
		return nil, err
	}
	return collectVideos(rows)
}

// VideoUpdate carries the updatable video fields. Nil means unchanged.
type VideoUpdate struct {
	Name        *string
	Description *string
	IsPrivate   *bool
}

// UpdateVideo applies a partial update.
func (db *DB) UpdateVideo(ctx context.Context, id uuid.UUID, update VideoUpdate) (err error) {
	start := time.Now()
	defer func() { record("update", "videos", start, err) }()

	tag, err := db.pool.Exec(ctx,
		`UPDATE videos SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			is_private  = COALESCE($4, is_private),
			updated_at  = now()
		 WHERE id = $1`,
		id, update.Name, update.Description, update.IsPrivate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mapRowError(pgx.ErrNoRows)
	}
	return nil
}

// SetPreviewURL records the preview image location after upload.
func (db *DB) SetPreviewURL(ctx context.Context, id uuid.UUID, previewURL string) (err error) {
	start := time.Now()
	defer func() { record("update", "videos", start, err) }()

	tag, err := db.pool.Exec(ctx,
		`UPDATE videos SET preview_url = $2, updated_at = now() WHERE id = $1`,
		id, previewURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mapRowError(pgx.ErrNoRows)
	}
	return nil
}

// DeleteVideo removes a video; comments cascade. The caller runs the
// engagement purge after this commits.
func (db *DB) DeleteVideo(ctx context.Context, id uuid.UUID) (err error) {
	start := time.Now()
	defer func() { record("delete", "videos", start, err) }()

	tag, err := db.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mapRowError(pgx.ErrNoRows)
	}
	return nil
}

// VideoVisibility resolves a video to its visibility and owner,
// implementing the engagement facade's directory dependency.
func (db *DB) VideoVisibility(ctx context.Context, videoID string) (engagement.Visibility, string, error) {
	id, err := uuid.Parse(videoID)
	if err != nil {
		return "", "", engagement.ErrNotFound
	}

	start := time.Now()
	defer func() { record("select", "videos", start, err) }()

	var ownerID uuid.UUID
	var isPrivate bool
	err = db.pool.QueryRow(ctx,
		`SELECT owner_id, is_private FROM videos WHERE id = $1`, id).
		Scan(&ownerID, &isPrivate)
	if err != nil {
		return "", "", mapRowError(err)
	}

	visibility := engagement.VisibilityPublic
	if isPrivate {
		visibility = engagement.VisibilityPrivate
	}
	return visibility, ownerID.String(), nil
}

// VideoExists reports whether the video row exists.
func (db *DB) VideoExists(ctx context.Context, id uuid.UUID) (exists bool, err error) {
	start := time.Now()
	defer func() { record("select", "videos", start, err) }()

	err = db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
