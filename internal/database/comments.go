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

	"github.com/tomtom215/clipframe/internal/models"
)

// CreateComment inserts a comment. The foreign keys reject comments on
// missing videos or from missing users.
func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) (err error) {
	start := time.Now()
	defer func() { record("insert", "comments", start, err) }()

	_, err = db.pool.Exec(ctx,
		`INSERT INTO comments (id, video_id, author_id, text, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.VideoID, comment.AuthorID, comment.Text, comment.CreatedAt)
	return err
}

// GetComment fetches a comment by primary key.
func (db *DB) GetComment(ctx context.Context, id uuid.UUID) (comment *models.Comment, err error) {
	start := time.Now()
	defer func() { record("select", "comments", start, err) }()

	comment = &models.Comment{}
	err = db.pool.QueryRow(ctx,
		`SELECT id, video_id, author_id, text, created_at
		 FROM comments WHERE id = $1`, id).
		Scan(&comment.ID, &comment.VideoID, &comment.AuthorID,
			&comment.Text, &comment.CreatedAt)
	if err != nil {
		return nil, mapRowError(err)
	}
	return comment, nil
}

// ListComments returns a video's comments, oldest first.
func (db *DB) ListComments(ctx context.Context, videoID uuid.UUID, limit, offset int) (comments []*models.Comment, err error) {
	start := time.Now()
	defer func() { record("select", "comments", start, err) }()

	rows, err := db.pool.Query(ctx,
		`SELECT id, video_id, author_id, text, created_at
		 FROM comments
		 WHERE video_id = $1
		 ORDER BY created_at
		 LIMIT $2 OFFSET $3`, videoID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments = []*models.Comment{}
	for rows.Next() {
		c := &models.Comment{}
		if err = rows.Scan(&c.ID, &c.VideoID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment. The caller runs the engagement
// comment purge after this commits.
func (db *DB) DeleteComment(ctx context.Context, id uuid.UUID) (err error) {
	start := time.Now()
	defer func() { record("delete", "comments", start, err) }()

	tag, err := db.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mapRowError(pgx.ErrNoRows)
	}
	return nil
}
