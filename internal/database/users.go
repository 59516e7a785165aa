// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/clipframe/internal/models"
)

// CreateUser inserts a new user. Returns ErrConflict when the username
// or email is already taken.
func (db *DB) CreateUser(ctx context.Context, user *models.User) (err error) {
	start := time.Now()
	defer func() { record("insert", "users", start, err) }()

	_, err = db.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: username or email already in use", ErrConflict)
	}
	return err
}

// GetUserByID fetches a user by primary key.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (user *models.User, err error) {
	start := time.Now()
	defer func() { record("select", "users", start, err) }()

	user = &models.User{}
	err = db.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, mapRowError(err)
	}
	return user, nil
}

// GetUserByEmail fetches a user by email, for login.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (user *models.User, err error) {
	start := time.Now()
	defer func() { record("select", "users", start, err) }()

	user = &models.User{}
	err = db.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users WHERE email = $1`, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, mapRowError(err)
	}
	return user, nil
}

// UpdateUsername changes a user's username. Returns ErrConflict when
// the name is taken.
func (db *DB) UpdateUsername(ctx context.Context, id uuid.UUID, username string) (err error) {
	start := time.Now()
	defer func() { record("update", "users", start, err) }()

	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET username = $2, updated_at = now() WHERE id = $1`,
		id, username)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: username already in use", ErrConflict)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mapRowError(pgx.ErrNoRows)
	}
	return nil
}

// DeleteUser removes a user; relational cascades drop their videos and
// comments. The caller runs the engagement purge after this commits.
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) (err error) {
	start := time.Now()
	defer func() { record("delete", "users", start, err) }()

	tag, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mapRowError(pgx.ErrNoRows)
	}
	return nil
}
