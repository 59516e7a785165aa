// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package engagement

import (
	"context"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"
)

// StoreType selects the key-set store backend.
type StoreType string

const (
	// StoreMemory keeps engagement state in process memory. Not
	// persistent; intended for tests and development.
	StoreMemory StoreType = "memory"

	// StoreBadger persists engagement state in an embedded BadgerDB.
	// Suitable for single-instance deployments.
	StoreBadger StoreType = "badger"

	// StoreRedis keeps engagement state in Redis sets. Required when
	// multiple server instances share state.
	StoreRedis StoreType = "redis"
)

// StoreOptions carries backend connection settings.
type StoreOptions struct {
	Type StoreType

	// RedisAddr, RedisPassword, RedisDB apply when Type is StoreRedis.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// BadgerPath applies when Type is StoreBadger.
	BadgerPath string
}

// StoreFactory opens and owns the backend resources behind a
// KeySetStore. Close releases whatever was opened.
type StoreFactory struct {
	db     *badger.DB
	client *redis.Client
}

// NewStoreFactory opens the configured backend. For Redis it verifies
// connectivity with a ping so misconfiguration fails at startup rather
// than on the first toggle.
func NewStoreFactory(ctx context.Context, opts StoreOptions) (*StoreFactory, error) {
	factory := &StoreFactory{}

	switch opts.Type {
	case StoreBadger:
		badgerOpts := badger.DefaultOptions(opts.BadgerPath)
		badgerOpts.Logger = nil // Suppress BadgerDB logs

		db, err := badger.Open(badgerOpts)
		if err != nil {
			return nil, fmt.Errorf("open badger db for engagement: %w", err)
		}
		factory.db = db

	case StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis for engagement: %w", err)
		}
		factory.client = client

	case StoreMemory, "":
		// Nothing to open.

	default:
		return nil, fmt.Errorf("unknown engagement store type %q", opts.Type)
	}

	return factory, nil
}

// CreateStore returns a KeySetStore over the opened backend.
func (f *StoreFactory) CreateStore() KeySetStore {
	switch {
	case f.client != nil:
		return NewRedisStore(f.client)
	case f.db != nil:
		return NewBadgerStore(f.db)
	default:
		return NewMemoryStore()
	}
}

// Close releases the backend resources, if any were opened.
func (f *StoreFactory) Close() error {
	if f.client != nil {
		if err := f.client.Close(); err != nil {
			return err
		}
	}
	if f.db != nil {
		return f.db.Close()
	}
	return nil
}
