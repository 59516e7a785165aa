// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package engagement

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// badgerPrefix namespaces engagement entries so the store can share a
// Badger instance with other subsystems.
const badgerPrefix = "eng\x00"

// BadgerStore is a KeySetStore over an embedded Badger database for
// single-node deployments. A set member is one Badger entry under the
// key "eng\x00{key}\x00{member}"; NUL separators cannot appear in keys
// or members, so entries never alias across sets.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps an open Badger database. The caller owns the
// database lifecycle.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func badgerEntryKey(key, member string) []byte {
	return []byte(badgerPrefix + key + "\x00" + member)
}

func badgerSetPrefix(key string) []byte {
	return []byte(badgerPrefix + key + "\x00")
}

// Add implements KeySetStore.
func (b *BadgerStore) Add(ctx context.Context, key, member string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerEntryKey(key, member), nil)
	})
	if err != nil {
		return fmt.Errorf("%w: badger set %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

// Remove implements KeySetStore.
func (b *BadgerStore) Remove(ctx context.Context, key, member string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerEntryKey(key, member))
	})
	if err != nil {
		return fmt.Errorf("%w: badger delete %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

// Contains implements KeySetStore.
func (b *BadgerStore) Contains(ctx context.Context, key, member string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var found bool
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(badgerEntryKey(key, member))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: badger get %s: %v", ErrStoreUnavailable, key, err)
	}
	return found, nil
}

// Cardinality implements KeySetStore.
func (b *BadgerStore) Cardinality(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int64
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = badgerSetPrefix(key)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: badger scan %s: %v", ErrStoreUnavailable, key, err)
	}
	return count, nil
}

// Members implements KeySetStore.
func (b *BadgerStore) Members(ctx context.Context, key string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := badgerSetPrefix(key)
	members := []string{}
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			entryKey := it.Item().Key()
			members = append(members, string(entryKey[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: badger scan %s: %v", ErrStoreUnavailable, key, err)
	}
	return members, nil
}

// Delete implements KeySetStore. Entries are collected under a read
// transaction first; Badger limits the size of a single write
// transaction, so deletes are batched.
func (b *BadgerStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	members, err := b.Members(ctx, key)
	if err != nil {
		return err
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()

	for _, member := range members {
		if err := wb.Delete(badgerEntryKey(key, member)); err != nil {
			return fmt.Errorf("%w: badger batch delete %s: %v", ErrStoreUnavailable, key, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("%w: badger flush %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}
