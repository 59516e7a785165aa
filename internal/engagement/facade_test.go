// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package engagement

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeDirectory is an in-memory VideoDirectory.
type fakeDirectory struct {
	mu     sync.Mutex
	videos map[string]struct {
		visibility Visibility
		ownerID    string
	}
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{videos: make(map[string]struct {
		visibility Visibility
		ownerID    string
	})}
}

func (f *fakeDirectory) add(videoID string, visibility Visibility, ownerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos[videoID] = struct {
		visibility Visibility
		ownerID    string
	}{visibility, ownerID}
}

func (f *fakeDirectory) VideoVisibility(_ context.Context, videoID string) (Visibility, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[videoID]
	if !ok {
		return "", "", ErrNotFound
	}
	return v.visibility, v.ownerID, nil
}

// countingStore records writes so tests can assert zero mutation.
type countingStore struct {
	KeySetStore
	mu     sync.Mutex
	writes int
}

func (c *countingStore) Add(ctx context.Context, key, member string) error {
	c.mu.Lock()
	c.writes++
	c.mu.Unlock()
	return c.KeySetStore.Add(ctx, key, member)
}

func (c *countingStore) Remove(ctx context.Context, key, member string) error {
	c.mu.Lock()
	c.writes++
	c.mu.Unlock()
	return c.KeySetStore.Remove(ctx, key, member)
}

func (c *countingStore) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	c.writes++
	c.mu.Unlock()
	return c.KeySetStore.Delete(ctx, key)
}

func (c *countingStore) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

func newTestService(store KeySetStore) (*Service, *fakeDirectory) {
	dir := newFakeDirectory()
	return NewService(NewTracker(store), NewAccessGate(staticVerifier{}), dir), dir
}

func TestViewVideoRecordsAttributedViews(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc, dir := newTestService(store)
	dir.add("v1", VisibilityPublic, "owner")

	decision, err := svc.ViewVideo(ctx, "v1", "token-u1")
	require.NoError(t, err)
	require.True(t, decision.Attributed)
	require.Equal(t, "u1", decision.ViewerID)

	counts, _, err := svc.Counts(ctx, "v1", "")
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.Views)
}

func TestViewVideoAnonymousLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc, dir := newTestService(store)
	dir.add("v1", VisibilityPublic, "owner")

	decision, err := svc.ViewVideo(ctx, "v1", "")
	require.NoError(t, err)
	require.False(t, decision.Attributed)

	counts, _, err := svc.Counts(ctx, "v1", "")
	require.NoError(t, err)
	require.Zero(t, counts.Views)
}

func TestViewVideoMissingVideoMutatesNothing(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{KeySetStore: NewMemoryStore()}
	svc, _ := newTestService(store)

	_, err := svc.ViewVideo(ctx, "ghost", "token-u1")
	require.ErrorIs(t, err, ErrNotFound)
	require.Zero(t, store.writeCount())
}

func TestViewVideoPrivateDeniedBeforeRecording(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{KeySetStore: NewMemoryStore()}
	svc, dir := newTestService(store)
	dir.add("v1", VisibilityPrivate, "owner")

	_, err := svc.ViewVideo(ctx, "v1", "token-intruder")
	require.ErrorIs(t, err, ErrForbidden)
	require.Zero(t, store.writeCount())

	decision, err := svc.ViewVideo(ctx, "v1", "token-owner")
	require.NoError(t, err)
	require.Equal(t, "owner", decision.ViewerID)
}

func TestReactToVideoToggles(t *testing.T) {
	ctx := context.Background()
	svc, dir := newTestService(NewMemoryStore())
	dir.add("v1", VisibilityPublic, "owner")

	r, err := svc.ReactToVideo(ctx, "v1", "u1", ReactionLike)
	require.NoError(t, err)
	require.Equal(t, ReactionLike, r)

	r, err = svc.ReactToVideo(ctx, "v1", "u1", ReactionDislike)
	require.NoError(t, err)
	require.Equal(t, ReactionDislike, r)

	counts, reaction, err := svc.Counts(ctx, "v1", "u1")
	require.NoError(t, err)
	require.Equal(t, Counts{Likes: 0, Dislikes: 1}, counts)
	require.Equal(t, ReactionDislike, reaction)
}

func TestReactToVideoMissingVideoMutatesNothing(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{KeySetStore: NewMemoryStore()}
	svc, _ := newTestService(store)

	_, err := svc.ReactToVideo(ctx, "ghost", "u1", ReactionLike)
	require.ErrorIs(t, err, ErrNotFound)
	require.Zero(t, store.writeCount())
}

func TestReactToVideoPrivateNonOwnerForbidden(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{KeySetStore: NewMemoryStore()}
	svc, dir := newTestService(store)
	dir.add("v1", VisibilityPrivate, "owner")

	_, err := svc.ReactToVideo(ctx, "v1", "intruder", ReactionLike)
	require.ErrorIs(t, err, ErrForbidden)
	require.Zero(t, store.writeCount())

	r, err := svc.ReactToVideo(ctx, "v1", "owner", ReactionLike)
	require.NoError(t, err)
	require.Equal(t, ReactionLike, r)
}

func TestCountsMissingVideoNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(NewMemoryStore())

	_, _, err := svc.Counts(ctx, "ghost", "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeletionHooks(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc, dir := newTestService(store)
	dir.add("v1", VisibilityPublic, "owner")

	_, err := svc.ReactToVideo(ctx, "v1", "u1", ReactionLike)
	require.NoError(t, err)
	_, err = svc.ViewVideo(ctx, "v1", "token-u1")
	require.NoError(t, err)

	require.NoError(t, svc.OnVideoDeleted(ctx, "v1"))

	liked, err := svc.LikedVideos(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, liked)
	viewed, err := svc.ViewedVideos(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, viewed)

	// User hook after fresh engagement on another video.
	dir.add("v2", VisibilityPublic, "owner")
	_, err = svc.ReactToVideo(ctx, "v2", "u1", ReactionLike)
	require.NoError(t, err)
	require.NoError(t, svc.OnUserDeleted(ctx, "u1"))

	counts, _, err := svc.Counts(ctx, "v2", "")
	require.NoError(t, err)
	require.Zero(t, counts.Likes)

	// Comment hook drops reserved keys.
	require.NoError(t, store.Add(ctx, commentLikesKey("c1"), "u2"))
	require.NoError(t, svc.OnCommentDeleted(ctx, "c1"))
	n, err := store.Cardinality(ctx, commentLikesKey("c1"))
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestLikedAndViewedVideos(t *testing.T) {
	ctx := context.Background()
	svc, dir := newTestService(NewMemoryStore())
	dir.add("v1", VisibilityPublic, "owner")
	dir.add("v2", VisibilityPublic, "owner")

	_, err := svc.ReactToVideo(ctx, "v1", "u1", ReactionLike)
	require.NoError(t, err)
	_, err = svc.ViewVideo(ctx, "v2", "token-u1")
	require.NoError(t, err)

	liked, err := svc.LikedVideos(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"v1"}, liked)

	viewed, err := svc.ViewedVideos(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"v2"}, viewed)
}
