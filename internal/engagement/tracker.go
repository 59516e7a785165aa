// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package engagement

import (
	"context"
	"fmt"
)

// Reaction is a user's position on a video.
type Reaction string

const (
	ReactionNone    Reaction = "none"
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// Counts holds the three per-video engagement cardinalities. The three
// reads behind it are independent, so under concurrent writes the
// values may reflect slightly different instants.
type Counts struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// Tracker runs the engagement state machine over a KeySetStore.
//
// Toggles are idempotent at the membership level: liking an already
// liked video removes the like, liking twice concurrently still yields
// at most one set membership. Every transition that could otherwise
// leave a user with both reactions clears the opposite side before
// recording the new one. The two steps are not atomic; if the second
// fails the user is left with no reaction, which the next toggle
// repairs.
type Tracker struct {
	store KeySetStore
}

// NewTracker creates a Tracker over the given store.
func NewTracker(store KeySetStore) *Tracker {
	return &Tracker{store: store}
}

// ToggleLike flips the user's like on the video and returns the
// resulting reaction. Setting a like first clears any dislike.
func (t *Tracker) ToggleLike(ctx context.Context, videoID, userID string) (Reaction, error) {
	liked, err := t.store.Contains(ctx, videoLikesKey(videoID), userID)
	if err != nil {
		return ReactionNone, err
	}

	if liked {
		if err := t.store.Remove(ctx, videoLikesKey(videoID), userID); err != nil {
			return ReactionNone, err
		}
		if err := t.store.Remove(ctx, userLikesKey(userID), videoID); err != nil {
			return ReactionNone, err
		}
		return ReactionNone, nil
	}

	// Clear before set: an interruption here leaves no reaction at
	// all, never both.
	if err := t.store.Remove(ctx, videoDislikesKey(videoID), userID); err != nil {
		return ReactionNone, err
	}
	if err := t.store.Add(ctx, videoLikesKey(videoID), userID); err != nil {
		return ReactionNone, err
	}
	if err := t.store.Add(ctx, userLikesKey(userID), videoID); err != nil {
		return ReactionLike, fmt.Errorf("like index update: %w", err)
	}
	return ReactionLike, nil
}

// ToggleDislike flips the user's dislike on the video and returns the
// resulting reaction. Setting a dislike first clears any like on both
// sides of its index.
func (t *Tracker) ToggleDislike(ctx context.Context, videoID, userID string) (Reaction, error) {
	disliked, err := t.store.Contains(ctx, videoDislikesKey(videoID), userID)
	if err != nil {
		return ReactionNone, err
	}

	if disliked {
		if err := t.store.Remove(ctx, videoDislikesKey(videoID), userID); err != nil {
			return ReactionNone, err
		}
		return ReactionNone, nil
	}

	if err := t.store.Remove(ctx, videoLikesKey(videoID), userID); err != nil {
		return ReactionNone, err
	}
	if err := t.store.Remove(ctx, userLikesKey(userID), videoID); err != nil {
		return ReactionNone, err
	}
	if err := t.store.Add(ctx, videoDislikesKey(videoID), userID); err != nil {
		return ReactionNone, err
	}
	return ReactionDislike, nil
}

// ClearReaction removes any like or dislike the user holds on the
// video. Safe to call when no reaction exists.
func (t *Tracker) ClearReaction(ctx context.Context, videoID, userID string) error {
	if err := t.store.Remove(ctx, videoLikesKey(videoID), userID); err != nil {
		return err
	}
	if err := t.store.Remove(ctx, userLikesKey(userID), videoID); err != nil {
		return err
	}
	return t.store.Remove(ctx, videoDislikesKey(videoID), userID)
}

// ReactionOf reports the user's current reaction on the video. If a
// concurrent interleaving left memberships on both sides, the lost
// update resolves toward no reaction: the pair is reported as liked
// only, matching what the next toggle will repair.
func (t *Tracker) ReactionOf(ctx context.Context, videoID, userID string) (Reaction, error) {
	liked, err := t.store.Contains(ctx, videoLikesKey(videoID), userID)
	if err != nil {
		return ReactionNone, err
	}
	if liked {
		return ReactionLike, nil
	}

	disliked, err := t.store.Contains(ctx, videoDislikesKey(videoID), userID)
	if err != nil {
		return ReactionNone, err
	}
	if disliked {
		return ReactionDislike, nil
	}
	return ReactionNone, nil
}

// RecordView marks the video as viewed by the user, on both the video
// side and the user-history side. Repeat views are no-ops; view counts
// are unique viewers, not impressions.
func (t *Tracker) RecordView(ctx context.Context, videoID, userID string) error {
	if err := t.store.Add(ctx, videoViewsKey(videoID), userID); err != nil {
		return err
	}
	if err := t.store.Add(ctx, userViewsKey(userID), videoID); err != nil {
		return fmt.Errorf("view index update: %w", err)
	}
	return nil
}

// RemoveView erases the user's view of the video from both sides.
func (t *Tracker) RemoveView(ctx context.Context, videoID, userID string) error {
	if err := t.store.Remove(ctx, videoViewsKey(videoID), userID); err != nil {
		return err
	}
	return t.store.Remove(ctx, userViewsKey(userID), videoID)
}

// Counts returns the video's view, like, and dislike cardinalities.
func (t *Tracker) Counts(ctx context.Context, videoID string) (Counts, error) {
	views, err := t.store.Cardinality(ctx, videoViewsKey(videoID))
	if err != nil {
		return Counts{}, err
	}
	likes, err := t.store.Cardinality(ctx, videoLikesKey(videoID))
	if err != nil {
		return Counts{}, err
	}
	dislikes, err := t.store.Cardinality(ctx, videoDislikesKey(videoID))
	if err != nil {
		return Counts{}, err
	}
	return Counts{Views: views, Likes: likes, Dislikes: dislikes}, nil
}

// LikedVideos returns the IDs of videos the user currently likes.
func (t *Tracker) LikedVideos(ctx context.Context, userID string) ([]string, error) {
	return t.store.Members(ctx, userLikesKey(userID))
}

// ViewedVideos returns the IDs of videos the user has viewed.
func (t *Tracker) ViewedVideos(ctx context.Context, userID string) ([]string, error) {
	return t.store.Members(ctx, userViewsKey(userID))
}

// PurgeVideo scrubs every trace of a deleted video. The video-side
// sets enumerate exactly the users whose inverse indexes reference the
// video, so the scrub never scans the keyspace.
func (t *Tracker) PurgeVideo(ctx context.Context, videoID string) error {
	viewers, err := t.store.Members(ctx, videoViewsKey(videoID))
	if err != nil {
		return err
	}
	for _, userID := range viewers {
		if err := t.store.Remove(ctx, userViewsKey(userID), videoID); err != nil {
			return fmt.Errorf("purge video %s views: %w", videoID, err)
		}
	}

	likers, err := t.store.Members(ctx, videoLikesKey(videoID))
	if err != nil {
		return err
	}
	for _, userID := range likers {
		if err := t.store.Remove(ctx, userLikesKey(userID), videoID); err != nil {
			return fmt.Errorf("purge video %s likes: %w", videoID, err)
		}
	}

	for _, key := range []string{
		videoViewsKey(videoID),
		videoLikesKey(videoID),
		videoDislikesKey(videoID),
	} {
		if err := t.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("purge video %s: %w", videoID, err)
		}
	}
	return nil
}

// PurgeUser scrubs a deleted user's engagement. The user's inverse
// indexes drive removal from each video-side view and like set.
// Dislikes have no inverse index, so any dislike memberships remain
// until their videos are purged; they are unreachable through any read
// path keyed by the user.
func (t *Tracker) PurgeUser(ctx context.Context, userID string) error {
	viewed, err := t.store.Members(ctx, userViewsKey(userID))
	if err != nil {
		return err
	}
	for _, videoID := range viewed {
		if err := t.store.Remove(ctx, videoViewsKey(videoID), userID); err != nil {
			return fmt.Errorf("purge user %s views: %w", userID, err)
		}
	}

	liked, err := t.store.Members(ctx, userLikesKey(userID))
	if err != nil {
		return err
	}
	for _, videoID := range liked {
		if err := t.store.Remove(ctx, videoLikesKey(videoID), userID); err != nil {
			return fmt.Errorf("purge user %s likes: %w", userID, err)
		}
	}

	for _, key := range []string{userViewsKey(userID), userLikesKey(userID)} {
		if err := t.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("purge user %s: %w", userID, err)
		}
	}
	return nil
}

// PurgeComment drops the reserved reaction sets of a deleted comment.
func (t *Tracker) PurgeComment(ctx context.Context, commentID string) error {
	if err := t.store.Delete(ctx, commentLikesKey(commentID)); err != nil {
		return fmt.Errorf("purge comment %s: %w", commentID, err)
	}
	if err := t.store.Delete(ctx, commentDislikesKey(commentID)); err != nil {
		return fmt.Errorf("purge comment %s: %w", commentID, err)
	}
	return nil
}
