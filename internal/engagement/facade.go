// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package engagement

import (
	"context"
	"fmt"

	"github.com/tomtom215/clipframe/internal/logging"
	"github.com/tomtom215/clipframe/internal/metrics"
)

// VideoDirectory is the slice of the relational layer the facade needs:
// resolving a video to its visibility and owner. A missing video yields
// ErrNotFound.
type VideoDirectory interface {
	VideoVisibility(ctx context.Context, videoID string) (Visibility, string, error)
}

// Service is the engagement facade. It validates entity existence
// against the relational directory, applies access control through the
// gate, and delegates state changes to the tracker.
//
// Existence checks happen before any store write: a request against a
// missing video returns ErrNotFound with zero engagement mutation.
type Service struct {
	tracker *Tracker
	gate    *AccessGate
	videos  VideoDirectory
}

// NewService wires the facade.
func NewService(tracker *Tracker, gate *AccessGate, videos VideoDirectory) *Service {
	return &Service{tracker: tracker, gate: gate, videos: videos}
}

// ViewVideo authorizes an access to the video and, when the caller is
// an identified user, records the view. Anonymous access to public
// videos is permitted but leaves no trace. credential is the raw
// bearer token, empty for anonymous callers.
func (s *Service) ViewVideo(ctx context.Context, videoID, credential string) (AccessDecision, error) {
	visibility, ownerID, err := s.videos.VideoVisibility(ctx, videoID)
	if err != nil {
		return AccessDecision{}, err
	}

	decision, err := s.gate.Authorize(ctx, visibility, ownerID, credential)
	if err != nil {
		return AccessDecision{}, err
	}

	if decision.Attributed {
		if err := s.tracker.RecordView(ctx, videoID, decision.ViewerID); err != nil {
			metrics.RecordEngagementOperation("view", "error")
			return AccessDecision{}, err
		}
		metrics.RecordEngagementOperation("view", "ok")
	}
	return decision, nil
}

// ReactToVideo toggles the user's reaction on the video and returns the
// resulting state. userID is an already-authenticated identity; the
// HTTP layer enforces authentication before this is reachable. Private
// videos accept reactions only from their owner.
func (s *Service) ReactToVideo(ctx context.Context, videoID, userID string, reaction Reaction) (Reaction, error) {
	visibility, ownerID, err := s.videos.VideoVisibility(ctx, videoID)
	if err != nil {
		return ReactionNone, err
	}
	if visibility == VisibilityPrivate && userID != ownerID {
		return ReactionNone, ErrForbidden
	}

	var result Reaction
	switch reaction {
	case ReactionLike:
		result, err = s.tracker.ToggleLike(ctx, videoID, userID)
	case ReactionDislike:
		result, err = s.tracker.ToggleDislike(ctx, videoID, userID)
	case ReactionNone:
		err = s.tracker.ClearReaction(ctx, videoID, userID)
	default:
		return ReactionNone, fmt.Errorf("unknown reaction %q", reaction)
	}
	if err != nil {
		metrics.RecordEngagementOperation(string(reaction), "error")
		return ReactionNone, err
	}
	metrics.RecordEngagementOperation(string(reaction), "ok")
	return result, nil
}

// Counts returns the video's engagement counts, plus the caller's own
// reaction when userID is non-empty. The video must exist; counts for
// a deleted video are not reconstructable from zeros.
func (s *Service) Counts(ctx context.Context, videoID, userID string) (Counts, Reaction, error) {
	if _, _, err := s.videos.VideoVisibility(ctx, videoID); err != nil {
		return Counts{}, ReactionNone, err
	}

	counts, err := s.tracker.Counts(ctx, videoID)
	if err != nil {
		return Counts{}, ReactionNone, err
	}

	reaction := ReactionNone
	if userID != "" {
		reaction, err = s.tracker.ReactionOf(ctx, videoID, userID)
		if err != nil {
			return Counts{}, ReactionNone, err
		}
	}
	return counts, reaction, nil
}

// LikedVideos lists the IDs of videos the user likes.
func (s *Service) LikedVideos(ctx context.Context, userID string) ([]string, error) {
	return s.tracker.LikedVideos(ctx, userID)
}

// ViewedVideos lists the IDs of videos the user has viewed.
func (s *Service) ViewedVideos(ctx context.Context, userID string) ([]string, error) {
	return s.tracker.ViewedVideos(ctx, userID)
}

// OnVideoDeleted scrubs the video's engagement state. It runs after
// the relational delete has committed; a purge failure is surfaced for
// retry but never undoes the delete.
func (s *Service) OnVideoDeleted(ctx context.Context, videoID string) error {
	if err := s.tracker.PurgeVideo(ctx, videoID); err != nil {
		metrics.RecordEngagementOperation("purge_video", "error")
		return err
	}
	metrics.RecordEngagementOperation("purge_video", "ok")
	logging.Debug().Str("video_id", videoID).Msg("Engagement state purged for deleted video")
	return nil
}

// OnUserDeleted scrubs the user's engagement state. Runs post-commit,
// like OnVideoDeleted.
func (s *Service) OnUserDeleted(ctx context.Context, userID string) error {
	if err := s.tracker.PurgeUser(ctx, userID); err != nil {
		metrics.RecordEngagementOperation("purge_user", "error")
		return err
	}
	metrics.RecordEngagementOperation("purge_user", "ok")
	logging.Debug().Str("user_id", userID).Msg("Engagement state purged for deleted user")
	return nil
}

// OnCommentDeleted drops the deleted comment's reaction sets.
func (s *Service) OnCommentDeleted(ctx context.Context, commentID string) error {
	if err := s.tracker.PurgeComment(ctx, commentID); err != nil {
		metrics.RecordEngagementOperation("purge_comment", "error")
		return err
	}
	metrics.RecordEngagementOperation("purge_comment", "ok")
	return nil
}
