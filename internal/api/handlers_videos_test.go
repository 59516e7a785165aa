// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/clipframe/internal/models"
)

func TestUploadAndListVideos(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice", "alice@example.com")

	env.uploadVideo(t, token, "first clip", false)
	env.uploadVideo(t, token, "secret clip", true)

	rec := env.do(t, http.MethodGet, "/api/v1/videos", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d: %s", rec.Code, rec.Body.String())
	}
	var videos []*models.Video
	decodeData(t, rec, &videos)
	if len(videos) != 1 {
		t.Fatalf("public list has %d videos, want 1 (private excluded)", len(videos))
	}
	if videos[0].Name != "first clip" {
		t.Errorf("name = %q", videos[0].Name)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/videos/my", token, nil)
	decodeData(t, rec, &videos)
	if len(videos) != 2 {
		t.Fatalf("owner list has %d videos, want 2", len(videos))
	}
}

func TestGetVideoRecordsAttributedView(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register(t, "alice", "alice@example.com")
	viewer, _ := env.register(t, "bob", "bob@example.com")
	videoID := env.uploadVideo(t, owner, "clip", false)

	// Anonymous access is allowed but leaves no view.
	rec := env.do(t, http.MethodGet, "/api/v1/videos/"+videoID.String(), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous get: status %d: %s", rec.Code, rec.Body.String())
	}
	var resp videoResponse
	decodeData(t, rec, &resp)
	if resp.Counts.Views != 0 {
		t.Errorf("views after anonymous access = %d, want 0", resp.Counts.Views)
	}

	// An identified viewer gets a view recorded, once.
	for i := 0; i < 3; i++ {
		rec = env.do(t, http.MethodGet, "/api/v1/videos/"+videoID.String(), viewer, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("get %d: status %d", i, rec.Code)
		}
	}
	decodeData(t, rec, &resp)
	if resp.Counts.Views != 1 {
		t.Errorf("views = %d, want 1 (set semantics)", resp.Counts.Views)
	}

	// The view shows up in the viewer's history.
	rec = env.do(t, http.MethodGet, "/api/v1/videos/my/views", viewer, nil)
	var history []*models.Video
	decodeData(t, rec, &history)
	if len(history) != 1 || history[0].ID != videoID {
		t.Errorf("history = %+v, want the watched video", history)
	}
}

func TestGetVideoVisibility(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register(t, "alice", "alice@example.com")
	other, _ := env.register(t, "bob", "bob@example.com")
	videoID := env.uploadVideo(t, owner, "secret", true)
	path := "/api/v1/videos/" + videoID.String()

	t.Run("anonymous gets 403", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, path, other, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("owner gets 200", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, path, owner, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("garbage token gets 401 even on public videos", func(t *testing.T) {
		publicID := env.uploadVideo(t, owner, "open", false)
		rec := env.do(t, http.MethodGet, "/api/v1/videos/"+publicID.String(), "not-a-jwt", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestGetVideoNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/videos/9f4ef5c0-0c3a-4a6b-8f0e-1a2b3c4d5e6f", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/videos/not-a-uuid", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("malformed id: status = %d, want 404", rec.Code)
	}
}

func TestUpdateVideo(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register(t, "alice", "alice@example.com")
	other, _ := env.register(t, "bob", "bob@example.com")
	videoID := env.uploadVideo(t, owner, "clip", false)
	path := "/api/v1/videos/" + videoID.String()

	name := "renamed"
	private := true
	rec := env.do(t, http.MethodPatch, path, owner, UpdateVideoRequest{
		Name:      &name,
		IsPrivate: &private,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status %d: %s", rec.Code, rec.Body.String())
	}
	var updated models.Video
	decodeData(t, rec, &updated)
	if updated.Name != "renamed" || !updated.IsPrivate {
		t.Errorf("update not applied: %+v", updated)
	}

	rec = env.do(t, http.MethodPatch, path, other, UpdateVideoRequest{Name: &name})
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-owner patch: status = %d, want 403", rec.Code)
	}
}

func TestDeleteVideoPurgesEngagement(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register(t, "alice", "alice@example.com")
	viewer, viewerID := env.register(t, "bob", "bob@example.com")
	videoID := env.uploadVideo(t, owner, "clip", false)
	path := "/api/v1/videos/" + videoID.String()

	env.do(t, http.MethodGet, path, viewer, nil)
	env.do(t, http.MethodPost, path+"/like", viewer, nil)

	rec := env.do(t, http.MethodDelete, path, owner, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d: %s", rec.Code, rec.Body.String())
	}

	// The liker's inverse index no longer references the video.
	liked, err := env.svc.LikedVideos(t.Context(), viewerID.String())
	if err != nil {
		t.Fatalf("LikedVideos: %v", err)
	}
	if len(liked) != 0 {
		t.Errorf("liked after purge = %v, want empty", liked)
	}

	// The uploaded object was removed from storage.
	env.objects.mu.Lock()
	deleted := len(env.objects.deleted)
	env.objects.mu.Unlock()
	if deleted == 0 {
		t.Error("expected stored object deletion")
	}

	rec = env.do(t, http.MethodGet, path, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", rec.Code)
	}
}

func TestMyLikedVideosSkipsDeletedRows(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register(t, "alice", "alice@example.com")
	liker, likerID := env.register(t, "bob", "bob@example.com")
	keepID := env.uploadVideo(t, owner, "keep", false)
	dropID := env.uploadVideo(t, owner, "drop", false)

	for _, id := range []string{keepID.String(), dropID.String()} {
		rec := env.do(t, http.MethodPost, "/api/v1/videos/"+id+"/like", liker, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("like %s: status %d", id, rec.Code)
		}
	}

	// Simulate a row deleted out from under a stale inverse index.
	if err := env.store.DeleteVideo(t.Context(), dropID); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/videos/my/likes", liker, nil)
	var liked []*models.Video
	decodeData(t, rec, &liked)
	if len(liked) != 1 || liked[0].ID != keepID {
		t.Errorf("liked = %+v, want only the surviving video", liked)
	}

	// The stale membership is still in the index until purged.
	ids, err := env.svc.LikedVideos(t.Context(), likerID.String())
	if err != nil {
		t.Fatalf("LikedVideos: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("raw index has %d entries, want 2", len(ids))
	}
}

func TestPaginationValidation(t *testing.T) {
	env := newTestEnv(t)

	for _, query := range []string{"limit=0", "limit=-1", "limit=abc", "offset=-5"} {
		rec := env.do(t, http.MethodGet, "/api/v1/videos?"+query, "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", query, rec.Code)
		}
	}
}

func TestPaginationWindow(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice", "alice@example.com")
	for i := 0; i < 5; i++ {
		env.uploadVideo(t, token, fmt.Sprintf("clip %d", i), false)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/videos?limit=2&offset=4", "", nil)
	var videos []*models.Video
	decodeData(t, rec, &videos)
	if len(videos) != 1 {
		t.Errorf("got %d videos, want 1 (5 total, offset 4)", len(videos))
	}
}
