// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/clipframe/internal/auth"
	"github.com/tomtom215/clipframe/internal/config"
	"github.com/tomtom215/clipframe/internal/database"
	"github.com/tomtom215/clipframe/internal/engagement"
	"github.com/tomtom215/clipframe/internal/models"
)

// fakeStore is an in-memory stand-in for the relational layer. It
// implements UserStore, VideoStore, CommentStore, Pinger, and the
// engagement VideoDirectory.
type fakeStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	videos   map[uuid.UUID]*models.Video
	comments map[uuid.UUID]*models.Comment
	pingErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[uuid.UUID]*models.User{},
		videos:   map[uuid.UUID]*models.Video{},
		comments: map[uuid.UUID]*models.Comment{},
	}
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return fmt.Errorf("%w: username or email already in use", database.ErrConflict)
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, engagement.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, engagement.ErrNotFound
}

func (s *fakeStore) UpdateUsername(_ context.Context, id uuid.UUID, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for otherID, other := range s.users {
		if otherID != id && other.Username == username {
			return fmt.Errorf("%w: username already in use", database.ErrConflict)
		}
	}
	user, ok := s.users[id]
	if !ok {
		return engagement.ErrNotFound
	}
	user.Username = username
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *fakeStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return engagement.ErrNotFound
	}
	delete(s.users, id)
	for videoID, video := range s.videos {
		if video.OwnerID == id {
			delete(s.videos, videoID)
		}
	}
	for commentID, comment := range s.comments {
		if comment.AuthorID == id {
			delete(s.comments, commentID)
		}
	}
	return nil
}

func (s *fakeStore) CreateVideo(_ context.Context, video *models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *video
	s.videos[video.ID] = &copied
	return nil
}

func (s *fakeStore) GetVideo(_ context.Context, id uuid.UUID) (*models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok {
		return nil, engagement.ErrNotFound
	}
	copied := *video
	return &copied, nil
}

func (s *fakeStore) ListPublicVideos(_ context.Context, limit, offset int) ([]*models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var videos []*models.Video
	for _, video := range s.videos {
		if !video.IsPrivate {
			copied := *video
			videos = append(videos, &copied)
		}
	}
	return window(videos, limit, offset), nil
}

func (s *fakeStore) ListVideosByOwner(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var videos []*models.Video
	for _, video := range s.videos {
		if video.OwnerID == ownerID {
			copied := *video
			videos = append(videos, &copied)
		}
	}
	return window(videos, limit, offset), nil
}

func (s *fakeStore) GetVideosByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	videos := []*models.Video{}
	for _, id := range ids {
		if video, ok := s.videos[id]; ok {
			copied := *video
			videos = append(videos, &copied)
		}
	}
	return videos, nil
}

func (s *fakeStore) UpdateVideo(_ context.Context, id uuid.UUID, update database.VideoUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok {
		return engagement.ErrNotFound
	}
	if update.Name != nil {
		video.Name = *update.Name
	}
	if update.Description != nil {
		video.Description = *update.Description
	}
	if update.IsPrivate != nil {
		video.IsPrivate = *update.IsPrivate
	}
	video.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *fakeStore) SetPreviewURL(_ context.Context, id uuid.UUID, previewURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok {
		return engagement.ErrNotFound
	}
	video.PreviewURL = previewURL
	return nil
}

func (s *fakeStore) DeleteVideo(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[id]; !ok {
		return engagement.ErrNotFound
	}
	delete(s.videos, id)
	for commentID, comment := range s.comments {
		if comment.VideoID == id {
			delete(s.comments, commentID)
		}
	}
	return nil
}

func (s *fakeStore) VideoVisibility(_ context.Context, videoID string) (engagement.Visibility, string, error) {
	id, err := uuid.Parse(videoID)
	if err != nil {
		return "", "", engagement.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok {
		return "", "", engagement.ErrNotFound
	}
	if video.IsPrivate {
		return engagement.VisibilityPrivate, video.OwnerID.String(), nil
	}
	return engagement.VisibilityPublic, video.OwnerID.String(), nil
}

func (s *fakeStore) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *comment
	s.comments[comment.ID] = &copied
	return nil
}

func (s *fakeStore) GetComment(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[id]
	if !ok {
		return nil, engagement.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (s *fakeStore) ListComments(_ context.Context, videoID uuid.UUID, limit, offset int) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comments := []*models.Comment{}
	for _, comment := range s.comments {
		if comment.VideoID == videoID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	if offset >= len(comments) {
		return []*models.Comment{}, nil
	}
	comments = comments[offset:]
	if len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

func (s *fakeStore) DeleteComment(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return engagement.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func window(videos []*models.Video, limit, offset int) []*models.Video {
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})
	if offset >= len(videos) {
		return []*models.Video{}
	}
	videos = videos[offset:]
	if len(videos) > limit {
		videos = videos[:limit]
	}
	return videos
}

// fakeObjects records uploads and deletions without touching any
// object store.
type fakeObjects struct {
	mu      sync.Mutex
	uploads map[string][]byte
	deleted []string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{uploads: map[string][]byte{}}
}

func (o *fakeObjects) UploadVideo(_ context.Context, filename, _ string, r io.Reader, _ int64) (string, error) {
	return o.store("videos", filename, r)
}

func (o *fakeObjects) UploadImage(_ context.Context, filename, _ string, r io.Reader, _ int64) (string, error) {
	return o.store("images", filename, r)
}

func (o *fakeObjects) store(prefix, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("https://cdn.test/%s/%s/%s", prefix, uuid.New(), filename)
	o.mu.Lock()
	defer o.mu.Unlock()
	o.uploads[url] = data
	return url, nil
}

func (o *fakeObjects) Delete(_ context.Context, objectURL string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.uploads, objectURL)
	o.deleted = append(o.deleted, objectURL)
	return nil
}

// testEnv is a fully wired API over in-memory backends.
type testEnv struct {
	handler http.Handler
	store   *fakeStore
	objects *fakeObjects
	jwt     *auth.JWTManager
	svc     *engagement.Service
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:        "127.0.0.1",
			Port:        8080,
			Environment: "development",
		},
		Security: config.SecurityConfig{
			JWTSecret:         "0123456789abcdef0123456789abcdef",
			TokenTTL:          time.Hour,
			RateLimitDisabled: true,
		},
		Storage: config.StorageConfig{
			MaxVideoSize: 32 << 20,
			MaxImageSize: 4 << 20,
		},
		API: config.APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testConfig()
	jwtManager, err := auth.NewJWTManager(cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	store := newFakeStore()
	objects := newFakeObjects()

	tracker := engagement.NewTracker(engagement.NewMemoryStore())
	gate := engagement.NewAccessGate(jwtManager)
	svc := engagement.NewService(tracker, gate, store)

	handler := NewHandler(store, store, store, objects, svc, jwtManager, store, cfg)
	router := NewRouter(handler, auth.NewMiddleware(jwtManager), NewChiMiddleware(cfg.Security))

	return &testEnv{
		handler: router.Setup(),
		store:   store,
		objects: objects,
		jwt:     jwtManager,
		svc:     svc,
	}
}

// do sends a JSON request through the full router.
func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns its token
// and user ID.
func (env *testEnv) register(t *testing.T, username, email string) (string, uuid.UUID) {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Username: username,
		Email:    email,
		Password: "correct-horse-battery",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d: %s", username, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data authResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp.Data.Token, resp.Data.User.ID
}

// uploadVideo pushes a small clip through the multipart endpoint.
func (env *testEnv) uploadVideo(t *testing.T, token, name string, private bool) uuid.UUID {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "clip.mp4")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("not really mp4 bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.WriteField("name", name); err != nil {
		t.Fatalf("write name field: %v", err)
	}
	if err := mw.WriteField("is_private", fmt.Sprintf("%t", private)); err != nil {
		t.Fatalf("write is_private field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload %s: status %d: %s", name, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data models.Video `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return resp.Data.ID
}

// decodeData unmarshals the data field of a response envelope.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("response not successful: %s", rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

// errorCode extracts the machine-readable error code of a failed
// response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error == nil {
		t.Fatalf("expected error envelope, got: %s", rec.Body.String())
	}
	return envelope.Error.Code
}
