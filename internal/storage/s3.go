// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

// Package storage uploads video files and preview images to an
// S3-compatible object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tomtom215/clipframe/internal/config"
	"github.com/tomtom215/clipframe/internal/logging"
	"github.com/tomtom215/clipframe/internal/metrics"
)

// Sentinel errors for upload validation. The HTTP layer maps them to
// 4xx responses.
var (
	ErrFileTooLarge    = errors.New("file exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported content type")
)

// videoContentType is the only accepted video format.
const videoContentType = "video/mp4"

// Client wraps a minio S3 client with Clipframe's bucket layout:
// videos under videos/{uuid}_{filename}, preview images under
// images/{uuid}_{filename}.
type Client struct {
	s3            *minio.Client
	bucket        string
	publicBaseURL string
	maxVideoSize  int64
	maxImageSize  int64
}

// New connects to the object store and ensures the bucket exists.
func New(ctx context.Context, cfg config.StorageConfig) (*Client, error) {
	s3, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	client := &Client{
		s3:            s3,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL(cfg),
		maxVideoSize:  cfg.MaxVideoSize,
		maxImageSize:  cfg.MaxImageSize,
	}

	exists, err := s3.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := s3.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		logging.Info().Str("bucket", cfg.Bucket).Msg("Object storage bucket created")
	}

	return client, nil
}

func publicBaseURL(cfg config.StorageConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}

// UploadVideo stores an mp4 file and returns its public URL. The size
// is validated against the configured cap before any bytes move.
func (c *Client) UploadVideo(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	if contentType != videoContentType {
		return "", fmt.Errorf("%w: %s (only %s accepted)", ErrUnsupportedType, contentType, videoContentType)
	}
	if size > c.maxVideoSize {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, c.maxVideoSize)
	}
	return c.upload(ctx, "videos", filename, contentType, r, size, "video")
}

// UploadImage stores a preview image and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s (only image/* accepted)", ErrUnsupportedType, contentType)
	}
	if size > c.maxImageSize {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, c.maxImageSize)
	}
	return c.upload(ctx, "images", filename, contentType, r, size, "image")
}

func (c *Client) upload(ctx context.Context, prefix, filename, contentType string, r io.Reader, size int64, kind string) (string, error) {
	key := objectKey(prefix, filename)

	start := time.Now()
	_, err := c.s3.PutObject(ctx, c.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	metrics.RecordStorageUpload(kind, size, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	logging.Ctx(ctx).Debug().Str("key", key).Int64("size", size).Msg("Object uploaded")
	return c.PublicURL(key), nil
}

// Delete removes an object given its public URL. Unknown URLs are
// ignored so video deletion never fails on already-gone files.
func (c *Client) Delete(ctx context.Context, objectURL string) error {
	key, ok := c.keyFromURL(objectURL)
	if !ok {
		return nil
	}
	if err := c.s3.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the serving URL for an object key.
func (c *Client) PublicURL(key string) string {
	return c.publicBaseURL + "/" + key
}

func (c *Client) keyFromURL(objectURL string) (string, bool) {
	prefix := c.publicBaseURL + "/"
	if !strings.HasPrefix(objectURL, prefix) {
		return "", false
	}
	return strings.TrimPrefix(objectURL, prefix), true
}

// objectKey builds "{prefix}/{uuid}_{filename}" with the filename
// stripped to its base name and URL-escaped.
func objectKey(prefix, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return prefix + "/" + uuid.New().String() + "_" + url.PathEscape(base)
}
