// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"net/http"
	"time"
)

// healthStatus is the body of health endpoint responses.
type healthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthLive handles GET /health/live: process liveness, no
// dependencies consulted.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(healthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}

// HealthReady handles GET /health/ready: readiness including the
// database. Returns 503 while dependencies are down so load balancers
// hold traffic.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "ok"}
	healthy := true

	if err := h.db.Ping(r.Context()); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}

	status := healthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}
	if !healthy {
		status.Status = "degraded"
		NewResponseWriter(w, r).ErrorWithDetails(
			http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Service not ready", status)
		return
	}
	NewResponseWriter(w, r).Success(status)
}
