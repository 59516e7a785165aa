// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/clipframe/internal/auth"
	"github.com/tomtom215/clipframe/internal/middleware"
)

// Router assembles the HTTP routing tree.
type Router struct {
	handler *Handler
	authMW  *auth.Middleware
	chiMW   *ChiMiddleware
}

// NewRouter wires the router from its middleware and handlers.
func NewRouter(handler *Handler, authMW *auth.Middleware, chiMW *ChiMiddleware) *Router {
	return &Router{handler: handler, authMW: authMW, chiMW: chiMW}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route. CORS is global so
	// OPTIONS preflights resolve before auth or rate limiting.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMW.CORS())

	// Prometheus scrape endpoint, outside the versioned API.
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMW.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.HealthReady)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Credential endpoints carry the strict limiter against brute
	// force and credential stuffing.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMW.RateLimitAuth())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Post("/register", router.handler.Register)
		r.Post("/login", router.handler.Login)
		r.Post("/logout", router.handler.Logout)
		r.With(router.authMW.RequireAuth).Get("/me", router.handler.Me)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMW.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		// Readable by anyone; a presented credential must still be
		// valid, and GetVideo runs its own visibility gate so private
		// videos admit only their owner.
		r.Group(func(r chi.Router) {
			r.Use(router.authMW.OptionalAuth)
			r.Get("/videos", router.handler.ListVideos)
			r.Get("/videos/{videoID}", router.handler.GetVideo)
			r.Get("/videos/{videoID}/reactions", router.handler.GetReactions)
			r.Get("/videos/{videoID}/comments", router.handler.ListComments)
			r.Get("/users/{userID}", router.handler.GetUser)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.authMW.RequireAuth)

			r.Get("/videos/my", router.handler.MyVideos)
			r.Get("/videos/my/likes", router.handler.MyLikedVideos)
			r.Get("/videos/my/views", router.handler.MyViewedVideos)

			r.Post("/videos", router.handler.UploadVideo)
			r.Patch("/videos/{videoID}", router.handler.UpdateVideo)
			r.Delete("/videos/{videoID}", router.handler.DeleteVideo)
			r.Post("/videos/{videoID}/preview", router.handler.UploadPreview)

			r.Post("/videos/{videoID}/like", router.handler.LikeVideo)
			r.Post("/videos/{videoID}/dislike", router.handler.DislikeVideo)
			r.Delete("/videos/{videoID}/reactions", router.handler.ClearReaction)

			r.Post("/videos/{videoID}/comments", router.handler.CreateComment)
			r.Delete("/comments/{commentID}", router.handler.DeleteComment)

			r.Get("/users/me", router.handler.Me)
			r.Patch("/users/me", router.handler.UpdateMe)
			r.Delete("/users/me", router.handler.DeleteMe)
		})
	})

	return r
}
