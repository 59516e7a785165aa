// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package engagement

import (
	"context"
	"fmt"
)

// Visibility of a video as recorded by the relational layer.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// TokenVerifier validates a bearer credential and yields the subject
// user ID. Implementations must not consult any storage; verification
// is a pure check of the credential itself.
type TokenVerifier interface {
	VerifyCredential(ctx context.Context, credential string) (userID string, err error)
}

// AccessDecision is the outcome of a permitted access.
type AccessDecision struct {
	// ViewerID is the verified viewer, empty for anonymous access.
	ViewerID string

	// Attributed reports whether the access can be attributed to a
	// known user. Only attributed views are recorded.
	Attributed bool
}

// AccessGate decides whether a caller may access a video. It is a pure
// function of (visibility, owner, credential); it never reads or
// writes engagement state.
type AccessGate struct {
	verifier TokenVerifier
}

// NewAccessGate creates a gate using the given credential verifier.
func NewAccessGate(verifier TokenVerifier) *AccessGate {
	return &AccessGate{verifier: verifier}
}

// Authorize evaluates an access request. credential is the raw bearer
// token, empty for anonymous callers.
//
// Rules:
//   - A presented credential that fails verification is rejected with
//     ErrInvalidCredential, even for public videos. A caller claiming
//     an identity must actually hold it.
//   - Public videos admit anonymous callers; the access is simply not
//     attributed.
//   - Private videos admit only their owner. Anonymous access to a
//     private video is ErrForbidden, not ErrInvalidCredential.
func (g *AccessGate) Authorize(ctx context.Context, visibility Visibility, ownerID, credential string) (AccessDecision, error) {
	if credential == "" {
		if visibility == VisibilityPrivate {
			return AccessDecision{}, ErrForbidden
		}
		return AccessDecision{}, nil
	}

	viewerID, err := g.verifier.VerifyCredential(ctx, credential)
	if err != nil {
		return AccessDecision{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	if visibility == VisibilityPrivate && viewerID != ownerID {
		return AccessDecision{}, ErrForbidden
	}

	return AccessDecision{ViewerID: viewerID, Attributed: true}, nil
}
