// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

// Package engagement implements per-video engagement tracking: views,
// likes, and dislikes.
//
// Engagement state lives outside the relational system of record, in a
// key/value-of-sets store (Redis in multi-instance deployments, Badger
// for embedded single-node installs, an in-process map for tests). The
// package is organized around four pieces:
//
//   - KeySetStore: the storage contract. Every operation is atomic with
//     respect to concurrent callers on the same key; cross-key sequences
//     are not.
//   - Tracker: the like/dislike toggle state machine and view recording.
//     For any (video, user) pair the position is one of NONE, LIKED or
//     DISLIKED. Transitions into LIKED or DISLIKED clear the opposite
//     reaction before recording the new one, so an interruption between
//     the two steps leaves the pair with no reaction rather than with
//     both. That asymmetry is load-bearing: a lost reaction self-heals on
//     the next toggle, a double reaction would corrupt counts.
//   - AccessGate: a pure authorization decision over (visibility, owner,
//     optional bearer credential). It never touches the store.
//   - Service: the facade the HTTP layer and the deletion workflows call.
//
// Likes maintain an inverse index (per-user set of liked videos) so that
// "my likes" and cascade purges never scan the keyspace. Views keep the
// same inverse index. Dislikes deliberately do not: nothing queries "my
// dislikes", and video purges reach dislike sets directly by key.
package engagement
