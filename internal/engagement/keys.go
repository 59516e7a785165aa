// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package engagement

// Key naming is a pure function of (entity kind, id, relation). The
// kind prefix keeps video, user, and comment keyspaces disjoint, so no
// choice of IDs can make two logical sets collide.
//
//	video:{id}:views     users who viewed the video
//	video:{id}:likes     users who like the video
//	video:{id}:dislikes  users who dislike the video
//	user:{id}:views      videos the user viewed (inverse index)
//	user:{id}:likes      videos the user likes (inverse index)
//	comment:{id}:likes   users who like the comment (reserved)
//	comment:{id}:dislikes users who dislike the comment (reserved)
//
// There is deliberately no user:{id}:dislikes key. Nothing lists a
// user's dislikes, so the inverse index would be pure write cost.

func videoViewsKey(videoID string) string    { return "video:" + videoID + ":views" }
func videoLikesKey(videoID string) string    { return "video:" + videoID + ":likes" }
func videoDislikesKey(videoID string) string { return "video:" + videoID + ":dislikes" }

func userViewsKey(userID string) string { return "user:" + userID + ":views" }
func userLikesKey(userID string) string { return "user:" + userID + ":likes" }

func commentLikesKey(commentID string) string    { return "comment:" + commentID + ":likes" }
func commentDislikesKey(commentID string) string { return "comment:" + commentID + ":dislikes" }
