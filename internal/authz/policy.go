// Package authz holds the ownership and visibility policy for posts.
// Decisions are pure functions of the requester identity and the post so
// they can be unit-tested independent of storage.
package authz

import (
	"voxpop/internal/models"
)

// CanView reports whether the requester may read the post. Published posts
// are visible to every identity; unpublished posts only to their owner.
func CanView(requester uint, post *models.Post) bool {
	return post.Published || post.UserID == requester
}

// CanMutate reports whether the requester may update or delete the post.
// Only the owner may, regardless of published state.
func CanMutate(requester uint, post *models.Post) bool {
	return post.UserID == requester
}
