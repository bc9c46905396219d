package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	postKeyPrefix = "post:%d"
)

// PostTTL bounds how long a cached post payload may lag the store. The
// cached entry embeds the likes aggregate, so every vote toggle invalidates it.
const PostTTL = 5 * time.Minute

// PostKey returns the cache key for a post payload.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// Invalidate removes a key. No-op without a connected client.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops the cached payload for a post.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}
