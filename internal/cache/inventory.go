package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	PostKeyPrefix      = "post:%s"
	PostsPageKeyPrefix = "posts:page:%d:%d:%s:%s"
)

const (
	PostTTL      = 5 * time.Minute
	PostsPageTTL = 30 * time.Second
)

func PostKey(postID uuid.UUID) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PostsPageKey(page, limit int, sort, tag string) string {
	return fmt.Sprintf(PostsPageKeyPrefix, page, limit, sort, tag)
}

func Invalidate(ctx context.Context, key string) {
	if rdb != nil {
		rdb.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uuid.UUID) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidatePostsList drops every cached post page. Page keys are few and
// short-lived, so a KEYS scan is acceptable here.
func InvalidatePostsList(ctx context.Context) {
	if rdb == nil {
		return
	}
	keys, err := rdb.Keys(ctx, "posts:page:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	rdb.Del(ctx, keys...)
}
