package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	ArticleKeyPrefix = "article:%s"
	TagsKey          = "tags"
)

const (
	UserTTL    = 5 * time.Minute
	ArticleTTL = 10 * time.Minute
	TagsTTL    = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ArticleKey(slug string) string {
	return fmt.Sprintf(ArticleKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateArticle(ctx context.Context, slug string) {
	Invalidate(ctx, ArticleKey(slug))
	Invalidate(ctx, TagsKey)
}

func InvalidateTags(ctx context.Context) {
	Invalidate(ctx, TagsKey)
}
