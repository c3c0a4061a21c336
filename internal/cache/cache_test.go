package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedArticle struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

func TestAsideMissThenHit(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func() (interface{}, error) {
		fetches++
		return &cachedArticle{Slug: "how-to-train-abc123", Title: "How to Train"}, nil
	}

	var first cachedArticle
	require.NoError(t, Aside(ctx, ArticleKey("how-to-train-abc123"), &first, ArticleTTL, fetch))
	assert.Equal(t, "How to Train", first.Title)
	assert.Equal(t, 1, fetches)

	var second cachedArticle
	require.NoError(t, Aside(ctx, ArticleKey("how-to-train-abc123"), &second, ArticleTTL, fetch))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetches, "second read should be served from cache")
}

func TestAsideCorruptEntryRefetches(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	key := ArticleKey("broken")
	require.NoError(t, mr.Set(key, "{not json"))

	var got cachedArticle
	err := Aside(ctx, key, &got, time.Minute, func() (interface{}, error) {
		return &cachedArticle{Slug: "broken", Title: "Recovered"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Recovered", got.Title)
}

func TestInvalidateArticleAlsoDropsTags(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(ArticleKey("some-slug"), `{}`))
	require.NoError(t, mr.Set(TagsKey, `["go"]`))

	InvalidateArticle(ctx, "some-slug")

	assert.False(t, mr.Exists(ArticleKey("some-slug")))
	assert.False(t, mr.Exists(TagsKey))
}

func TestAsideWithoutClientStillFetches(t *testing.T) {
	SetClient(nil)

	var got cachedArticle
	err := Aside(context.Background(), "any", &got, time.Minute, func() (interface{}, error) {
		return &cachedArticle{Title: "Direct"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Direct", got.Title)
}
