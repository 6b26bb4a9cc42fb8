package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pagePayload struct {
	Posts []string `json:"posts"`
	Total int      `json:"total"`
}

func useTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON_Roundtrip(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	in := pagePayload{Posts: []string{"a", "b"}, Total: 2}
	require.NoError(t, SetJSON(ctx, "k", in, time.Minute))

	var out pagePayload
	found, err := GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestGetJSON_Miss(t *testing.T) {
	useTestRedis(t)

	var out pagePayload
	found, err := GetJSON(context.Background(), "absent", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAside_FetchesOnceThenServesCached(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()
	fetches := 0
	fetch := func(dest *pagePayload) func() error {
		return func() error {
			fetches++
			dest.Total = 7
			return nil
		}
	}

	var first pagePayload
	require.NoError(t, Aside(ctx, "page", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 7, first.Total)

	var second pagePayload
	require.NoError(t, Aside(ctx, "page", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read must come from cache")
	assert.Equal(t, 7, second.Total)
}

func TestAside_NoClientFallsThrough(t *testing.T) {
	SetClient(nil)
	fetches := 0

	var out pagePayload
	err := Aside(context.Background(), "page", &out, time.Minute, func() error {
		fetches++
		out.Total = 3
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 3, out.Total)
}

func TestInvalidatePostsList(t *testing.T) {
	mr := useTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostsPageKey(1, 10, "newest", ""), pagePayload{Total: 1}, time.Minute))
	require.NoError(t, SetJSON(ctx, PostsPageKey(2, 10, "popularity", "help"), pagePayload{Total: 1}, time.Minute))
	require.NoError(t, SetJSON(ctx, "unrelated", pagePayload{Total: 1}, time.Minute))

	InvalidatePostsList(ctx)

	assert.False(t, mr.Exists(PostsPageKey(1, 10, "newest", "")))
	assert.False(t, mr.Exists(PostsPageKey(2, 10, "popularity", "help")))
	assert.True(t, mr.Exists("unrelated"))
}

func TestInvalidatePost(t *testing.T) {
	mr := useTestRedis(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, SetJSON(ctx, PostKey(id), pagePayload{Total: 1}, time.Minute))
	InvalidatePost(ctx, id)
	assert.False(t, mr.Exists(PostKey(id)))
}
