package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	InitRedis(mr.Addr())
	require.NotNil(t, client, "miniredis connection should succeed")
	t.Cleanup(func() { client = nil })
	return mr
}

type payload struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestAside_MissFetchesAndStores(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	var out payload
	hit, err := Aside(ctx, "test:key", &out, time.Minute, func() error {
		calls++
		out = payload{Name: "fetched", Value: 42}
		return nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("test:key"))

	var again payload
	hit, err = Aside(ctx, "test:key", &again, time.Minute, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, calls)
	assert.Equal(t, payload{Name: "fetched", Value: 42}, again)
}

func TestAside_FetchFailureCachesNothing(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	src := errors.New("source unavailable")
	var out payload
	hit, err := Aside(ctx, "test:failing", &out, time.Minute, func() error {
		return src
	})
	assert.False(t, hit)
	assert.ErrorIs(t, err, src)
	assert.False(t, mr.Exists("test:failing"))

	// A later successful fetch is stored as usual.
	hit, err = Aside(ctx, "test:failing", &out, time.Minute, func() error {
		out = payload{Name: "recovered"}
		return nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, mr.Exists("test:failing"))
}

func TestAside_ExpiryRefetches(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Value: calls}
			return nil
		}
	}

	var first payload
	_, err := Aside(ctx, "test:ttl", &first, 30*time.Second, fetch(&first))
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)

	var second payload
	hit, err := Aside(ctx, "test:ttl", &second, 30*time.Second, fetch(&second))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestAside_NoClientPassesThrough(t *testing.T) {
	client = nil
	ctx := context.Background()

	calls := 0
	var out payload
	for i := 0; i < 3; i++ {
		hit, err := Aside(ctx, "test:uncached", &out, time.Minute, func() error {
			calls++
			out = payload{Value: calls}
			return nil
		})
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, out.Value)
}

func TestGetJSON_MissingKey(t *testing.T) {
	setupMiniredis(t)

	var out payload
	found, err := GetJSON(context.Background(), "test:absent", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
