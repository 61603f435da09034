package loadercache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/utils/cache"
)

type counter struct {
	calls int
}

func (c *counter) load(_ context.Context, key string) (*string, error) {
	c.calls++
	if key == "bad" {
		return nil, errors.New("cannot load")
	}
	ret := key + "-value"
	return &ret, nil
}

func TestGetAndInvalidate(t *testing.T) {
	ctx := context.Background()
	cnt := &counter{}
	c := New(
		WithLoader[string, string](cnt.load),
		WithExpiration[string, string](0),
		WithLogger[string, string](log.NewNop()))

	v, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a-value", *v)
	_, _ = c.Get(ctx, "a")
	assert.Equal(t, 1, cnt.calls)

	c.Invalidate(ctx, "a")
	_, _ = c.Get(ctx, "a")
	assert.Equal(t, 2, cnt.calls)

	_, err = c.Get(ctx, "bad")
	assert.Error(t, err)
	_, _ = c.Get(ctx, "bad")
	assert.Equal(t, 4, cnt.calls, "errors are not cached")
}

func TestExpiration(t *testing.T) {
	ctx := context.Background()
	cnt := &counter{}
	c := New(
		WithLoader[string, string](cnt.load),
		WithExpiration[string, string](time.Millisecond),
		WithLogger[string, string](log.NewNop()))
	_, _ = c.Get(ctx, "a")
	time.Sleep(5 * time.Millisecond)
	_, _ = c.Get(ctx, "a")
	assert.Equal(t, 2, cnt.calls)
}

func TestNoLoader(t *testing.T) {
	c := New(WithLogger[string, string](log.NewNop()))
	_, err := c.Get(context.Background(), "a")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	version := 0
	var loadErr error
	c := New(
		WithLoader[string, int](func(_ context.Context, _ string) (*int, error) {
			if loadErr != nil {
				return nil, loadErr
			}
			version++
			v := version
			return &v, nil
		}),
		WithExpiration[string, int](0),
		WithLogger[string, int](log.NewNop()))

	v, err := c.Get(ctx, "race.json")
	require.NoError(t, err)
	assert.Equal(t, 1, *v)

	v, err = c.Reload(ctx, "race.json")
	require.NoError(t, err)
	assert.Equal(t, 2, *v)
	v, _ = c.Get(ctx, "race.json")
	assert.Equal(t, 2, *v)

	// a broken reload keeps the previous entry
	loadErr = errors.New("syntax error")
	_, err = c.Reload(ctx, "race.json")
	assert.ErrorIs(t, err, loadErr)
	v, err = c.Get(ctx, "race.json")
	require.NoError(t, err)
	assert.Equal(t, 2, *v)

	// reload of an unknown key behaves like Get
	loadErr = nil
	v, err = c.Reload(ctx, "other.json")
	require.NoError(t, err)
	assert.Equal(t, 3, *v)
}
