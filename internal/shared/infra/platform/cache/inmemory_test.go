package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cached struct {
	Title string `json:"title"`
}

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	// Arrange
	c := NewInMemoryCache(time.Minute, time.Minute)
	defer c.Stop()
	ctx := context.Background()

	// Act
	require.NoError(t, c.Set(ctx, "k", cached{Title: "hola"}, 0))
	var got cached
	hit, err := c.Get(ctx, "k", &got)

	// Assert
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "hola", got.Title)

	require.NoError(t, c.Delete(ctx, "k"))
	hit, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryCache_Expired(t *testing.T) {
	c := NewInMemoryCache(time.Millisecond, time.Hour)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", cached{Title: "x"}, 0))
	time.Sleep(5 * time.Millisecond)

	var got cached
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryCache_ExplicitTTLOverridesDefault(t *testing.T) {
	c := NewInMemoryCache(time.Millisecond, time.Hour)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", cached{Title: "x"}, time.Minute))
	time.Sleep(5 * time.Millisecond)

	var got cached
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "x", got.Title)
}

func TestInMemoryCache_StopTwice(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Minute)
	c.Stop()
	assert.NotPanics(t, c.Stop)
}
