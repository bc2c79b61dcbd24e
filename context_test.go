package coffer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHeight(t *testing.T) {
	ctx := context.Background()

	_, ok := GetHeight(ctx)
	assert.False(t, ok)

	ctx = WithHeight(ctx, 7)
	h, ok := GetHeight(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), h)

	assert.Panics(t, func() { WithHeight(ctx, 9) })
}

func TestContextChainID(t *testing.T) {
	ctx := context.Background()

	assert.Panics(t, func() { GetChainID(ctx) })
	// too short, not allowed
	assert.Panics(t, func() { WithChainID(ctx, "bad") })

	ctx = WithChainID(ctx, "test-chain-1")
	assert.Equal(t, "test-chain-1", GetChainID(ctx))

	assert.Panics(t, func() { WithChainID(ctx, "test-chain-2") })
}

func TestContextBlockTime(t *testing.T) {
	ctx := context.Background()

	_, err := BlockTime(ctx)
	assert.Error(t, err)

	now := time.Now()
	ctx = WithBlockTime(ctx, now)
	got, err := BlockTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, now.UTC(), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, DefaultLogger, GetLogger(ctx))
}
