package app

import (
	"context"
	"testing"

	"github.com/coffer-io/coffer/coffertest"
	"github.com/coffer-io/coffer/errors"
	"github.com/coffer-io/coffer/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainDecorators(t *testing.T) {
	d1 := &coffertest.Decorator{}
	d2 := &coffertest.Decorator{}
	d3 := &coffertest.Decorator{}
	h := &coffertest.Handler{}

	// nil decorators must be silently dropped
	stack := ChainDecorators(d1, nil, d2).
		Chain(nil, d3).
		WithHandler(h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &coffertest.Tx{}

	_, err := stack.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = stack.Deliver(ctx, db, tx)
	require.NoError(t, err)

	for _, d := range []*coffertest.Decorator{d1, d2, d3} {
		assert.Equal(t, 1, d.CheckCallCount())
		assert.Equal(t, 1, d.DeliverCallCount())
	}
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestChainAbortsOnError(t *testing.T) {
	d1 := &coffertest.Decorator{}
	d2 := &coffertest.Decorator{CheckErr: errors.ErrUnauthorized, DeliverErr: errors.ErrUnauthorized}
	h := &coffertest.Handler{}

	stack := ChainDecorators(d1, d2).WithHandler(h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &coffertest.Tx{}

	_, err := stack.Check(ctx, db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = stack.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// The failing decorator was reached, the handler was not.
	assert.Equal(t, 2, d1.CallCount())
	assert.Equal(t, 2, d2.CallCount())
	assert.Equal(t, 0, h.CallCount())
}
