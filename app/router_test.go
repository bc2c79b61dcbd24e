package app

import (
	"context"
	"testing"

	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/coffertest"
	"github.com/coffer-io/coffer/errors"
	"github.com/coffer-io/coffer/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterDispatch(t *testing.T) {
	r := NewRouter()
	h := &coffertest.Handler{}
	r.Handle(&coffertest.Msg{RoutePath: "test/good"}, h)

	ctx := context.Background()
	db := store.MemStore()

	tx := &coffertest.Tx{Msg: &coffertest.Msg{RoutePath: "test/good"}}
	_, err := r.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = r.Deliver(ctx, db, tx)
	require.NoError(t, err)
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())

	// An unknown path must not reach the handler.
	tx = &coffertest.Tx{Msg: &coffertest.Msg{RoutePath: "test/missing"}}
	_, err = r.Check(ctx, db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, 2, h.CallCount())
}

func TestRouterBrokenTx(t *testing.T) {
	r := NewRouter()
	h := &coffertest.Handler{}
	r.Handle(&coffertest.Msg{RoutePath: "test/good"}, h)

	broken := &coffertest.Tx{Err: errors.ErrState}
	_, err := r.Check(context.Background(), store.MemStore(), broken)
	assert.True(t, errors.ErrState.Is(err))
	assert.Equal(t, 0, h.CallCount())
}

func TestRouterRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle(&coffertest.Msg{RoutePath: "test/good"}, &coffertest.Handler{})

	assert.Panics(t, func() {
		r.Handle(&coffertest.Msg{RoutePath: "test/good"}, &coffertest.Handler{})
	})
	assert.Panics(t, func() {
		r.Handle(&coffertest.Msg{RoutePath: "no spaces allowed"}, &coffertest.Handler{})
	})
}

func TestNotFoundHandler(t *testing.T) {
	var h coffer.Handler = notFoundHandler("test/nope")
	_, err := h.Check(context.Background(), store.MemStore(), &coffertest.Tx{})
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = h.Deliver(context.Background(), store.MemStore(), &coffertest.Tx{})
	assert.True(t, errors.ErrNotFound.Is(err))
}
