package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/errors"
	"github.com/coffer-io/coffer/store"
)

// panicHandler panics with the given reason on every call.
type panicHandler struct {
	reason interface{}
}

func (h panicHandler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	panic(h.reason)
}

func (h panicHandler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	panic(h.reason)
}

func TestRecovery(t *testing.T) {
	ctx := context.Background()
	kv := store.MemStore()
	rec := NewRecovery()

	h := panicHandler{reason: "buzz"}

	_, err := rec.Check(ctx, kv, nil, h)
	assert.Error(t, err)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = rec.Deliver(ctx, kv, nil, h)
	assert.Error(t, err)
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestRecoveryWrapsPanicErrors(t *testing.T) {
	ctx := context.Background()
	kv := store.MemStore()
	rec := NewRecovery()

	h := panicHandler{reason: errors.ErrNotFound}

	_, err := rec.Check(ctx, kv, nil, h)
	assert.Error(t, err)
	assert.True(t, errors.ErrPanic.Is(err))
}
