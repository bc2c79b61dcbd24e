package coffer_test

import (
	"testing"

	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/coffertest"
	"github.com/coffer-io/coffer/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMsg(t *testing.T) {
	msg := &coffertest.Msg{RoutePath: "test/msg", Serialized: []byte("payload")}
	tx := &coffertest.Tx{Msg: msg}

	var dst coffertest.Msg
	require.NoError(t, coffer.LoadMsg(tx, &dst))
	assert.Equal(t, msg.RoutePath, dst.RoutePath)
	assert.Equal(t, msg.Serialized, dst.Serialized)
}

func TestLoadMsgErrors(t *testing.T) {
	var dst coffertest.Msg

	// transaction without a message
	err := coffer.LoadMsg(&coffertest.Tx{}, &dst)
	assert.True(t, errors.ErrState.Is(err))

	// broken transaction
	err = coffer.LoadMsg(&coffertest.Tx{Err: errors.ErrDatabase}, &dst)
	assert.True(t, errors.ErrDatabase.Is(err))

	// message validation failure is returned
	invalid := &coffertest.Msg{RoutePath: "test/msg", Err: errors.ErrInput}
	err = coffer.LoadMsg(&coffertest.Tx{Msg: invalid}, &dst)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestGetPath(t *testing.T) {
	tx := &coffertest.Tx{Msg: &coffertest.Msg{RoutePath: "test/msg"}}
	assert.Equal(t, "test/msg", coffer.GetPath(tx))
	assert.Equal(t, "(missing)", coffer.GetPath(&coffertest.Tx{}))
}
