package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind   *Error
		err    error
		wantIs bool
	}{
		"bare root error": {
			kind:   ErrNotFound,
			err:    ErrNotFound,
			wantIs: true,
		},
		"wrapped once": {
			kind:   ErrNotFound,
			err:    Wrap(ErrNotFound, "vault"),
			wantIs: true,
		},
		"wrapped twice": {
			kind:   ErrNotFound,
			err:    Wrap(Wrap(ErrNotFound, "inner"), "outer"),
			wantIs: true,
		},
		"different root": {
			kind:   ErrNotFound,
			err:    Wrap(ErrDuplicate, "vault"),
			wantIs: false,
		},
		"stdlib error": {
			kind:   ErrNotFound,
			err:    fmt.Errorf("not found"),
			wantIs: false,
		},
		"nil kind with nil error": {
			kind:   nil,
			err:    nil,
			wantIs: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.wantIs, tc.kind.Is(tc.err))
		})
	}
}

func TestWrap(t *testing.T) {
	// wrapping nil stays nil
	assert.Nil(t, Wrap(nil, "no error"))

	err := Wrapf(ErrAmount, "amount %d", 42)
	assert.Equal(t, "amount 42: invalid amount", err.Error())
	assert.True(t, ErrAmount.Is(err))

	// the root code is shared by all layers
	assert.Equal(t, ErrAmount.Code(), uint32(13))
}

func TestWrapAttachesStackOnce(t *testing.T) {
	inner := Wrap(ErrState, "inner")
	st := stackTrace(inner)
	require.NotNil(t, st)

	outer := Wrap(inner, "outer")
	assert.Equal(t, fmt.Sprint(st), fmt.Sprint(stackTrace(outer)))
}

func TestRegisterRejectsReuse(t *testing.T) {
	assert.Panics(t, func() { Register(2, "already taken") })
	// code 1 is reserved
	assert.Panics(t, func() { Register(1, "reserved") })
}

func TestNew(t *testing.T) {
	err := ErrState.New("already executed")
	assert.True(t, ErrState.Is(err))
	assert.Equal(t, "already executed: invalid state", err.Error())

	err = ErrState.Newf("proposal %d", 3)
	assert.True(t, ErrState.Is(err))
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("oh no")
	}
	err := run()
	assert.True(t, ErrPanic.Is(err))

	runErr := func() (err error) {
		defer Recover(&err)
		panic(ErrDatabase.New("disk on fire"))
	}
	assert.True(t, ErrPanic.Is(runErr()))
}

func TestAppend(t *testing.T) {
	assert.Nil(t, Append())
	assert.Nil(t, Append(nil, nil))

	// a single error is returned as is
	one := Wrap(ErrEmpty, "field")
	assert.Equal(t, one, Append(nil, one))

	// several errors are flattened into one group
	err := Append(one, ErrState.New("bad"))
	assert.Contains(t, err.Error(), "2 errors occurred")

	// nested groups are flattened, not stacked
	err = Append(err, ErrInput.New("nope"))
	group, ok := err.(unpacker)
	require.True(t, ok)
	assert.Len(t, group.Unpack(), 3)

	// Is matches the first error of the group via Cause
	assert.True(t, ErrEmpty.Is(err))
}
