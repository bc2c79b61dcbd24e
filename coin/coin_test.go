package coin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coffer-io/coffer/errors"
)

func TestAddCoin(t *testing.T) {
	sum, err := NewCoin(100).Add(NewCoin(25))
	assert.NoError(t, err)
	assert.Equal(t, NewCoin(125), sum)

	// adding zero is a no-op
	same, err := NewCoin(77).Add(Coin{})
	assert.NoError(t, err)
	assert.Equal(t, NewCoin(77), same)

	_, err = NewCoin(math.MaxUint64).Add(NewCoin(1))
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestSubtractCoin(t *testing.T) {
	diff, err := NewCoin(100).Subtract(NewCoin(25))
	assert.NoError(t, err)
	assert.Equal(t, NewCoin(75), diff)

	zero, err := NewCoin(25).Subtract(NewCoin(25))
	assert.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = NewCoin(25).Subtract(NewCoin(26))
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestSaturatingSubtract(t *testing.T) {
	assert.Equal(t, NewCoin(75), NewCoin(100).SaturatingSubtract(NewCoin(25)))
	assert.Equal(t, Coin{}, NewCoin(25).SaturatingSubtract(NewCoin(26)))
	assert.Equal(t, Coin{}, Coin{}.SaturatingSubtract(NewCoin(1)))
}

func TestMultiply(t *testing.T) {
	res, err := NewCoin(3).Multiply(7)
	assert.NoError(t, err)
	assert.Equal(t, NewCoin(21), res)

	res, err = NewCoin(math.MaxUint64).Multiply(0)
	assert.NoError(t, err)
	assert.True(t, res.IsZero())

	_, err = NewCoin(math.MaxUint64 / 2).Multiply(3)
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 1, NewCoin(2).Compare(NewCoin(1)))
	assert.Equal(t, -1, NewCoin(1).Compare(NewCoin(2)))
	assert.Equal(t, 0, NewCoin(2).Compare(NewCoin(2)))

	assert.True(t, NewCoin(2).IsGTE(NewCoin(2)))
	assert.True(t, NewCoin(3).IsGTE(NewCoin(2)))
	assert.False(t, NewCoin(1).IsGTE(NewCoin(2)))
}

func TestCoinCodec(t *testing.T) {
	orig := NewCoin(123456789)
	bz, err := orig.Marshal()
	assert.NoError(t, err)

	var got Coin
	assert.NoError(t, got.Unmarshal(bz))
	assert.Equal(t, orig, got)

	// zero value serializes to nothing
	bz, err = (&Coin{}).Marshal()
	assert.NoError(t, err)
	assert.Len(t, bz, 0)
}
