package coin

import (
	"strconv"

	"github.com/coffer-io/coffer/errors"
)

// Coin is an amount of the native unit, expressed in its smallest
// indivisible denomination. Amounts are unsigned, a coin can never
// represent debt.
type Coin struct {
	Amount uint64 `protobuf:"varint,1,opt,name=amount,proto3" json:"amount,omitempty"`
}

// NewCoin creates a new coin object
func NewCoin(amount uint64) Coin {
	return Coin{Amount: amount}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64) *Coin {
	c := NewCoin(amount)
	return &c
}

// Add combines two coins. Returns an error if the
// combination would overflow the amount range.
func (c Coin) Add(o Coin) (Coin, error) {
	sum := c.Amount + o.Amount
	if sum < c.Amount {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "adding %d to %d", o.Amount, c.Amount)
	}
	return Coin{Amount: sum}, nil
}

// Subtract removes the given amount. Returns an error if
// the result would drop below zero.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if o.Amount > c.Amount {
		return Coin{}, errors.Wrapf(errors.ErrAmount, "subtracting %d from %d", o.Amount, c.Amount)
	}
	return Coin{Amount: c.Amount - o.Amount}, nil
}

// SaturatingSubtract removes the given amount, clamping at zero
// instead of failing. Use this when a shortfall is an expected
// answer rather than an error.
func (c Coin) SaturatingSubtract(o Coin) Coin {
	if o.Amount > c.Amount {
		return Coin{}
	}
	return Coin{Amount: c.Amount - o.Amount}
}

// Multiply returns the coin scaled the given number of times. This
// method can fail if the result would overflow the amount range.
func (c Coin) Multiply(times uint64) (Coin, error) {
	if times == 0 || c.Amount == 0 {
		return Coin{}, nil
	}
	product := c.Amount * times
	if product/times != c.Amount {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "multiplying %d by %d", c.Amount, times)
	}
	return Coin{Amount: product}, nil
}

// Compare returns 1 if c is larger, -1 if o is larger, 0 if equal
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Amount > o.Amount:
		return 1
	case c.Amount < o.Amount:
		return -1
	default:
		return 0
	}
}

// Equals returns true if both amounts are identical
func (c Coin) Equals(o Coin) bool {
	return c.Amount == o.Amount
}

// IsZero returns true when the amount is 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the amount is greater than 0
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsGTE returns true if c is at least as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.Amount >= o.Amount
}

// IsEmpty returns true on null or zero amount
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// Clone provides an independent copy of a coin pointer
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	return &Coin{Amount: c.Amount}
}

// Validate ensures the coin is well formed. Any unsigned amount is a
// valid coin, so this exists to satisfy validation interfaces.
func (c Coin) Validate() error {
	return nil
}

func (c Coin) String() string {
	return strconv.FormatUint(c.Amount, 10)
}

// Set updates this coin value to what is provided. This method
// implements the flag.Value interface.
func (c *Coin) Set(raw string) error {
	amount, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "invalid amount: %s", raw)
	}
	c.Amount = amount
	return nil
}
