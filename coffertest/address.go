package coffertest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/coffer-io/coffer"
)

var condCounter uint64

// NewCondition returns a new, unique condition. Conditions returned by
// this function are deterministic within a process run but unique.
func NewCondition() coffer.Condition {
	c := atomic.AddUint64(&condCounter, 1)
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, c)
	return coffer.NewCondition("test", "cond", data)
}

// NewAddress returns an address of a new, unique condition.
func NewAddress() coffer.Address {
	return NewCondition().Address()
}
