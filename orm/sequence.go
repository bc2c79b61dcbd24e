package orm

import (
	"encoding/binary"
	"fmt"

	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both NextInt() as well as bytes.Compare() on NextVal().
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//   _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := fmt.Sprintf("_s.%s:%s", bucket, name)
	return Sequence{
		id: []byte(id),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s Sequence) NextVal(db coffer.KVStore) ([]byte, error) {
	_, bz, err := s.increment(db)
	return bz, err
}

// NextInt increments the sequence and returns its state as int.
func (s Sequence) NextInt(db coffer.KVStore) (int64, error) {
	val, _, err := s.increment(db)
	return val, err
}

// Latest returns the recently returned value of the sequence. This method
// does not modify the sequence state. Use NextVal or NextInt to acquire a
// sequence value that was never used before.
func (s Sequence) Latest(db coffer.KVStore) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, errors.Wrap(err, "cannot get sequence data")
	}
	if raw == nil {
		// Sequence was never incremented.
		return 0, nil, nil
	}
	val, err := DecodeSequence(raw)
	if err != nil {
		return 0, nil, err
	}
	return val, raw, nil
}

func (s Sequence) increment(db coffer.KVStore) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, err
	}
	val := int64(0)
	if raw != nil {
		val, err = DecodeSequence(raw)
		if err != nil {
			return 0, nil, err
		}
	}
	val++
	raw = EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, err
	}
	return val, raw, nil
}

// DecodeSequence converts raw sequence value into its int representation.
func DecodeSequence(raw []byte) (int64, error) {
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "invalid sequence length: %d", len(raw))
	}
	val := binary.BigEndian.Uint64(raw)
	return int64(val), nil
}

// EncodeSequence converts an integer sequence value into its binary
// representation.
func EncodeSequence(val int64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(val))
	return raw
}
