package orm

import (
	"github.com/coffer-io/coffer"
)

// queryPrefix returns all key-value pairs in the db whose key begins with
// the given prefix. Iteration happens over the raw store, so the returned
// keys carry the bucket prefix.
func queryPrefix(db coffer.ReadOnlyKVStore, prefix []byte) ([]coffer.Model, error) {
	iter, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(iter)
}

// ConsumeIterator drains an iterator into a slice of models and closes it.
func ConsumeIterator(iter coffer.Iterator) ([]coffer.Model, error) {
	defer iter.Close()

	var out []coffer.Model
	for iter.Valid() {
		m := coffer.Model{
			Key:   append([]byte(nil), iter.Key()...),
			Value: append([]byte(nil), iter.Value()...),
		}
		out = append(out, m)
		if err := iter.Next(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// prefixRange turns a prefix into (start, end) to create
// and iterator over the whole prefix domain
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
