package coffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptions(t *testing.T) {
	opts := Options{
		"number": []byte(`123`),
		"nested": []byte(`{"name": "alice"}`),
		"broken": []byte(`{oops`),
	}

	var number int
	require.NoError(t, opts.ReadOptions("number", &number))
	assert.Equal(t, 123, number)

	var nested struct {
		Name string `json:"name"`
	}
	require.NoError(t, opts.ReadOptions("nested", &nested))
	assert.Equal(t, "alice", nested.Name)

	// a missing key is a noop, not an error
	var ignored int
	require.NoError(t, opts.ReadOptions("missing", &ignored))
	assert.Equal(t, 0, ignored)

	assert.Error(t, opts.ReadOptions("broken", &nested))
}
