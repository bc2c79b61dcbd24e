package coffer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/coffer-io/coffer/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondition(t *testing.T) {
	data := []byte{0xca, 0xfe, 0x00, 0x20}
	c := NewCondition("vault", "seq", data)
	require.NoError(t, c.Validate())

	ext, typ, d, err := c.Parse()
	require.NoError(t, err)
	assert.Equal(t, "vault", ext)
	assert.Equal(t, "seq", typ)
	assert.Equal(t, data, d)

	// 0x20 inside the data section must not break parsing.
	assert.Equal(t, "vault/seq/CAFE0020", c.String())
}

func TestConditionValidate(t *testing.T) {
	cases := map[string]struct {
		cond    Condition
		wantErr bool
	}{
		"valid":             {cond: NewCondition("sigs", "ed25519", []byte("key")), wantErr: false},
		"empty":             {cond: Condition(""), wantErr: true},
		"no data":           {cond: Condition("foo/bar/"), wantErr: true},
		"extension too big": {cond: Condition("waytoolongname/bar/data"), wantErr: true},
		"missing sections":  {cond: Condition("foobar"), wantErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.cond.Validate()
			if tc.wantErr {
				assert.True(t, errors.ErrInput.Is(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConditionAddress(t *testing.T) {
	a := NewCondition("test", "addr", []byte{1}).Address()
	b := NewCondition("test", "addr", []byte{2}).Address()

	require.NoError(t, a.Validate())
	assert.Len(t, []byte(a), AddressLength)
	assert.False(t, a.Equals(b))

	// derivation is deterministic
	assert.True(t, a.Equals(NewCondition("test", "addr", []byte{1}).Address()))
}

func TestAddressValidate(t *testing.T) {
	assert.Error(t, Address(nil).Validate())
	assert.Error(t, Address(bytes.Repeat([]byte{1}, 19)).Validate())
	assert.Error(t, Address(bytes.Repeat([]byte{1}, 21)).Validate())
	assert.NoError(t, Address(bytes.Repeat([]byte{1}, 20)).Validate())
}

func TestAddressJSON(t *testing.T) {
	addr := NewCondition("test", "addr", []byte("whatever")).Address()

	raw, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(raw))

	var got Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, addr.Equals(got))

	// empty string decodes to a nil address
	require.NoError(t, json.Unmarshal([]byte(`""`), &got))
	assert.Nil(t, got)

	// an address of a wrong length must be refused
	assert.Error(t, json.Unmarshal([]byte(`"c0ffee"`), &got))
}

func TestParseAddress(t *testing.T) {
	addr := NewCondition("test", "addr", []byte("whatever")).Address()

	got, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.True(t, addr.Equals(got))

	_, err = ParseAddress("not hex at all")
	assert.Error(t, err)
	_, err = ParseAddress("c0ffee")
	assert.Error(t, err)
}
