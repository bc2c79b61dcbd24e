package gconf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/errors"
	"github.com/coffer-io/coffer/store"
)

// exampleConf is a minimal Configuration implementation.
type exampleConf struct {
	Token string `json:"token"`
}

func (c *exampleConf) Marshal() ([]byte, error) {
	return []byte(c.Token), nil
}

func (c *exampleConf) Unmarshal(raw []byte) error {
	c.Token = string(raw)
	return nil
}

func (c *exampleConf) Validate() error {
	if c.Token == "" {
		return errors.Wrap(errors.ErrEmpty, "token")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	src := &exampleConf{Token: "foobar"}
	require.NoError(t, Save(db, "example", src))

	var dst exampleConf
	require.NoError(t, Load(db, "example", &dst))
	assert.Equal(t, "foobar", dst.Token)
}

func TestSaveInvalid(t *testing.T) {
	db := store.MemStore()
	err := Save(db, "example", &exampleConf{})
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var dst exampleConf
	err := Load(db, "example", &dst)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestInitConfig(t *testing.T) {
	db := store.MemStore()
	opts := coffer.Options{
		"conf": json.RawMessage(`{"example": {"token": "xyz"}}`),
	}

	var conf exampleConf
	require.NoError(t, InitConfig(db, opts, "example", &conf))

	var dst exampleConf
	require.NoError(t, Load(db, "example", &dst))
	assert.Equal(t, "xyz", dst.Token)
}

func TestInitConfigMissingPackage(t *testing.T) {
	db := store.MemStore()
	opts := coffer.Options{
		"conf": json.RawMessage(`{"other": {}}`),
	}

	var conf exampleConf
	err := InitConfig(db, opts, "example", &conf)
	assert.True(t, errors.ErrNotFound.Is(err))
}
