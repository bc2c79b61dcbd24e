package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/errors"
)

// Genesis is the file format the engine is initialized from.
type Genesis struct {
	ChainID  string         `json:"chain_id"`
	AppState coffer.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(err, "loading genesis file")
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrap(err, "unmarshaling genesis file")
	}
	return gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...coffer.Initializer) coffer.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []coffer.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts coffer.Options, kv coffer.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
