package cash

import (
	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/coin"
	"github.com/coffer-io/coffer/errors"
)

// Initializer fulfils the coffer.Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ coffer.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts coffer.Options, kv coffer.KVStore) error {
	accounts := []struct {
		Address coffer.Address `json:"address"`
		Balance coin.Coin      `json:"balance"`
	}{}
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return err
	}

	bucket := NewWalletBucket()
	for i, acc := range accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		wallet := Wallet{Balance: acc.Balance}
		if _, err := bucket.Put(kv, acc.Address, &wallet); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}
