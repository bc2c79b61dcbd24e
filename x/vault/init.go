package vault

import (
	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/errors"
	"github.com/coffer-io/coffer/gconf"
)

// Initializer fulfils the coffer.Initializer interface to load data
// from the genesis file
type Initializer struct{}

var _ coffer.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial configuration and optional pre-created
// vaults from genesis and save them to the database.
func (Initializer) FromGenesis(opts coffer.Options, kv coffer.KVStore) error {
	if err := gconf.InitConfig(kv, opts, "vault", &Config{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	vaults := []struct {
		Creator   coffer.Address   `json:"creator"`
		Owners    []coffer.Address `json:"owners"`
		Threshold uint32           `json:"threshold"`
	}{}
	if err := opts.ReadOptions("vault", &vaults); err != nil {
		return errors.Wrap(err, "read vaults")
	}

	bucket := NewVaultBucket()
	for i, v := range vaults {
		if err := v.Creator.Validate(); err != nil {
			return errors.Wrapf(err, "vault #%d creator", i)
		}
		vault := &Vault{
			Owners:    v.Owners,
			Threshold: v.Threshold,
		}
		addr := VaultAddress(v.Creator)
		occupied, err := bucket.Has(kv, addr)
		if err != nil {
			return errors.Wrapf(err, "vault #%d", i)
		}
		if occupied {
			return errors.Wrapf(errors.ErrDuplicate, "vault #%d address %s", i, addr)
		}
		if err := bucket.Save(kv, addr, vault); err != nil {
			return errors.Wrapf(err, "vault #%d", i)
		}
	}
	return nil
}
