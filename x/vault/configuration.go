package vault

import (
	"github.com/coffer-io/coffer/coin"
	"github.com/coffer-io/coffer/errors"
	"github.com/coffer-io/coffer/gconf"
)

var _ gconf.Configuration = (*Config)(nil)

// Validate will skip any zero fields and validate the set ones.
func (c *Config) Validate() error {
	if err := c.BaseReserve.Validate(); err != nil {
		return errors.Wrap(err, "base reserve")
	}
	return errors.Wrap(c.ReservePerByte.Validate(), "reserve per byte")
}

func loadConf(db gconf.ReadStore) (Config, error) {
	var conf Config
	if err := gconf.Load(db, "vault", &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}

// minimumReserve is the balance a vault must retain to keep its storage
// allocation alive: a base amount plus a per-byte price on the vault's
// serialized size.
func minimumReserve(conf Config, v *Vault) (coin.Coin, error) {
	rent, err := conf.ReservePerByte.Multiply(uint64(v.Size()))
	if err != nil {
		return coin.Coin{}, errors.Wrap(err, "storage rent")
	}
	total, err := conf.BaseReserve.Add(rent)
	if err != nil {
		return coin.Coin{}, errors.Wrap(err, "minimum reserve")
	}
	return total, nil
}
