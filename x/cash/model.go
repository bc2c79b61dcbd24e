package cash

import (
	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/coin"
	"github.com/coffer-io/coffer/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

var _ orm.Model = (*Wallet)(nil)

// Validate requires the balance to be well formed.
func (w *Wallet) Validate() error {
	return w.Balance.Validate()
}

// Copy makes a new wallet with the same balance
func (w *Wallet) Copy() orm.CloneableData {
	return &Wallet{
		Balance: w.Balance,
	}
}

// Add increases the wallet balance, guarding against overflow.
func (w *Wallet) Add(c coin.Coin) error {
	sum, err := w.Balance.Add(c)
	if err != nil {
		return err
	}
	w.Balance = sum
	return nil
}

// Subtract decreases the wallet balance. It fails when the wallet
// does not hold enough.
func (w *Wallet) Subtract(c coin.Coin) error {
	diff, err := w.Balance.Subtract(c)
	if err != nil {
		return err
	}
	w.Balance = diff
	return nil
}

// NewWalletBucket returns a bucket for storing wallets, keyed by the
// account address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}

// RegisterQuery registers the wallet bucket under "/wallets".
func RegisterQuery(qr coffer.QueryRouter) {
	NewWalletBucket().Register("wallets", qr)
}
