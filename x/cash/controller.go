package cash

import (
	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/coin"
	"github.com/coffer-io/coffer/errors"
	"github.com/coffer-io/coffer/orm"
)

// CoinMover is the interface for moving funds between accounts. This is
// the subset of Controller needed by most business logic.
type CoinMover interface {
	// MoveCoins removes the amount from src and adds it to dest.
	// It fails when src does not hold enough.
	MoveCoins(store coffer.KVStore, src coffer.Address, dest coffer.Address, amount coin.Coin) error
}

// CoinMinter is the interface for creating new funds.
type CoinMinter interface {
	// IssueCoins increases the balance of the account by the given amount.
	IssueCoins(store coffer.KVStore, dest coffer.Address, amount coin.Coin) error
}

// Balancer answers balance queries.
type Balancer interface {
	// Balance returns the amount held by the account. A missing wallet
	// is reported as a zero balance.
	Balance(store coffer.KVStore, addr coffer.Address) (coin.Coin, error)
}

// Controller is the full functionality of the balance book.
type Controller interface {
	CoinMover
	CoinMinter
	Balancer
}

// BaseController implements Controller using a wallet bucket.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// funds, it fails.
func (c BaseController) MoveCoins(store coffer.KVStore, src coffer.Address, dest coffer.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer: %v", &amount)
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "same source and destination")
	}

	var sender Wallet
	switch err := c.bucket.One(store, src, &sender); {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrEmpty, "source %s", src)
	case err != nil:
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}

	var recipient Wallet
	if err := c.bucket.One(store, dest, &recipient); err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}

	if _, err := c.bucket.Put(store, src, &sender); err != nil {
		return err
	}
	_, err := c.bucket.Put(store, dest, &recipient)
	return err
}

// IssueCoins attempts to add the given amount of funds to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(store coffer.KVStore, dest coffer.Address, amount coin.Coin) error {
	var recipient Wallet
	if err := c.bucket.One(store, dest, &recipient); err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	_, err := c.bucket.Put(store, dest, &recipient)
	return err
}

// Balance returns the amount held by the account.
func (c BaseController) Balance(store coffer.KVStore, addr coffer.Address) (coin.Coin, error) {
	var wallet Wallet
	switch err := c.bucket.One(store, addr, &wallet); {
	case errors.ErrNotFound.Is(err):
		return coin.Coin{}, nil
	case err != nil:
		return coin.Coin{}, errors.Wrap(err, "cannot acquire wallet")
	}
	return wallet.Balance, nil
}
