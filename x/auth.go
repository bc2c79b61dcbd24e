package x

import (
	"github.com/coffer-io/coffer"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hardcoding x/auth for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(coffer.Context) []coffer.Condition

	// HasAddress checks if any condition matches this address
	HasAddress(coffer.Context, coffer.Address) bool
}

// GetAddresses wraps the GetConditions method of any authenticator
func GetAddresses(ctx coffer.Context, auth Authenticator) []coffer.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]coffer.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first permission if any, otherwise nil
func MainSigner(ctx coffer.Context, auth Authenticator) coffer.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx coffer.Context, auth Authenticator, required []coffer.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n elements in requested are
// also in context.
func HasNAddresses(ctx coffer.Context, auth Authenticator, requested []coffer.Address, n int) bool {
	// Special case: is this an error???
	if n <= 0 {
		return true
	}

	remaining := n
	for _, addr := range requested {
		if auth.HasAddress(ctx, addr) {
			remaining--
			if remaining == 0 {
				return true
			}
		}
	}
	return false
}

// MultiAuth chains together many authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of authenticators
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx coffer.Context) []coffer.Condition {
	var res []coffer.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	// TODO: remove duplicates
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx coffer.Context, addr coffer.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}
