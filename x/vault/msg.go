package vault

import (
	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/errors"
)

// Routing paths of the vault operations.
const (
	pathCreateVaultMsg    = "vault/create"
	pathCreateProposalMsg = "vault/propose"
	pathApproveMsg        = "vault/approve"
	pathExecuteMsg        = "vault/execute"
	pathDepositMsg        = "vault/deposit"
	pathCancelProposalMsg = "vault/cancel"
)

var _ coffer.Msg = (*CreateVaultMsg)(nil)
var _ coffer.Msg = (*CreateProposalMsg)(nil)
var _ coffer.Msg = (*ApproveMsg)(nil)
var _ coffer.Msg = (*ExecuteMsg)(nil)
var _ coffer.Msg = (*DepositMsg)(nil)
var _ coffer.Msg = (*CancelProposalMsg)(nil)

// Path fulfills coffer.Msg interface to allow routing
func (CreateVaultMsg) Path() string {
	return pathCreateVaultMsg
}

// Validate enforces the owner/threshold invariant on the request
// itself, before any state is touched. All field violations are
// collected so the requester sees the full picture at once.
func (m *CreateVaultMsg) Validate() error {
	var errs error
	switch {
	case len(m.Owners) == 0:
		errs = errors.Append(errs, errors.Wrap(ErrInvalidThreshold, "no owners"))
	case len(m.Owners) > MaxOwners:
		errs = errors.Append(errs, errors.Wrapf(ErrTooManyOwners, "%d owners", len(m.Owners)))
	}
	if err := AddressSet(m.Owners).Validate(); err != nil {
		errs = errors.Append(errs, errors.Wrap(err, "owners"))
	}
	if m.Threshold == 0 || int(m.Threshold) > len(m.Owners) {
		errs = errors.Append(errs, errors.Wrapf(ErrInvalidThreshold, "threshold %d with %d owners", m.Threshold, len(m.Owners)))
	}
	return errs
}

// Path fulfills coffer.Msg interface to allow routing
func (CreateProposalMsg) Path() string {
	return pathCreateProposalMsg
}

// Validate makes sure all the addresses are well formed and the amount
// carries value. Ownership is checked against state by the handler.
func (m *CreateProposalMsg) Validate() error {
	if err := coffer.Address(m.Vault).Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	if err := coffer.Address(m.To).Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "transfer amount must be positive")
	}
	return nil
}

// Path fulfills coffer.Msg interface to allow routing
func (ApproveMsg) Path() string {
	return pathApproveMsg
}

// Validate makes sure the vault address is well formed.
func (m *ApproveMsg) Validate() error {
	return errors.Wrap(coffer.Address(m.Vault).Validate(), "vault")
}

// Path fulfills coffer.Msg interface to allow routing
func (ExecuteMsg) Path() string {
	return pathExecuteMsg
}

// Validate makes sure the addresses are well formed. The destination is
// cross-checked against the proposal by the handler.
func (m *ExecuteMsg) Validate() error {
	if err := coffer.Address(m.Vault).Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	return errors.Wrap(coffer.Address(m.To).Validate(), "destination")
}

// Path fulfills coffer.Msg interface to allow routing
func (DepositMsg) Path() string {
	return pathDepositMsg
}

// Validate makes sure the vault address is well formed and the amount
// carries value.
func (m *DepositMsg) Validate() error {
	if err := coffer.Address(m.Vault).Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	if !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "deposit amount must be positive")
	}
	return nil
}

// Path fulfills coffer.Msg interface to allow routing
func (CancelProposalMsg) Path() string {
	return pathCancelProposalMsg
}

// Validate makes sure the vault address is well formed.
func (m *CancelProposalMsg) Validate() error {
	return errors.Wrap(coffer.Address(m.Vault).Validate(), "vault")
}
