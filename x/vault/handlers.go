package vault

import (
	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/errors"
	"github.com/coffer-io/coffer/x"
	"github.com/coffer-io/coffer/x/cash"
)

const (
	creationCost int64 = 1
	transferCost int64 = 1
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r coffer.Registry, auth x.Authenticator, control cash.Controller) {
	vaults := NewVaultBucket()
	proposals := NewProposalBucket()

	r.Handle(&CreateVaultMsg{}, CreateVaultHandler{auth: auth, bucket: vaults})
	r.Handle(&CreateProposalMsg{}, CreateProposalHandler{auth: auth, vaults: vaults, proposals: proposals})
	r.Handle(&ApproveMsg{}, ApproveHandler{auth: auth, vaults: vaults, proposals: proposals})
	r.Handle(&ExecuteMsg{}, ExecuteHandler{auth: auth, vaults: vaults, proposals: proposals, control: control})
	r.Handle(&DepositMsg{}, DepositHandler{auth: auth, vaults: vaults, control: control})
	r.Handle(&CancelProposalMsg{}, CancelProposalHandler{auth: auth, vaults: vaults, proposals: proposals})
}

// RegisterQuery registers queries from buckets in this package.
func RegisterQuery(qr coffer.QueryRouter) {
	NewVaultBucket().Register("vaults", qr)
	NewProposalBucket().Register("proposals", qr)
}

// CreateVaultHandler allocates a new vault at the address derived from
// the creator identity.
type CreateVaultHandler struct {
	auth   x.Authenticator
	bucket VaultBucket
}

var _ coffer.Handler = CreateVaultHandler{}

func (h CreateVaultHandler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &coffer.CheckResult{GasAllocated: creationCost}, nil
}

func (h CreateVaultHandler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	msg, creator, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	addr := VaultAddress(creator)
	occupied, err := h.bucket.Has(db, addr)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, errors.Wrapf(errors.ErrDuplicate, "vault address %s", addr)
	}

	vault := &Vault{
		Owners:        msg.Owners,
		Threshold:     msg.Threshold,
		ProposalCount: 0,
	}
	if err := h.bucket.Save(db, addr, vault); err != nil {
		return nil, err
	}

	return &coffer.DeliverResult{Data: addr}, nil
}

func (h CreateVaultHandler) validate(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*CreateVaultMsg, coffer.Address, error) {
	var msg CreateVaultMsg
	if err := coffer.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	// The creator signs the request and funds the allocation.
	creator := x.MainSigner(ctx, h.auth)
	if creator == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, creator.Address(), nil
}

// CreateProposalHandler creates a proposal against an existing vault,
// consuming the vault's proposal counter.
type CreateProposalHandler struct {
	auth      x.Authenticator
	vaults    VaultBucket
	proposals ProposalBucket
}

var _ coffer.Handler = CreateProposalHandler{}

func (h CreateProposalHandler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &coffer.CheckResult{GasAllocated: creationCost}, nil
}

func (h CreateProposalHandler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	msg, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	id := vault.ProposalCount
	if _, err := h.proposals.GetProposal(db, msg.Vault, id); !errors.ErrNotFound.Is(err) {
		if err != nil {
			return nil, err
		}
		return nil, errors.Wrapf(errors.ErrDuplicate, "proposal %d of vault %s", id, coffer.Address(msg.Vault))
	}

	// No bound check on the amount against the vault balance here.
	// Proposals are requests, not reservations. Insufficiency is only
	// checked at execution.
	proposal := &Proposal{
		Vault:      msg.Vault,
		To:         msg.To,
		Amount:     msg.Amount,
		Approvals:  nil,
		State:      ProposalState_OPEN,
		ProposalID: id,
	}
	if err := h.proposals.Save(db, proposal); err != nil {
		return nil, err
	}

	vault.ProposalCount++
	if err := h.vaults.Save(db, msg.Vault, vault); err != nil {
		return nil, err
	}

	return &coffer.DeliverResult{Data: ProposalIDBytes(id)}, nil
}

func (h CreateProposalHandler) validate(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*CreateProposalMsg, *Vault, error) {
	var msg CreateProposalMsg
	if err := coffer.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	vault, err := h.vaults.GetVault(db, msg.Vault)
	if err != nil {
		return nil, nil, err
	}

	if _, err := signedOwner(ctx, h.auth, vault); err != nil {
		return nil, nil, err
	}

	return &msg, vault, nil
}

// ApproveHandler registers one owner's approval on an open proposal.
type ApproveHandler struct {
	auth      x.Authenticator
	vaults    VaultBucket
	proposals ProposalBucket
}

var _ coffer.Handler = ApproveHandler{}

func (h ApproveHandler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &coffer.CheckResult{}, nil
}

func (h ApproveHandler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	proposal, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	approvals, err := AddressSet(proposal.Approvals).Add(signer)
	if err != nil {
		return nil, err
	}
	proposal.Approvals = approvals
	if err := h.proposals.Save(db, proposal); err != nil {
		return nil, err
	}

	return &coffer.DeliverResult{}, nil
}

func (h ApproveHandler) validate(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*Proposal, coffer.Address, error) {
	var msg ApproveMsg
	if err := coffer.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	vault, err := h.vaults.GetVault(db, msg.Vault)
	if err != nil {
		return nil, nil, err
	}
	proposal, err := h.proposals.GetProposal(db, msg.Vault, msg.ProposalID)
	if err != nil {
		return nil, nil, err
	}

	signer, err := signedOwner(ctx, h.auth, vault)
	if err != nil {
		return nil, nil, err
	}
	if AddressSet(proposal.Approvals).Contains(signer) {
		return nil, nil, errors.Wrapf(ErrAlreadyApproved, "owner %s", signer)
	}
	if !proposal.Open() {
		return nil, nil, errors.Wrapf(ErrAlreadyExecuted, "proposal %d", proposal.ProposalID)
	}

	return proposal, signer, nil
}

// ExecuteHandler moves the proposed amount out of the vault once quorum
// exists. Execution is deliberately not owner-gated: quorum, not
// identity, gates execution.
type ExecuteHandler struct {
	auth      x.Authenticator
	vaults    VaultBucket
	proposals ProposalBucket
	control   cash.Controller
}

var _ coffer.Handler = ExecuteHandler{}

func (h ExecuteHandler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &coffer.CheckResult{GasAllocated: transferCost}, nil
}

func (h ExecuteHandler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	proposal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// The state flip and the transfer commit or fail as one unit. The
	// state flag is the mutual exclusion token between concurrent
	// execution attempts.
	proposal.State = ProposalState_EXECUTED
	if err := h.proposals.Save(db, proposal); err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, proposal.Vault, proposal.To, proposal.Amount); err != nil {
		return nil, err
	}

	return &coffer.DeliverResult{Log: "proposal executed"}, nil
}

func (h ExecuteHandler) validate(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*Proposal, error) {
	var msg ExecuteMsg
	if err := coffer.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// Any signed requester may trigger execution.
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}

	vault, err := h.vaults.GetVault(db, msg.Vault)
	if err != nil {
		return nil, err
	}
	proposal, err := h.proposals.GetProposal(db, msg.Vault, msg.ProposalID)
	if err != nil {
		return nil, err
	}

	if !proposal.Open() {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "proposal %d", proposal.ProposalID)
	}
	if len(proposal.Approvals) < int(vault.Threshold) {
		return nil, errors.Wrapf(ErrNotEnoughApprovals, "%d of %d", len(proposal.Approvals), vault.Threshold)
	}
	if !msg.To.Equals(proposal.To) {
		return nil, errors.Wrapf(ErrInvalidDestination, "%s", msg.To)
	}
	if !msg.Vault.Equals(proposal.Vault) {
		return nil, errors.Wrapf(ErrInvalidVault, "%s", msg.Vault)
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	reserve, err := minimumReserve(conf, vault)
	if err != nil {
		return nil, err
	}
	balance, err := h.control.Balance(db, proposal.Vault)
	if err != nil {
		return nil, err
	}
	// Saturating subtraction: the check fails safely instead of
	// wrapping when the amount exceeds the balance.
	if !balance.SaturatingSubtract(proposal.Amount).IsGTE(reserve) {
		return nil, errors.Wrapf(ErrInsufficientFunds, "balance %v, amount %v, reserve %v", &balance, &proposal.Amount, &reserve)
	}

	return proposal, nil
}

// DepositHandler moves funds from the depositor into the vault. No
// ownership or threshold check, anyone may deposit.
type DepositHandler struct {
	auth    x.Authenticator
	vaults  VaultBucket
	control cash.Controller
}

var _ coffer.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &coffer.CheckResult{GasAllocated: transferCost}, nil
}

func (h DepositHandler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	msg, depositor, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.control.MoveCoins(db, depositor, msg.Vault, msg.Amount); err != nil {
		return nil, err
	}
	return &coffer.DeliverResult{}, nil
}

func (h DepositHandler) validate(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*DepositMsg, coffer.Address, error) {
	var msg DepositMsg
	if err := coffer.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	depositor := x.MainSigner(ctx, h.auth)
	if depositor == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}

	// The vault must exist, but membership is not required.
	if _, err := h.vaults.GetVault(db, msg.Vault); err != nil {
		return nil, nil, err
	}

	return &msg, depositor.Address(), nil
}

// CancelProposalHandler terminates an open proposal without moving any
// value. Cancellation is a terminal alternative to execution.
type CancelProposalHandler struct {
	auth      x.Authenticator
	vaults    VaultBucket
	proposals ProposalBucket
}

var _ coffer.Handler = CancelProposalHandler{}

func (h CancelProposalHandler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &coffer.CheckResult{}, nil
}

func (h CancelProposalHandler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	proposal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	proposal.State = ProposalState_CANCELLED
	if err := h.proposals.Save(db, proposal); err != nil {
		return nil, err
	}
	return &coffer.DeliverResult{Log: "proposal cancelled"}, nil
}

func (h CancelProposalHandler) validate(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*Proposal, error) {
	var msg CancelProposalMsg
	if err := coffer.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	vault, err := h.vaults.GetVault(db, msg.Vault)
	if err != nil {
		return nil, err
	}
	proposal, err := h.proposals.GetProposal(db, msg.Vault, msg.ProposalID)
	if err != nil {
		return nil, err
	}

	if !proposal.Open() {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "proposal %d", proposal.ProposalID)
	}
	if _, err := signedOwner(ctx, h.auth, vault); err != nil {
		return nil, err
	}

	return proposal, nil
}

// signedOwner returns the main signer's address if it is a member of
// the vault owner set, ErrNotOwner otherwise.
func signedOwner(ctx coffer.Context, auth x.Authenticator, vault *Vault) (coffer.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	addr := signer.Address()
	if !AddressSet(vault.Owners).Contains(addr) {
		return nil, errors.Wrapf(ErrNotOwner, "%s", addr)
	}
	return addr, nil
}
