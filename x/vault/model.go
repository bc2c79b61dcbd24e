package vault

import (
	"encoding/binary"

	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/errors"
	"github.com/coffer-io/coffer/orm"
)

const (
	// VaultBucketName is where we store the vaults
	VaultBucketName = "vault"
	// ProposalBucketName is where we store the proposals
	ProposalBucketName = "proposal"

	// MaxOwners bounds the owner set size. Approvals are bounded by the
	// same number, as only owners can approve.
	MaxOwners = 10
)

// AddressSet is an ordered sequence of addresses with set semantics.
// Distinctness is an enforced invariant, not an assumption.
type AddressSet []coffer.Address

// Contains returns true if the address is a member of the set.
func (s AddressSet) Contains(addr coffer.Address) bool {
	for _, a := range s {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// Add appends the address, failing when it is already a member.
func (s AddressSet) Add(addr coffer.Address) (AddressSet, error) {
	if s.Contains(addr) {
		return nil, errors.Wrapf(errors.ErrDuplicate, "address %s", addr)
	}
	return append(s, addr), nil
}

// Validate ensures every member is a well formed address and appears
// exactly once.
func (s AddressSet) Validate() error {
	for i, a := range s {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "address #%d", i)
		}
		for _, b := range s[:i] {
			if a.Equals(b) {
				return errors.Wrapf(errors.ErrDuplicate, "address %s", a)
			}
		}
	}
	return nil
}

var _ orm.CloneableData = (*Vault)(nil)

// Validate enforces the vault invariant. It holds for the lifetime of
// the vault as no mutation operation touches owners or threshold.
func (v *Vault) Validate() error {
	if err := AddressSet(v.Owners).Validate(); err != nil {
		return errors.Wrap(err, "owners")
	}
	if len(v.Owners) > MaxOwners {
		return errors.Wrapf(ErrTooManyOwners, "%d owners", len(v.Owners))
	}
	if v.Threshold == 0 || int(v.Threshold) > len(v.Owners) {
		return errors.Wrapf(ErrInvalidThreshold, "threshold %d with %d owners", v.Threshold, len(v.Owners))
	}
	return nil
}

// Copy makes a deep copy of the vault
func (v *Vault) Copy() orm.CloneableData {
	owners := make([]coffer.Address, len(v.Owners))
	for i, o := range v.Owners {
		owners[i] = append(coffer.Address(nil), o...)
	}
	return &Vault{
		Owners:        owners,
		Threshold:     v.Threshold,
		ProposalCount: v.ProposalCount,
	}
}

var _ orm.CloneableData = (*Proposal)(nil)

// Validate ensures the proposal is well formed before it hits the db.
func (p *Proposal) Validate() error {
	if err := coffer.Address(p.Vault).Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	if err := coffer.Address(p.To).Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := AddressSet(p.Approvals).Validate(); err != nil {
		return errors.Wrap(err, "approvals")
	}
	if len(p.Approvals) > MaxOwners {
		return errors.Wrapf(errors.ErrModel, "%d approvals", len(p.Approvals))
	}
	switch p.State {
	case ProposalState_OPEN, ProposalState_EXECUTED, ProposalState_CANCELLED:
	default:
		return errors.Wrapf(errors.ErrState, "state %d", p.State)
	}
	return nil
}

// Copy makes a deep copy of the proposal
func (p *Proposal) Copy() orm.CloneableData {
	approvals := make([]coffer.Address, len(p.Approvals))
	for i, a := range p.Approvals {
		approvals[i] = append(coffer.Address(nil), a...)
	}
	return &Proposal{
		Vault:      append(coffer.Address(nil), p.Vault...),
		To:         append(coffer.Address(nil), p.To...),
		Amount:     p.Amount,
		Approvals:  approvals,
		State:      p.State,
		ProposalID: p.ProposalID,
	}
}

// Open returns true while the proposal did not reach a terminal state.
func (p *Proposal) Open() bool {
	return p.State == ProposalState_OPEN
}

// VaultCondition returns the condition a vault of this creator lives at.
func VaultCondition(creator coffer.Address) coffer.Condition {
	return coffer.NewCondition("vault", "seq", creator)
}

// VaultAddress derives the deterministic address of the vault created
// by this creator. One creator owns at most one vault at this address.
func VaultAddress(creator coffer.Address) coffer.Address {
	return VaultCondition(creator).Address()
}

// ProposalIDBytes renders a proposal id as 8 big-endian bytes. The
// full uint64 range is preserved, byte ordering follows the numeric
// ordering.
func ProposalIDBytes(id uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, id)
	return raw
}

// proposalKey derives the deterministic storage key of a proposal from
// its vault address and its id.
func proposalKey(vault coffer.Address, id uint64) []byte {
	key := make([]byte, 0, len(vault)+8)
	key = append(key, vault...)
	return append(key, ProposalIDBytes(id)...)
}

// VaultBucket is a type-safe wrapper around orm.Bucket
type VaultBucket struct {
	orm.Bucket
}

// NewVaultBucket initializes a VaultBucket with default name
func NewVaultBucket() VaultBucket {
	return VaultBucket{
		Bucket: orm.NewBucket(VaultBucketName, orm.NewSimpleObj(nil, new(Vault))),
	}
}

// GetVault returns the vault at the given address.
func (b VaultBucket) GetVault(db coffer.KVStore, addr coffer.Address) (*Vault, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "vault %s", addr)
	}
	v, ok := obj.Value().(*Vault)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return v, nil
}

// Has returns true if a vault occupies the given address.
func (b VaultBucket) Has(db coffer.KVStore, addr coffer.Address) (bool, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return false, err
	}
	return obj != nil && obj.Value() != nil, nil
}

// Save writes the vault under its address.
func (b VaultBucket) Save(db coffer.KVStore, addr coffer.Address, v *Vault) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(addr, v))
}

// ProposalBucket is a type-safe wrapper around orm.Bucket. Proposals
// are keyed by their vault address joined with their id, so one vault's
// proposals form a contiguous key range.
type ProposalBucket struct {
	orm.Bucket
}

// NewProposalBucket initializes a ProposalBucket with default name
func NewProposalBucket() ProposalBucket {
	return ProposalBucket{
		Bucket: orm.NewBucket(ProposalBucketName, orm.NewSimpleObj(nil, new(Proposal))),
	}
}

// GetProposal returns the proposal of the vault with the given id.
func (b ProposalBucket) GetProposal(db coffer.KVStore, vault coffer.Address, id uint64) (*Proposal, error) {
	obj, err := b.Get(db, proposalKey(vault, id))
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "proposal %d of vault %s", id, vault)
	}
	p, ok := obj.Value().(*Proposal)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return p, nil
}

// Save writes the proposal under its derived key.
func (b ProposalBucket) Save(db coffer.KVStore, p *Proposal) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(proposalKey(p.Vault, p.ProposalID), p))
}
