package vault

import (
	"testing"

	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/coffertest"
	"github.com/coffer-io/coffer/coin"
	"github.com/coffer-io/coffer/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressSet(t *testing.T) {
	a := coffertest.NewAddress()
	b := coffertest.NewAddress()

	set := AddressSet{a}
	assert.True(t, set.Contains(a))
	assert.False(t, set.Contains(b))

	set, err := set.Add(b)
	require.NoError(t, err)
	assert.True(t, set.Contains(b))

	_, err = set.Add(a)
	assert.True(t, errors.ErrDuplicate.Is(err))

	// Membership is by value, not by reference.
	assert.True(t, set.Contains(append(coffer.Address(nil), a...)))

	assert.NoError(t, set.Validate())
	assert.True(t, errors.ErrDuplicate.Is(AddressSet{a, b, a}.Validate()))
	assert.True(t, errors.ErrInput.Is(AddressSet{a, []byte("too short")}.Validate()))
}

func TestVaultAddressDeterminism(t *testing.T) {
	creator := coffertest.NewAddress()
	other := coffertest.NewAddress()

	assert.Equal(t, VaultAddress(creator), VaultAddress(creator))
	assert.NotEqual(t, VaultAddress(creator), VaultAddress(other))
	assert.NoError(t, VaultAddress(creator).Validate())
	// The vault address is not the creator address.
	assert.NotEqual(t, creator, VaultAddress(creator))
}

func TestProposalIDBytes(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, ProposalIDBytes(1))

	// Ids above the int64 range keep their value and their ordering.
	big := uint64(1) << 63
	assert.Equal(t, []byte{0x80, 0, 0, 0, 0, 0, 0, 0}, ProposalIDBytes(big))
	assert.True(t, string(ProposalIDBytes(big)) < string(ProposalIDBytes(big+1)))
	assert.True(t, string(ProposalIDBytes(big-1)) < string(ProposalIDBytes(big)))
}

func TestProposalValidate(t *testing.T) {
	vaultAddr := coffertest.NewAddress()
	dest := coffertest.NewAddress()

	proposal := Proposal{
		Vault:  vaultAddr,
		To:     dest,
		Amount: coin.NewCoin(10),
		State:  ProposalState_OPEN,
	}
	assert.NoError(t, proposal.Validate())

	invalid := proposal
	invalid.State = ProposalState(9)
	assert.True(t, errors.ErrState.Is(invalid.Validate()))

	invalid = proposal
	invalid.Vault = nil
	assert.True(t, errors.ErrInput.Is(invalid.Validate()))

	invalid = proposal
	invalid.Approvals = []coffer.Address{dest, dest}
	assert.True(t, errors.ErrDuplicate.Is(invalid.Validate()))
}

func TestProposalCopy(t *testing.T) {
	original := &Proposal{
		Vault:     coffertest.NewAddress(),
		To:        coffertest.NewAddress(),
		Amount:    coin.NewCoin(10),
		Approvals: []coffer.Address{coffertest.NewAddress()},
		State:     ProposalState_OPEN,
	}
	clone := original.Copy().(*Proposal)
	clone.Approvals[0][0]++
	clone.Vault[0]++
	assert.NotEqual(t, original.Approvals, clone.Approvals)
	assert.NotEqual(t, original.Vault, clone.Vault)
}
