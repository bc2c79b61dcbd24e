package vault

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/coffertest"
	"github.com/coffer-io/coffer/coin"
	"github.com/coffer-io/coffer/errors"
	"github.com/coffer-io/coffer/gconf"
	"github.com/coffer-io/coffer/orm"
	"github.com/coffer-io/coffer/store"
	"github.com/coffer-io/coffer/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db        coffer.CacheableKVStore
	auth      *coffertest.CtxAuth
	control   cash.BaseController
	vaults    VaultBucket
	proposals ProposalBucket

	create  CreateVaultHandler
	propose CreateProposalHandler
	approve ApproveHandler
	execute ExecuteHandler
	deposit DepositHandler
	cancel  CancelProposalHandler
}

// newTestEnv wires the handlers against a fresh in-memory store with a
// flat reserve of 100 and no per byte pricing.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := store.MemStore()
	conf := Config{
		BaseReserve:    coin.NewCoin(100),
		ReservePerByte: coin.NewCoin(0),
	}
	require.NoError(t, gconf.Save(db, "vault", &conf))

	auth := &coffertest.CtxAuth{Key: "auth"}
	control := cash.NewController(cash.NewWalletBucket())
	vaults := NewVaultBucket()
	proposals := NewProposalBucket()

	return &testEnv{
		db:        db,
		auth:      auth,
		control:   control,
		vaults:    vaults,
		proposals: proposals,
		create:    CreateVaultHandler{auth: auth, bucket: vaults},
		propose:   CreateProposalHandler{auth: auth, vaults: vaults, proposals: proposals},
		approve:   ApproveHandler{auth: auth, vaults: vaults, proposals: proposals},
		execute:   ExecuteHandler{auth: auth, vaults: vaults, proposals: proposals, control: control},
		deposit:   DepositHandler{auth: auth, vaults: vaults, control: control},
		cancel:    CancelProposalHandler{auth: auth, vaults: vaults, proposals: proposals},
	}
}

func (env *testEnv) ctx(signers ...coffer.Condition) coffer.Context {
	return env.auth.SetConditions(context.Background(), signers...)
}

// newVault creates a funded vault owned by the given conditions and
// returns its address.
func (env *testEnv) newVault(t *testing.T, threshold uint32, funds uint64, owners ...coffer.Condition) coffer.Address {
	t.Helper()

	addrs := make([]coffer.Address, len(owners))
	for i, o := range owners {
		addrs[i] = o.Address()
	}
	tx := &coffertest.Tx{Msg: &CreateVaultMsg{Owners: addrs, Threshold: threshold}}
	res, err := env.create.Deliver(env.ctx(owners[0]), env.db, tx)
	require.NoError(t, err)

	addr := coffer.Address(res.Data)
	if funds > 0 {
		require.NoError(t, env.control.IssueCoins(env.db, addr, coin.NewCoin(funds)))
	}
	return addr
}

func (env *testEnv) newProposal(t *testing.T, vault coffer.Address, to coffer.Address, amount uint64, owner coffer.Condition) uint64 {
	t.Helper()

	tx := &coffertest.Tx{Msg: &CreateProposalMsg{Vault: vault, To: to, Amount: coin.NewCoin(amount)}}
	res, err := env.propose.Deliver(env.ctx(owner), env.db, tx)
	require.NoError(t, err)
	require.Len(t, res.Data, 8)
	return binary.BigEndian.Uint64(res.Data)
}

func TestCreateVaultMsgValidate(t *testing.T) {
	a := coffertest.NewAddress()
	b := coffertest.NewAddress()

	var crowd []coffer.Address
	for i := 0; i < MaxOwners+1; i++ {
		crowd = append(crowd, coffertest.NewAddress())
	}

	cases := map[string]struct {
		msg     CreateVaultMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: CreateVaultMsg{Owners: []coffer.Address{a, b}, Threshold: 2},
		},
		"owner count at the limit": {
			msg: CreateVaultMsg{Owners: crowd[:MaxOwners], Threshold: uint32(MaxOwners)},
		},
		"no owners": {
			msg:     CreateVaultMsg{Threshold: 1},
			wantErr: ErrInvalidThreshold,
		},
		"zero threshold": {
			msg:     CreateVaultMsg{Owners: []coffer.Address{a, b}, Threshold: 0},
			wantErr: ErrInvalidThreshold,
		},
		"threshold above owner count": {
			msg:     CreateVaultMsg{Owners: []coffer.Address{a, b}, Threshold: 3},
			wantErr: ErrInvalidThreshold,
		},
		"too many owners": {
			msg:     CreateVaultMsg{Owners: crowd, Threshold: 1},
			wantErr: ErrTooManyOwners,
		},
		"duplicate owner": {
			msg:     CreateVaultMsg{Owners: []coffer.Address{a, b, a}, Threshold: 2},
			wantErr: errors.ErrDuplicate,
		},
		"malformed owner address": {
			msg:     CreateVaultMsg{Owners: []coffer.Address{a, []byte{0x01}}, Threshold: 1},
			wantErr: errors.ErrInput,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			}
		})
	}
}

func TestCreateVaultMsgValidateReportsAllViolations(t *testing.T) {
	// Both the empty owner set and the zero threshold are reported in
	// one pass.
	msg := CreateVaultMsg{}
	err := msg.Validate()
	assert.True(t, ErrInvalidThreshold.Is(err))
	assert.Contains(t, err.Error(), "2 errors occurred")
}

func TestCreateVaultHandler(t *testing.T) {
	env := newTestEnv(t)
	alice := coffertest.NewCondition()
	bob := coffertest.NewCondition()

	tx := &coffertest.Tx{Msg: &CreateVaultMsg{
		Owners:    []coffer.Address{alice.Address(), bob.Address()},
		Threshold: 2,
	}}

	// No signer on the context.
	_, err := env.create.Deliver(env.ctx(), env.db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	res, err := env.create.Deliver(env.ctx(alice), env.db, tx)
	require.NoError(t, err)
	assert.Equal(t, []byte(VaultAddress(alice.Address())), res.Data)

	vault, err := env.vaults.GetVault(env.db, coffer.Address(res.Data))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), vault.Threshold)
	assert.Equal(t, uint64(0), vault.ProposalCount)
	assert.Len(t, vault.Owners, 2)

	// The address is derived from the creator identity, so the same
	// creator cannot allocate twice.
	_, err = env.create.Deliver(env.ctx(alice), env.db, tx)
	assert.True(t, errors.ErrDuplicate.Is(err))

	// A vault creator does not have to be an owner.
	carl := coffertest.NewCondition()
	res, err = env.create.Deliver(env.ctx(carl), env.db, tx)
	require.NoError(t, err)
	assert.Equal(t, []byte(VaultAddress(carl.Address())), res.Data)
}

func TestProposalLifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice := coffertest.NewCondition()
	bob := coffertest.NewCondition()
	carl := coffertest.NewCondition()
	dest := coffertest.NewAddress()

	vaultAddr := env.newVault(t, 2, 1000, alice, bob, carl)
	propID := env.newProposal(t, vaultAddr, dest, 200, alice)
	assert.Equal(t, uint64(0), propID)

	vault, err := env.vaults.GetVault(env.db, vaultAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), vault.ProposalCount)

	approveTx := &coffertest.Tx{Msg: &ApproveMsg{Vault: vaultAddr, ProposalID: propID}}
	executeTx := &coffertest.Tx{Msg: &ExecuteMsg{Vault: vaultAddr, ProposalID: propID, To: dest}}

	// One approval is below the threshold of two.
	_, err = env.approve.Deliver(env.ctx(alice), env.db, approveTx)
	require.NoError(t, err)
	_, err = env.execute.Deliver(env.ctx(alice), env.db, executeTx)
	assert.True(t, ErrNotEnoughApprovals.Is(err))

	_, err = env.approve.Deliver(env.ctx(bob), env.db, approveTx)
	require.NoError(t, err)

	// Execution does not require an owner, any signer can trigger it.
	outsider := coffertest.NewCondition()
	_, err = env.execute.Deliver(env.ctx(outsider), env.db, executeTx)
	require.NoError(t, err)

	balance, err := env.control.Balance(env.db, vaultAddr)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(800), balance)
	balance, err = env.control.Balance(env.db, dest)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(200), balance)

	proposal, err := env.proposals.GetProposal(env.db, vaultAddr, propID)
	require.NoError(t, err)
	assert.Equal(t, ProposalState_EXECUTED, proposal.State)

	// Terminal state rejects any further transition.
	_, err = env.approve.Deliver(env.ctx(carl), env.db, approveTx)
	assert.True(t, ErrAlreadyExecuted.Is(err))
	_, err = env.execute.Deliver(env.ctx(carl), env.db, executeTx)
	assert.True(t, ErrAlreadyExecuted.Is(err))
	cancelTx := &coffertest.Tx{Msg: &CancelProposalMsg{Vault: vaultAddr, ProposalID: propID}}
	_, err = env.cancel.Deliver(env.ctx(alice), env.db, cancelTx)
	assert.True(t, ErrAlreadyExecuted.Is(err))
}

func TestCreateProposalErrors(t *testing.T) {
	env := newTestEnv(t)
	alice := coffertest.NewCondition()
	outsider := coffertest.NewCondition()
	dest := coffertest.NewAddress()

	vaultAddr := env.newVault(t, 1, 0, alice)

	tx := &coffertest.Tx{Msg: &CreateProposalMsg{Vault: vaultAddr, To: dest, Amount: coin.NewCoin(10)}}
	_, err := env.propose.Deliver(env.ctx(outsider), env.db, tx)
	assert.True(t, ErrNotOwner.Is(err))

	_, err = env.propose.Deliver(env.ctx(), env.db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	missing := coffertest.NewAddress()
	tx = &coffertest.Tx{Msg: &CreateProposalMsg{Vault: missing, To: dest, Amount: coin.NewCoin(10)}}
	_, err = env.propose.Deliver(env.ctx(alice), env.db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))

	tx = &coffertest.Tx{Msg: &CreateProposalMsg{Vault: vaultAddr, To: dest, Amount: coin.NewCoin(0)}}
	_, err = env.propose.Deliver(env.ctx(alice), env.db, tx)
	assert.True(t, errors.ErrAmount.Is(err))

	// A proposal may ask for more than the vault holds. The balance is
	// only checked at execution time.
	tx = &coffertest.Tx{Msg: &CreateProposalMsg{Vault: vaultAddr, To: dest, Amount: coin.NewCoin(1 << 40)}}
	_, err = env.propose.Deliver(env.ctx(alice), env.db, tx)
	assert.NoError(t, err)

	// Ids are assigned sequentially per vault.
	id := env.newProposal(t, vaultAddr, dest, 10, alice)
	assert.Equal(t, uint64(1), id)
}

func TestApproveErrors(t *testing.T) {
	env := newTestEnv(t)
	alice := coffertest.NewCondition()
	bob := coffertest.NewCondition()
	outsider := coffertest.NewCondition()
	dest := coffertest.NewAddress()

	vaultAddr := env.newVault(t, 2, 500, alice, bob)
	propID := env.newProposal(t, vaultAddr, dest, 100, alice)

	tx := &coffertest.Tx{Msg: &ApproveMsg{Vault: vaultAddr, ProposalID: propID}}

	_, err := env.approve.Deliver(env.ctx(outsider), env.db, tx)
	assert.True(t, ErrNotOwner.Is(err))

	_, err = env.approve.Deliver(env.ctx(alice), env.db, tx)
	require.NoError(t, err)

	// Idempotence is rejected, not silently absorbed.
	_, err = env.approve.Deliver(env.ctx(alice), env.db, tx)
	assert.True(t, ErrAlreadyApproved.Is(err))

	proposal, err := env.proposals.GetProposal(env.db, vaultAddr, propID)
	require.NoError(t, err)
	assert.Len(t, proposal.Approvals, 1)

	missing := &coffertest.Tx{Msg: &ApproveMsg{Vault: vaultAddr, ProposalID: 42}}
	_, err = env.approve.Deliver(env.ctx(alice), env.db, missing)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestExecuteReserveBoundary(t *testing.T) {
	env := newTestEnv(t)
	alice := coffertest.NewCondition()
	dest := coffertest.NewAddress()

	// Reserve is 100. With a transfer of 50 the vault needs exactly 150.
	vaultAddr := env.newVault(t, 1, 149, alice)
	propID := env.newProposal(t, vaultAddr, dest, 50, alice)

	approveTx := &coffertest.Tx{Msg: &ApproveMsg{Vault: vaultAddr, ProposalID: propID}}
	_, err := env.approve.Deliver(env.ctx(alice), env.db, approveTx)
	require.NoError(t, err)

	executeTx := &coffertest.Tx{Msg: &ExecuteMsg{Vault: vaultAddr, ProposalID: propID, To: dest}}
	_, err = env.execute.Deliver(env.ctx(alice), env.db, executeTx)
	assert.True(t, ErrInsufficientFunds.Is(err))

	// A failed execution leaves the proposal open, so topping the vault
	// up by one unit makes the same request pass.
	require.NoError(t, env.control.IssueCoins(env.db, vaultAddr, coin.NewCoin(1)))
	_, err = env.execute.Deliver(env.ctx(alice), env.db, executeTx)
	require.NoError(t, err)

	balance, err := env.control.Balance(env.db, vaultAddr)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(100), balance)
}

func TestExecuteCrossChecks(t *testing.T) {
	env := newTestEnv(t)
	alice := coffertest.NewCondition()
	dest := coffertest.NewAddress()

	vaultAddr := env.newVault(t, 1, 500, alice)
	propID := env.newProposal(t, vaultAddr, dest, 100, alice)

	approveTx := &coffertest.Tx{Msg: &ApproveMsg{Vault: vaultAddr, ProposalID: propID}}
	_, err := env.approve.Deliver(env.ctx(alice), env.db, approveTx)
	require.NoError(t, err)

	// The destination of the request must match the proposal.
	other := coffertest.NewAddress()
	tx := &coffertest.Tx{Msg: &ExecuteMsg{Vault: vaultAddr, ProposalID: propID, To: other}}
	_, err = env.execute.Deliver(env.ctx(alice), env.db, tx)
	assert.True(t, ErrInvalidDestination.Is(err))

	tx = &coffertest.Tx{Msg: &ExecuteMsg{Vault: vaultAddr, ProposalID: propID, To: dest}}
	_, err = env.execute.Deliver(env.ctx(), env.db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	tx = &coffertest.Tx{Msg: &ExecuteMsg{Vault: vaultAddr, ProposalID: 42, To: dest}}
	_, err = env.execute.Deliver(env.ctx(alice), env.db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestExecuteRejectsForeignProposal(t *testing.T) {
	env := newTestEnv(t)
	alice := coffertest.NewCondition()
	dest := coffertest.NewAddress()

	vaultAddr := env.newVault(t, 1, 500, alice)

	// A record stored in this vault's key range but claiming another
	// vault must never move this vault's funds.
	foreign := &Proposal{
		Vault:      coffertest.NewAddress(),
		To:         dest,
		Amount:     coin.NewCoin(10),
		Approvals:  []coffer.Address{alice.Address()},
		State:      ProposalState_OPEN,
		ProposalID: 7,
	}
	obj := orm.NewSimpleObj(proposalKey(vaultAddr, 7), foreign)
	require.NoError(t, env.proposals.Bucket.Save(env.db, obj))

	tx := &coffertest.Tx{Msg: &ExecuteMsg{Vault: vaultAddr, ProposalID: 7, To: dest}}
	_, err := env.execute.Deliver(env.ctx(alice), env.db, tx)
	assert.True(t, ErrInvalidVault.Is(err))

	balance, err := env.control.Balance(env.db, vaultAddr)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(500), balance)
}

func TestCancelProposal(t *testing.T) {
	env := newTestEnv(t)
	alice := coffertest.NewCondition()
	bob := coffertest.NewCondition()
	outsider := coffertest.NewCondition()
	dest := coffertest.NewAddress()

	vaultAddr := env.newVault(t, 2, 500, alice, bob)
	propID := env.newProposal(t, vaultAddr, dest, 100, alice)

	cancelTx := &coffertest.Tx{Msg: &CancelProposalMsg{Vault: vaultAddr, ProposalID: propID}}

	_, err := env.cancel.Deliver(env.ctx(outsider), env.db, cancelTx)
	assert.True(t, ErrNotOwner.Is(err))

	// Cancellation takes no approvals, any single owner can do it.
	_, err = env.cancel.Deliver(env.ctx(bob), env.db, cancelTx)
	require.NoError(t, err)

	proposal, err := env.proposals.GetProposal(env.db, vaultAddr, propID)
	require.NoError(t, err)
	assert.Equal(t, ProposalState_CANCELLED, proposal.State)

	// Cancelled is terminal.
	_, err = env.cancel.Deliver(env.ctx(alice), env.db, cancelTx)
	assert.True(t, ErrAlreadyExecuted.Is(err))
	approveTx := &coffertest.Tx{Msg: &ApproveMsg{Vault: vaultAddr, ProposalID: propID}}
	_, err = env.approve.Deliver(env.ctx(alice), env.db, approveTx)
	assert.True(t, ErrAlreadyExecuted.Is(err))
	executeTx := &coffertest.Tx{Msg: &ExecuteMsg{Vault: vaultAddr, ProposalID: propID, To: dest}}
	_, err = env.execute.Deliver(env.ctx(alice), env.db, executeTx)
	assert.True(t, ErrAlreadyExecuted.Is(err))

	// Funds were never moved.
	balance, err := env.control.Balance(env.db, vaultAddr)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(500), balance)
}

func TestDepositHandler(t *testing.T) {
	env := newTestEnv(t)
	alice := coffertest.NewCondition()
	donor := coffertest.NewCondition()

	vaultAddr := env.newVault(t, 1, 0, alice)
	require.NoError(t, env.control.IssueCoins(env.db, donor.Address(), coin.NewCoin(300)))

	// Depositing does not require vault membership.
	tx := &coffertest.Tx{Msg: &DepositMsg{Vault: vaultAddr, Amount: coin.NewCoin(120)}}
	_, err := env.deposit.Deliver(env.ctx(donor), env.db, tx)
	require.NoError(t, err)

	balance, err := env.control.Balance(env.db, vaultAddr)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(120), balance)
	balance, err = env.control.Balance(env.db, donor.Address())
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(180), balance)

	// Deposits to an unallocated address must not burn the funds.
	missing := coffertest.NewAddress()
	tx = &coffertest.Tx{Msg: &DepositMsg{Vault: missing, Amount: coin.NewCoin(10)}}
	_, err = env.deposit.Deliver(env.ctx(donor), env.db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))

	// Insufficient depositor funds surface from the balance book.
	tx = &coffertest.Tx{Msg: &DepositMsg{Vault: vaultAddr, Amount: coin.NewCoin(1000)}}
	_, err = env.deposit.Deliver(env.ctx(donor), env.db, tx)
	assert.Error(t, err)
}

func TestMinimumReserve(t *testing.T) {
	alice := coffertest.NewAddress()
	bob := coffertest.NewAddress()
	vault := &Vault{Owners: []coffer.Address{alice, bob}, Threshold: 2}

	conf := Config{BaseReserve: coin.NewCoin(25), ReservePerByte: coin.NewCoin(0)}
	reserve, err := minimumReserve(conf, vault)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(25), reserve)

	// With per byte pricing the reserve grows with the vault footprint.
	conf = Config{BaseReserve: coin.NewCoin(25), ReservePerByte: coin.NewCoin(2)}
	reserve, err = minimumReserve(conf, vault)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(25+2*uint64(vault.Size())), reserve)

	bigger := &Vault{Owners: []coffer.Address{alice, bob, coffertest.NewAddress()}, Threshold: 2}
	biggerReserve, err := minimumReserve(conf, bigger)
	require.NoError(t, err)
	assert.True(t, biggerReserve.Compare(reserve) > 0)
}
