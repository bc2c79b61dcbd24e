package vault

import (
	"github.com/coffer-io/coffer/errors"
)

// Codes 100~109 are reserved for the vault package. Every rejected
// precondition surfaces exactly one of these.
var (
	// ErrInvalidThreshold is returned when the threshold is zero or
	// exceeds the owner count.
	ErrInvalidThreshold = errors.Register(100, "invalid threshold")

	// ErrTooManyOwners is returned when the owner set exceeds the limit.
	ErrTooManyOwners = errors.Register(101, "too many owners")

	// ErrNotOwner is returned when the acting party is not a member of
	// the vault owner set.
	ErrNotOwner = errors.Register(102, "not an owner")

	// ErrAlreadyApproved is returned when an owner approves the same
	// proposal a second time.
	ErrAlreadyApproved = errors.Register(103, "already approved")

	// ErrAlreadyExecuted is returned when acting on a proposal that
	// reached a terminal state.
	ErrAlreadyExecuted = errors.Register(104, "already executed")

	// ErrNotEnoughApprovals is returned when execution is attempted
	// before the approval count reached the threshold.
	ErrNotEnoughApprovals = errors.Register(105, "not enough approvals")

	// ErrInsufficientFunds is returned when the transfer would drop the
	// vault balance below its minimum reserve.
	ErrInsufficientFunds = errors.Register(106, "insufficient funds")

	// ErrInvalidVault is returned when the supplied vault does not match
	// the proposal's vault.
	ErrInvalidVault = errors.Register(107, "invalid vault")

	// ErrInvalidDestination is returned when the supplied destination
	// does not match the proposal's destination.
	ErrInvalidDestination = errors.Register(108, "invalid destination")
)
