/*
Package vault implements the custodial fund-control engine.

A vault is a pool of value jointly controlled by a set of owners. Any
transfer out of the pool is a proposal that must collect a quorum of
distinct owner approvals before anyone may execute it. Deposits are
open to everyone; cancellation is a terminal alternative to execution.

The package relies on the surrounding engine for atomic per-request
commit and authenticated signers. It performs no locking of its own:
the proposal state flag together with all-or-nothing delivery is what
serializes concurrent execution attempts.
*/
package vault
