/*
Package coffer defines the common interfaces that tie the engine together:
transactions and messages, handlers and decorators, the key-value storage
contracts, and identity primitives (conditions and addresses).

Every state transition enters the system as a Tx carrying exactly one Msg.
The app layer routes the Msg to a Handler by its path and applies the
Handler on an isolated cache-wrap of the store, so a request either commits
completely or leaves no trace. Extensions live under x/ and only ever talk
to these interfaces.

Context is passed as context.Context between the app, decorators and
handlers. For every value XYZ of type T carried on the context there are two
functions:

  WithXYZ(Context, T) Context
  GetXYZ(Context) T
*/
package coffer
