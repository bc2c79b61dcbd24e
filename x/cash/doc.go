/*
Package cash keeps the balance book of the application.

Every account is identified by an address and holds an amount of the
native unit. The Controller exposes the only mutations the rest of the
application may perform: moving funds between accounts and issuing new
funds. Balances can never drop below zero.
*/
package cash
