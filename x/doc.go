/*
Package x contains the extensions shared by the application modules.

The sub-packages implement the domain logic (vault, cash) and the
supporting decorators (utils). This top level package holds the
authentication abstraction they all build on.
*/
package x
