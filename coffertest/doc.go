/*
Package coffertest provides mocks and helpers shared by tests across
the repository.
*/
package coffertest
