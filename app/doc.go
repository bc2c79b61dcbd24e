/*
Package app assembles the pieces of the engine into a runnable whole: a
Router directing messages to their handlers, a decorator chain wrapping
every request, and CofferApp applying each transaction atomically on
top of a cacheable store.
*/
package app
