package app

import (
	"fmt"
	"regexp"

	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/errors"
)

// isPath ensures path in the form <extension>/<action>
var isPath = regexp.MustCompile(`^[a-z]+(/[a-z0-9_]+)*$`).MatchString

// Router maps message paths to their handlers.
type Router struct {
	handlers map[string]coffer.Handler
}

var _ coffer.Registry = (*Router)(nil)
var _ coffer.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]coffer.Handler),
	}
}

// Handle implements coffer.Registry interface. All requests carrying
// given message type are passed to the provided handler.
func (r *Router) Handle(m coffer.Msg, h coffer.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.handlers[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.handlers[path] = h
}

// handler returns the registered Handler for this message. Always
// returns a non-nil handler so that the caller does not have to branch.
func (r *Router) handler(m coffer.Msg) coffer.Handler {
	if h, ok := r.handlers[m.Path()]; ok {
		return h
	}
	return notFoundHandler(m.Path())
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Deliver(ctx, db, tx)
}

// notFoundHandler always returns ErrNotFound, paired with the path that
// could not be resolved.
type notFoundHandler string

var _ coffer.Handler = notFoundHandler("")

func (path notFoundHandler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
