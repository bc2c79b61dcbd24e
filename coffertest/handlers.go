package coffertest

import "github.com/coffer-io/coffer"

// Handler is a mock implementation of the coffer.Handler interface.
// Each method call is counted.
type Handler struct {
	checkCall   int
	CheckResult coffer.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult coffer.DeliverResult
	DeliverErr    error
}

var _ coffer.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
