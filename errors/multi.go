package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If given error implements unpacker interface, it is flattened. All
// represented errors are directly included into the result set rather than
// through the parent error that they are grouped by.
func Append(errs ...error) error {
	var res multiError
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		if u, ok := err.(unpacker); ok {
			res = append(res, u.Unpack()...)
		} else {
			res = append(res, err)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	if e, ok := err.(*Error); ok {
		return e == nil
	}
	return false
}

// multiError represents a group of errors. It is a result of combining many
// errors into one.
type multiError []error

var _ unpacker = (multiError)(nil)

type unpacker interface {
	Unpack() []error
}

// Unpack implements unpacker interface.
func (e multiError) Unpack() []error {
	return e
}

func (e multiError) Error() string {
	switch len(e) {
	case 0:
		return "<nil>"
	case 1:
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(e), strings.Join(msgs, "\n\t"))
}

// Cause of a group of errors is the first error in the set, consistent with
// the fail-fast approach of request validation.
func (e multiError) Cause() error {
	if len(e) == 0 {
		return nil
	}
	if c, ok := e[0].(causer); ok {
		return c.Cause()
	}
	return e[0]
}
