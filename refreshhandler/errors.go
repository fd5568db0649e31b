// refreshhandler/errors.go
package refreshhandler

import (
	"errors"
	"fmt"
)

// ErrMissingRefreshCredential is returned when a refresh cycle starts but the
// credential store holds no refresh credential to trade in.
var ErrMissingRefreshCredential = errors.New("refreshhandler: no refresh credential available")

// StoreError wraps a credential store failure with the operation that failed.
// Store failures are never retried; they surface to the caller of the triggering
// request.
type StoreError struct {
	Op  string // the store operation, e.g. "get refresh credential"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("refreshhandler: credential store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
