package store

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig means the store URI was rejected before any I/O happened.
var ErrInvalidConfig = errors.New("invalid store configuration")

// errNotConnected is returned by View/Update when no live handle exists.
var errNotConnected = errors.New("store not connected")

// ConnectionError wraps the last underlying failure after the connect retry
// budget is exhausted, or marks an operation attempted without a connection.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IsConnectionError reports whether err is (or wraps) a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
