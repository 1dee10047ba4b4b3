package llvm

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Contract violations.  These are never returned: they are wrapped in a
// ContractError and raised with panic, since they indicate either a bug in the
// caller or a library that does not honour its contract.
var (
	ErrUnknownKind     = errors.New("kind tag outside the known set")
	ErrForeignHandle   = errors.New("handle does not belong to the context")
	ErrKindMismatch    = errors.New("handle is not of the expected kind")
	ErrContextDisposed = errors.New("context has been disposed")
)

// ContractError is the panic value raised on a contract violation.
type ContractError struct {
	// Context identifies the context the violation was detected in.
	Context uuid.UUID

	// Op is the operation that detected the violation.
	Op string

	// Err is one of the Err* sentinels above.
	Err error

	Detail string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("llvm: %s: %s: %s (context %s)", e.Op, e.Err, e.Detail, e.Context)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// violation builds a contract error for the context c.
func violation(c *Context, op string, err error, format string, args ...interface{}) *ContractError {
	return &ContractError{
		Context: c.id,
		Op:      op,
		Err:     err,
		Detail:  fmt.Sprintf(format, args...),
	}
}
