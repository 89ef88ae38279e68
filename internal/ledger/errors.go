package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation wraps every malformed-input failure so callers can match
	// the whole class with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the operation referenced an id with no matching record.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateRollNumber means another student already holds the roll number.
	ErrDuplicateRollNumber = errors.New("duplicate roll number")

	// ErrDuplicateRecord means another fee record already occupies the same
	// (student, month, year) slot on the direct update path.
	ErrDuplicateRecord = errors.New("duplicate fee record for month")

	// ErrOverwriteDeclined means an add collided with an existing record and
	// the caller declined the overwrite. No state was changed.
	ErrOverwriteDeclined = errors.New("overwrite declined")
)

// PersistenceError reports that the external store rejected a write. The
// in-memory mutation that triggered the save is NOT rolled back; memory stays
// the source of truth and the ledger remains usable.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func validationErr(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
