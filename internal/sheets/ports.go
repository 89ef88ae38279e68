package sheets

import (
	"context"

	"feetracker/internal/core"
)

// FeeRow is one exported row of the fee mirror: the record joined with its
// student's display fields at publish time.
type FeeRow struct {
	StudentName string
	Class       string
	Record      core.FeeRecord
}

// Ports for outbound adapters.
type (
	// FeeWriter appends one fee row to the mirror and returns an opaque row
	// reference.
	FeeWriter interface {
		Append(ctx context.Context, row FeeRow) (rowRef string, err error)
	}
)
