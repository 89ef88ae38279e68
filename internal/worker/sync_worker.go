// Package worker runs the fee-mirror loop behind cmd/feetracker-worker: it
// consumes fee-change events and appends the current record state to the
// configured sheet writer.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"feetracker/internal/amqp"
	"feetracker/internal/export"
	"feetracker/internal/ledger"
	"feetracker/internal/sheets"
)

// SyncWorker resolves each announced record against a fresh ledger load so
// the mirrored row always reflects current state, not the state at publish
// time.
type SyncWorker struct {
	ledger *ledger.Ledger
	writer sheets.FeeWriter
	events *amqp.Client
}

func NewSyncWorker(l *ledger.Ledger, writer sheets.FeeWriter, events *amqp.Client) *SyncWorker {
	return &SyncWorker{ledger: l, writer: writer, events: events}
}

// Run consumes fee-change events until ctx is canceled.
func (w *SyncWorker) Run(ctx context.Context) error {
	return w.events.ConsumeFeeSync(ctx, func(msg *amqp.FeeSyncMessage) error {
		return w.handle(ctx, msg)
	})
}

func (w *SyncWorker) handle(ctx context.Context, msg *amqp.FeeSyncMessage) error {
	// Re-read the blobs so an overwritten record mirrors its latest fields.
	if err := w.ledger.Load(ctx); err != nil {
		return fmt.Errorf("reload ledger: %w", err)
	}

	record, ok := w.ledger.FeeRecord(msg.RecordID)
	if !ok {
		// Cascade-deleted since publish; nothing left to mirror.
		slog.InfoContext(ctx, "Fee record gone, skipping mirror", "record_id", msg.RecordID)
		return nil
	}

	row := sheets.FeeRow{
		StudentName: export.UnknownStudentName,
		Class:       export.UnknownStudentName,
		Record:      record,
	}
	if student, ok := w.ledger.Student(record.StudentID); ok {
		row.StudentName = student.Name
		row.Class = student.Class
	}

	ref, err := w.writer.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("append fee row: %w", err)
	}

	slog.InfoContext(ctx, "Fee record mirrored",
		"record_id", record.ID,
		"student", row.StudentName,
		"row_ref", ref)
	return nil
}
