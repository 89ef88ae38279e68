// Package services ties ledger mutations to the outbound event stream.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"feetracker/internal/core"
	"feetracker/internal/ledger"
)

// Publisher is the outbound event stream; nil disables publishing entirely.
type Publisher interface {
	PublishFeeSync(ctx context.Context, recordID string) error
	Close() error
}

// FeeService records fee payments in the ledger and announces successful
// writes on the event stream. Publish failures are logged, never surfaced:
// the ledger write already committed and stays authoritative.
type FeeService struct {
	ledger    *ledger.Ledger
	publisher Publisher
}

func NewFeeService(l *ledger.Ledger, publisher Publisher) *FeeService {
	return &FeeService{ledger: l, publisher: publisher}
}

// RecordFee runs the add-or-update operation and publishes the change.
func (s *FeeService) RecordFee(ctx context.Context, in ledger.FeeInput, confirm ledger.ConfirmOverwrite) (core.FeeRecord, error) {
	record, err := s.ledger.AddOrUpdateFeeRecord(ctx, in, confirm)
	if err != nil {
		return record, err
	}
	s.publish(ctx, record.ID)
	return record, nil
}

// UpdateFee runs the direct update operation and publishes the change.
func (s *FeeService) UpdateFee(ctx context.Context, id string, in ledger.FeeInput) (core.FeeRecord, error) {
	record, err := s.ledger.UpdateFeeRecord(ctx, id, in)
	if err != nil {
		return record, err
	}
	s.publish(ctx, record.ID)
	return record, nil
}

func (s *FeeService) publish(ctx context.Context, recordID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishFeeSync(ctx, recordID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish fee sync message",
			"record_id", recordID, "error", err)
	}
}

// Close releases the publisher connection if one is attached.
func (s *FeeService) Close() error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}
