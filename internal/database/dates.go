package database

import (
	"context"
	"fmt"

	"github.com/AlexTLDR/yuruly/internal/poll"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AddEventDate adds a candidate date to an existing event. Existing responses
// keep their answers; they simply have none for the new date.
func (db *DB) AddEventDate(ctx context.Context, eventID string, d NewDate) (*poll.CandidateDate, error) {
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	dateID := uuid.NewString()
	err := db.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := db.requireEvent(ctx, tx, eventID); err != nil {
			return err
		}

		var next int
		err := tx.GetContext(ctx, &next, db.Rebind(
			`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM event_dates WHERE event_id = ?`), eventID)
		if err != nil {
			return fmt.Errorf("failed to get date order: %w", err)
		}

		return db.insertDate(ctx, tx, eventID, dateID, d, next)
	})
	if err != nil {
		return nil, err
	}

	return &poll.CandidateDate{ID: dateID, EventID: eventID, Date: d.Date, TimeSlot: d.TimeSlot}, nil
}

// DeleteEventDate removes a candidate date of the event and every answer for it
func (db *DB) DeleteEventDate(ctx context.Context, eventID, dateID string) error {
	return db.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		err := tx.GetContext(ctx, &exists, db.Rebind(
			`SELECT EXISTS(SELECT 1 FROM event_dates WHERE id = ? AND event_id = ?)`), dateID, eventID)
		if err != nil {
			return fmt.Errorf("failed to check event date: %w", err)
		}
		if !exists {
			return fmt.Errorf("event date %s: %w", dateID, ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, db.Rebind(`DELETE FROM response_answers WHERE event_date_id = ?`), dateID); err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}

		if _, err := tx.ExecContext(ctx, db.Rebind(`DELETE FROM event_dates WHERE id = ?`), dateID); err != nil {
			return fmt.Errorf("failed to delete event date: %w", err)
		}
		return nil
	})
}

func (db *DB) requireEvent(ctx context.Context, tx *sqlx.Tx, eventID string) error {
	var exists bool
	err := tx.GetContext(ctx, &exists, db.Rebind(
		`SELECT EXISTS(SELECT 1 FROM events WHERE id = ?)`), eventID)
	if err != nil {
		return fmt.Errorf("failed to check event: %w", err)
	}
	if !exists {
		return fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	return nil
}
