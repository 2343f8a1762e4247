package database

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/AlexTLDR/yuruly/internal/poll"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-retry"
	"golang.org/x/crypto/bcrypt"
)

const maxRetries = 5

func GenerateToken() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// CreateEvent creates an event with its candidate dates and a fresh admin token
func (db *DB) CreateEvent(ctx context.Context, in NewEvent) (*CreatedEvent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(token), db.tokenCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin token: %w", err)
	}

	var eventID string
	backoff := retry.WithMaxRetries(maxRetries-1, retry.NewConstant(10*time.Millisecond))

	// Retry with fresh ids if one collides
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		eventID = uuid.NewString()
		err := db.inTx(ctx, func(tx *sqlx.Tx) error {
			return db.insertEvent(ctx, tx, eventID, in, string(hash))
		})
		if isUniqueViolation(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	event, err := db.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &CreatedEvent{Event: event, AdminToken: token}, nil
}

func (db *DB) insertEvent(ctx context.Context, tx *sqlx.Tx, eventID string, in NewEvent, hash string) error {
	_, err := tx.ExecContext(ctx, db.Rebind(
		`INSERT INTO events (id, title, description, admin_token_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`),
		eventID, in.Title, nullable(in.Description), hash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	for i, d := range in.Dates {
		if err := db.insertDate(ctx, tx, eventID, uuid.NewString(), d, i); err != nil {
			return err
		}
	}

	return nil
}

func (db *DB) insertDate(ctx context.Context, tx *sqlx.Tx, eventID, dateID string, d NewDate, order int) error {
	_, err := tx.ExecContext(ctx, db.Rebind(
		`INSERT INTO event_dates (id, event_id, calendar_date, time_type, rough_time, start_time, end_time, sort_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		dateID, eventID, d.Date, string(d.TimeSlot.Type),
		nullable(string(d.TimeSlot.Rough)), nullable(d.TimeSlot.Start), nullable(d.TimeSlot.End), order,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event date: %w", err)
	}
	return nil
}

// GetEvent retrieves an event with its dates ordered by calendar date
func (db *DB) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	var row eventRow
	err := db.GetContext(ctx, &row, db.Rebind(
		`SELECT id, title, description, created_at FROM events WHERE id = ?`), eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	dates, err := db.listDates(ctx, db.DB, eventID)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description.String,
		CreatedAt:   row.CreatedAt,
		Dates:       dates,
	}, nil
}

func (db *DB) listDates(ctx context.Context, q sqlx.QueryerContext, eventID string) ([]poll.CandidateDate, error) {
	var rows []dateRow
	err := sqlx.SelectContext(ctx, q, &rows, db.Rebind(
		`SELECT id, event_id, calendar_date, time_type, rough_time, start_time, end_time
		 FROM event_dates WHERE event_id = ?
		 ORDER BY calendar_date ASC, sort_order ASC`), eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event dates: %w", err)
	}

	dates := make([]poll.CandidateDate, 0, len(rows))
	for _, r := range rows {
		dates = append(dates, r.candidateDate())
	}
	return dates, nil
}

// VerifyAdminToken checks token against the stored hash of the event
func (db *DB) VerifyAdminToken(ctx context.Context, eventID, token string) error {
	var hash string
	err := db.GetContext(ctx, &hash, db.Rebind(
		`SELECT admin_token_hash FROM events WHERE id = ?`), eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get admin token: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// DeleteEvent deletes an event with all its dates, responses and answers
func (db *DB) DeleteEvent(ctx context.Context, eventID string) error {
	return db.inTx(ctx, func(tx *sqlx.Tx) error {
		// Delete answers first
		_, err := tx.ExecContext(ctx, db.Rebind(
			`DELETE FROM response_answers
			 WHERE response_id IN (SELECT id FROM responses WHERE event_id = ?)
			    OR event_date_id IN (SELECT id FROM event_dates WHERE event_id = ?)`),
			eventID, eventID)
		if err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}

		if _, err := tx.ExecContext(ctx, db.Rebind(`DELETE FROM responses WHERE event_id = ?`), eventID); err != nil {
			return fmt.Errorf("failed to delete responses: %w", err)
		}

		if _, err := tx.ExecContext(ctx, db.Rebind(`DELETE FROM event_dates WHERE event_id = ?`), eventID); err != nil {
			return fmt.Errorf("failed to delete event dates: %w", err)
		}

		result, err := tx.ExecContext(ctx, db.Rebind(`DELETE FROM events WHERE id = ?`), eventID)
		if err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return requireAffected(result, "event "+eventID)
	})
}

func requireAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
