package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AlexTLDR/yuruly/internal/poll"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreateResponse stores a response with one answer per current candidate date
func (db *DB) CreateResponse(ctx context.Context, eventID string, in ResponseInput) (*poll.Response, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	responseID := uuid.NewString()
	err := db.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := db.requireEvent(ctx, tx, eventID); err != nil {
			return err
		}

		now := time.Now().UTC()
		_, err := tx.ExecContext(ctx, db.Rebind(
			`INSERT INTO responses (id, event_id, name, comment, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`),
			responseID, eventID, in.Name, nullable(in.Comment), now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to create response: %w", err)
		}

		return db.writeAnswers(ctx, tx, eventID, responseID, in.Choices)
	})
	if err != nil {
		return nil, err
	}

	return db.GetResponse(ctx, eventID, responseID)
}

// UpdateResponse replaces a response's name, comment and its whole answer set
func (db *DB) UpdateResponse(ctx context.Context, eventID, responseID string, in ResponseInput) (*poll.Response, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	err := db.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, db.Rebind(
			`UPDATE responses SET name = ?, comment = ?, updated_at = ? WHERE id = ? AND event_id = ?`),
			in.Name, nullable(in.Comment), time.Now().UTC(), responseID, eventID,
		)
		if err != nil {
			return fmt.Errorf("failed to update response: %w", err)
		}
		if err := requireAffected(result, "response "+responseID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, db.Rebind(`DELETE FROM response_answers WHERE response_id = ?`), responseID); err != nil {
			return fmt.Errorf("failed to delete previous answers: %w", err)
		}

		return db.writeAnswers(ctx, tx, eventID, responseID, in.Choices)
	})
	if err != nil {
		return nil, err
	}

	return db.GetResponse(ctx, eventID, responseID)
}

// writeAnswers inserts a full answer set covering the event's current dates
func (db *DB) writeAnswers(ctx context.Context, tx *sqlx.Tx, eventID, responseID string, choices map[string]poll.Status) error {
	dates, err := db.listDates(ctx, tx, eventID)
	if err != nil {
		return err
	}

	for _, a := range poll.FillAnswers(dates, choices) {
		_, err := tx.ExecContext(ctx, db.Rebind(
			`INSERT INTO response_answers (response_id, event_date_id, status) VALUES (?, ?, ?)`),
			responseID, a.EventDateID, string(a.Status),
		)
		if err != nil {
			return fmt.Errorf("failed to save answer: %w", err)
		}
	}
	return nil
}

// GetResponse retrieves one response of an event with its answers
func (db *DB) GetResponse(ctx context.Context, eventID, responseID string) (*poll.Response, error) {
	var row responseRow
	err := db.GetContext(ctx, &row, db.Rebind(
		`SELECT id, event_id, name, comment, created_at FROM responses WHERE id = ? AND event_id = ?`),
		responseID, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("response %s: %w", responseID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %w", err)
	}

	var answers []answerRow
	err = db.SelectContext(ctx, &answers, db.Rebind(
		`SELECT response_id, event_date_id, status FROM response_answers WHERE response_id = ?`), responseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	resp := row.response()
	for _, a := range answers {
		resp.Answers = append(resp.Answers, poll.Answer{EventDateID: a.EventDateID, Status: poll.Status(a.Status)})
	}
	return &resp, nil
}

// ListResponses retrieves all responses of an event, oldest first, with answers
func (db *DB) ListResponses(ctx context.Context, eventID string) ([]poll.Response, error) {
	var rows []responseRow
	err := db.SelectContext(ctx, &rows, db.Rebind(
		`SELECT id, event_id, name, comment, created_at FROM responses
		 WHERE event_id = ? ORDER BY created_at ASC, id ASC`), eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}

	var answers []answerRow
	err = db.SelectContext(ctx, &answers, db.Rebind(
		`SELECT ra.response_id, ra.event_date_id, ra.status
		 FROM response_answers ra
		 JOIN responses r ON r.id = ra.response_id
		 WHERE r.event_id = ?`), eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	byResponse := make(map[string][]poll.Answer, len(rows))
	for _, a := range answers {
		byResponse[a.ResponseID] = append(byResponse[a.ResponseID], poll.Answer{
			EventDateID: a.EventDateID,
			Status:      poll.Status(a.Status),
		})
	}

	responses := make([]poll.Response, 0, len(rows))
	for _, r := range rows {
		resp := r.response()
		if a, ok := byResponse[r.ID]; ok {
			resp.Answers = a
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (r responseRow) response() poll.Response {
	return poll.Response{
		ID:        r.ID,
		EventID:   r.EventID,
		Name:      r.Name,
		Comment:   r.Comment.String,
		CreatedAt: r.CreatedAt,
		Answers:   []poll.Answer{},
	}
}
