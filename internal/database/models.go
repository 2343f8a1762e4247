package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AlexTLDR/yuruly/internal/poll"
	"github.com/AlexTLDR/yuruly/internal/utils"
	"go.uber.org/multierr"
)

type Event struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	Dates       []poll.CandidateDate `json:"dates"`
}

// NewDate is a candidate date as submitted by the organizer
type NewDate struct {
	Date     string        `json:"date"`
	TimeSlot poll.TimeSlot `json:"time_slot"`
}

func (d *NewDate) validate() error {
	// A date posted without a time slot is all day
	if d.TimeSlot == (poll.TimeSlot{}) {
		d.TimeSlot = poll.AllDay()
	}

	var errs error
	if _, err := time.Parse(poll.DateLayout, d.Date); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("invalid date %q: want YYYY-MM-DD", d.Date))
	}
	if err := d.TimeSlot.Validate(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("date %s: %w", d.Date, err))
	}
	return errs
}

type NewEvent struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Dates       []NewDate `json:"dates"`
}

// Validate normalizes the text fields and checks the whole event, reporting
// every problem at once
func (e *NewEvent) Validate() error {
	e.Title = utils.NormalizeName(e.Title)
	e.Description = utils.NormalizeText(e.Description)

	var errs error
	if e.Title == "" {
		errs = multierr.Append(errs, fmt.Errorf("title is required"))
	}
	if len(e.Dates) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("at least one date is required"))
	}
	for i := range e.Dates {
		errs = multierr.Append(errs, e.Dates[i].validate())
	}

	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errs)
	}
	return nil
}

// ResponseInput is an invitee's submission. Choices maps candidate date ids
// to statuses; dates without a choice are stored as no.
type ResponseInput struct {
	Name    string                 `json:"name"`
	Comment string                 `json:"comment"`
	Choices map[string]poll.Status `json:"answers"`
}

func (in *ResponseInput) Validate() error {
	in.Name = utils.NormalizeName(in.Name)
	in.Comment = utils.NormalizeText(in.Comment)

	var errs error
	if in.Name == "" {
		errs = multierr.Append(errs, fmt.Errorf("name is required"))
	}
	for dateID, status := range in.Choices {
		if _, err := poll.ParseStatus(string(status)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("date %s: %w", dateID, err))
		}
	}

	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errs)
	}
	return nil
}

// CreatedEvent is returned once on creation; the plain admin token is not
// stored anywhere
type CreatedEvent struct {
	Event      *Event
	AdminToken string
}

type eventRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
}

type dateRow struct {
	ID        string         `db:"id"`
	EventID   string         `db:"event_id"`
	Date      string         `db:"calendar_date"`
	TimeType  string         `db:"time_type"`
	RoughTime sql.NullString `db:"rough_time"`
	StartTime sql.NullString `db:"start_time"`
	EndTime   sql.NullString `db:"end_time"`
}

func (r dateRow) candidateDate() poll.CandidateDate {
	d := poll.CandidateDate{ID: r.ID, EventID: r.EventID, Date: r.Date}
	switch poll.TimeType(r.TimeType) {
	case poll.TimeRough:
		d.TimeSlot = poll.RoughTime(poll.RoughSlot(r.RoughTime.String))
	case poll.TimeDetailed:
		d.TimeSlot = poll.DetailedTime(r.StartTime.String, r.EndTime.String)
	default:
		d.TimeSlot = poll.AllDay()
	}
	return d
}

type responseRow struct {
	ID        string         `db:"id"`
	EventID   string         `db:"event_id"`
	Name      string         `db:"name"`
	Comment   sql.NullString `db:"comment"`
	CreatedAt time.Time      `db:"created_at"`
}

type answerRow struct {
	ResponseID  string `db:"response_id"`
	EventDateID string `db:"event_date_id"`
	Status      string `db:"status"`
}

// nullable maps empty strings to SQL NULL
func nullable(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
