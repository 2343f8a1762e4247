package poll

import (
	"fmt"
	"time"
)

// Status is an invitee's answer for one candidate date.
type Status string

const (
	Yes   Status = "yes"
	Maybe Status = "maybe"
	No    Status = "no"
)

// ParseStatus validates a raw status value
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case Yes, Maybe, No:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// TimeType tells which time descriptor a candidate date carries.
type TimeType string

const (
	TimeNone     TimeType = "none"
	TimeRough    TimeType = "rough"
	TimeDetailed TimeType = "detailed"
)

// RoughSlot is a coarse part of the day.
type RoughSlot string

const (
	Morning   RoughSlot = "morning"
	Afternoon RoughSlot = "afternoon"
	Evening   RoughSlot = "evening"
	Night     RoughSlot = "night"
)

// TimeSlot is the time descriptor of a candidate date. Exactly one payload is
// populated, matching Type: nothing for none, Rough for rough, Start/End for
// detailed. Use the constructors and Validate to keep that true.
type TimeSlot struct {
	Type  TimeType  `json:"type"`
	Rough RoughSlot `json:"rough,omitempty"`
	Start string    `json:"start,omitempty"`
	End   string    `json:"end,omitempty"`
}

func AllDay() TimeSlot {
	return TimeSlot{Type: TimeNone}
}

func RoughTime(slot RoughSlot) TimeSlot {
	return TimeSlot{Type: TimeRough, Rough: slot}
}

func DetailedTime(start, end string) TimeSlot {
	return TimeSlot{Type: TimeDetailed, Start: start, End: end}
}

// Validate checks that the populated payload matches Type.
func (t TimeSlot) Validate() error {
	switch t.Type {
	case TimeNone:
		if t.Rough != "" || t.Start != "" || t.End != "" {
			return fmt.Errorf("time type none must not carry a time")
		}
	case TimeRough:
		switch t.Rough {
		case Morning, Afternoon, Evening, Night:
		default:
			return fmt.Errorf("invalid rough time %q", t.Rough)
		}
		if t.Start != "" || t.End != "" {
			return fmt.Errorf("rough time must not carry start/end")
		}
	case TimeDetailed:
		if t.Rough != "" {
			return fmt.Errorf("detailed time must not carry a rough time")
		}
		start, err := time.Parse(ClockLayout, t.Start)
		if err != nil {
			return fmt.Errorf("invalid start time %q", t.Start)
		}
		// The end time is optional in the create form.
		if t.End != "" {
			end, err := time.Parse(ClockLayout, t.End)
			if err != nil {
				return fmt.Errorf("invalid end time %q", t.End)
			}
			if end.Before(start) {
				return fmt.Errorf("end time %s is before start time %s", t.End, t.Start)
			}
		}
	default:
		return fmt.Errorf("invalid time type %q", t.Type)
	}
	return nil
}

const (
	// DateLayout is the calendar date format, without any time zone.
	DateLayout = "2006-01-02"
	// ClockLayout is the time-of-day format for detailed slots.
	ClockLayout = "15:04"
)

// CandidateDate is one proposed date of an event.
type CandidateDate struct {
	ID       string   `json:"id"`
	EventID  string   `json:"event_id"`
	Date     string   `json:"date"`
	TimeSlot TimeSlot `json:"time_slot"`
}

// Answer is a response's status for one candidate date.
type Answer struct {
	EventDateID string `json:"event_date_id"`
	Status      Status `json:"status"`
}

// Response is one invitee's submission.
type Response struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Answers   []Answer  `json:"answers"`
}

// StatusFor returns the response's status for a date, defaulting to No when
// the response has no answer for it. The first answer for a date wins.
func (r Response) StatusFor(dateID string) Status {
	for _, a := range r.Answers {
		if a.EventDateID == dateID {
			return a.Status
		}
	}
	return No
}

// FillAnswers builds a full answer set for dates from the explicit choices,
// defaulting every date without a choice to No. Choices for dates not in the
// list are dropped.
func FillAnswers(dates []CandidateDate, choices map[string]Status) []Answer {
	answers := make([]Answer, 0, len(dates))
	for _, d := range dates {
		status, ok := choices[d.ID]
		if !ok || status == "" {
			status = No
		}
		answers = append(answers, Answer{EventDateID: d.ID, Status: status})
	}
	return answers
}
