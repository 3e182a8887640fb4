package model

import "time"

// Frequency values follow RFC 5545 FREQ names.
const (
	FreqDaily   = "DAILY"
	FreqWeekly  = "WEEKLY"
	FreqMonthly = "MONTHLY"
	FreqYearly  = "YEARLY"
)

// Recurrence is the repeat rule pulled out of phrases like "every Wednesday".
type Recurrence struct {
	Freq     string   `json:"freq"`
	Interval int      `json:"interval"`
	ByDay    []string `json:"by_day,omitempty"` // two-letter codes: MO, TU, ...
}

// EventDetails is everything extracted from one piece of free text.
// It is built once per invocation and not mutated afterwards.
type EventDetails struct {
	Title      string      `json:"title"`
	Start      time.Time   `json:"start"`
	End        time.Time   `json:"end"`
	Location   string      `json:"location,omitempty"`
	Notes      string      `json:"notes,omitempty"`
	MeetingURL string      `json:"meeting_url,omitempty"`
	Recurrence *Recurrence `json:"recurrence,omitempty"`
}

// Occurrence is a single concrete instance of an event read back from a
// calendar file (after recurrence expansion and timezone normalization).
type Occurrence struct {
	UID string

	// InstanceKey identifies one occurrence of a recurring event,
	// derived from the local start time.
	InstanceKey string

	Summary  string
	Location string
	AllDay   bool

	Start time.Time
	End   time.Time
}
