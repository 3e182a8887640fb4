// Package invite runs one text-to-calendar request: extract the event,
// write the calendar file, hand it to the OS and report the outcome.
package invite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"icalgen/internal/config"
	"icalgen/internal/extract"
	"icalgen/internal/ics"
	appLog "icalgen/internal/log"
	"icalgen/internal/model"
	"icalgen/internal/opener"
)

// User-facing messages. Underlying errors are logged, never shown.
const (
	MsgInputRequired = "Input required"
	MsgFailed        = "Failed to create event"
	MsgError         = "An error occurred while processing the event."
)

// Writer stores a calendar file for an event and returns its path.
type Writer interface {
	Write(ctx context.Context, d model.EventDetails) (string, error)
}

// Opener hands a written file to the OS.
type Opener interface {
	Open(path string) error
}

// Outcome is the result of Create, ready to be shown to the user.
type Outcome struct {
	OK      bool                `json:"ok"`
	Message string              `json:"message"`
	Path    string              `json:"path,omitempty"`
	Opened  bool                `json:"opened"`
	Event   *model.EventDetails `json:"event,omitempty"`
}

// Service wires an extractor, a writer and an optional opener.
type Service struct {
	extractor extract.Extractor
	writer    Writer
	opener    Opener // nil disables opening
	now       func() time.Time
	loc       *time.Location
}

// NewService builds a Service from its parts. A nil opener means files are
// written but never opened.
func NewService(ext extract.Extractor, w Writer, op Opener, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		extractor: ext,
		writer:    w,
		opener:    op,
		now:       time.Now,
		loc:       loc,
	}
}

// New builds the production Service described by cfg.
func New(cfg *config.Config) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	ext, err := extract.New(cfg.Mode, extract.Options{
		Location:        loc,
		DefaultDuration: cfg.DefaultDuration,
		DefaultTitle:    cfg.DefaultTitle,
		FallbackToNow:   cfg.FallbackToNow,
		DateOrder:       cfg.DateOrder,
	})
	if err != nil {
		return nil, err
	}

	w := ics.NewWriter(ics.WriterConfig{
		CalendarName: cfg.CalendarName,
		Location:     loc,
		OutputDir:    cfg.ResolvedOutputDir(),
	})

	var op Opener
	if cfg.Open {
		o, err := opener.New(cfg.OpenCommand)
		if err != nil {
			return nil, err
		}
		op = o
	}

	return NewService(ext, w, op, loc), nil
}

// Preview extracts event details without writing anything.
func (s *Service) Preview(input string) (model.EventDetails, error) {
	return s.extractor.Extract(input, s.now().In(s.loc))
}

// Create turns input into a calendar file and opens it. The returned
// Outcome is always filled in; err carries the underlying cause on failure.
func (s *Service) Create(ctx context.Context, input string) (Outcome, error) {
	if strings.TrimSpace(input) == "" {
		appLog.Error("invite: empty input", extract.ErrEmptyInput)
		return Outcome{Message: MsgInputRequired}, extract.ErrEmptyInput
	}

	d, err := s.Preview(input)
	if err != nil {
		appLog.Error("invite: extraction failed", err, "input_len", len(input))
		msg := MsgError
		if errors.Is(err, extract.ErrEmptyInput) {
			msg = MsgInputRequired
		} else if errors.Is(err, extract.ErrNoDate) || errors.Is(err, extract.ErrNoTitle) {
			msg = MsgFailed
		}
		return Outcome{Message: msg}, fmt.Errorf("invite: extract: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return Outcome{Message: MsgError, Event: &d}, err
	}

	path, err := s.writer.Write(ctx, d)
	if err != nil {
		appLog.Error("invite: write failed", err, "title", d.Title)
		return Outcome{Message: MsgError, Event: &d}, fmt.Errorf("invite: write: %w", err)
	}

	out := Outcome{OK: true, Path: path, Event: &d}
	if s.opener != nil {
		if err := s.opener.Open(path); err != nil {
			appLog.Error("invite: open failed", err, "path", path)
			return Outcome{Message: MsgError, Path: path, Event: &d}, fmt.Errorf("invite: open: %w", err)
		}
		out.Opened = true
	}

	out.Message = successMessage(d)
	appLog.Info("event created", "title", d.Title, "path", path, "opened", out.Opened)
	return out, nil
}

func successMessage(d model.EventDetails) string {
	if d.Location == "" {
		return fmt.Sprintf("Added %q to your calendar.", d.Title)
	}
	return fmt.Sprintf("Added %q to your calendar with location %q.", d.Title, d.Location)
}
