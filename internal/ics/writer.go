package ics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	appLog "icalgen/internal/log"
	"icalgen/internal/model"
)

const (
	DefaultProductID = "-//icalgen//Event Generator//EN"

	localTimestamp = "20060102T150405"
	maxFileStem    = 80
	fallbackStem   = "event"
)

// WriterConfig configures calendar generation.
type WriterConfig struct {
	// CalendarName is emitted as X-WR-CALNAME.
	CalendarName string
	// Location is the zone DTSTART/DTEND are written in (as TZID).
	// Nil means UTC timestamps.
	Location *time.Location
	// OutputDir receives the .ics files. Empty means os.TempDir().
	OutputDir string
	// ProductID is emitted as PRODID. Empty means DefaultProductID.
	ProductID string
}

// Writer builds single-event calendars and writes them to disk.
type Writer struct {
	cfg    WriterConfig
	now    func() time.Time
	newUID func() string
}

func NewWriter(cfg WriterConfig) *Writer {
	if cfg.ProductID == "" {
		cfg.ProductID = DefaultProductID
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = os.TempDir()
	}
	return &Writer{
		cfg: cfg,
		now: time.Now,
		newUID: func() string {
			return uuid.New().String() + "@icalgen"
		},
	}
}

// Build assembles a calendar holding one VEVENT for d.
func (w *Writer) Build(d model.EventDetails) (*ical.Calendar, error) {
	if d.Start.IsZero() {
		return nil, errors.New("ics: event has no start time")
	}
	end := d.End
	if end.IsZero() || !end.After(d.Start) {
		end = d.Start.Add(time.Hour)
	}

	cal := ical.NewCalendar()
	cal.SetProductId(w.cfg.ProductID)
	cal.SetMethod(ical.MethodPublish)
	if w.cfg.CalendarName != "" {
		cal.SetXWRCalName(w.cfg.CalendarName)
	}
	if w.cfg.Location != nil {
		cal.SetXWRTimezone(w.cfg.Location.String())
	}

	ev := cal.AddEvent(w.newUID())
	ev.SetDtStampTime(w.now())
	w.setTime(ev, ical.ComponentPropertyDtStart, d.Start)
	w.setTime(ev, ical.ComponentPropertyDtEnd, end)
	ev.SetSummary(d.Title)
	if d.Location != "" {
		ev.SetLocation(d.Location)
	}
	if desc := description(d); desc != "" {
		ev.SetDescription(desc)
	}
	if d.MeetingURL != "" {
		ev.SetURL(d.MeetingURL)
	}

	if d.Recurrence != nil {
		rule, err := RRule(d.Recurrence)
		if err != nil {
			return nil, err
		}
		ev.AddRrule(rule)
	}

	return cal, nil
}

// setTime writes a local timestamp with TZID, or UTC when no zone is set.
func (w *Writer) setTime(ev *ical.VEvent, prop ical.ComponentProperty, t time.Time) {
	if w.cfg.Location == nil {
		ev.SetProperty(prop, t.UTC().Format(localTimestamp+"Z"))
		return
	}
	tzid := &ical.KeyValues{Key: string(ical.ParameterTzid), Value: []string{w.cfg.Location.String()}}
	ev.SetProperty(prop, t.In(w.cfg.Location).Format(localTimestamp), tzid)
}

// description is the original text, with the meeting link appended when
// it is not already part of it.
func description(d model.EventDetails) string {
	desc := d.Notes
	if d.MeetingURL != "" && !strings.Contains(desc, d.MeetingURL) {
		if desc != "" {
			desc += "\n\n"
		}
		desc += "Join: " + d.MeetingURL
	}
	return desc
}

// Serialize returns the calendar-file text for d.
func (w *Writer) Serialize(d model.EventDetails) (string, error) {
	cal, err := w.Build(d)
	if err != nil {
		return "", err
	}
	return cal.Serialize(), nil
}

// Write serializes d and stores it under OutputDir as FileName(d.Title).
// An existing file with the same name is replaced.
func (w *Writer) Write(ctx context.Context, d model.EventDetails) (string, error) {
	body, err := w.Serialize(d)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(w.cfg.OutputDir, FileName(d.Title))
	if err := writeAtomic(path, []byte(body)); err != nil {
		return "", fmt.Errorf("ics: write %s: %w", path, err)
	}

	appLog.Info("calendar file written", "path", path, "bytes", len(body))
	return path, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".icalgen-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var (
	unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9\s-]`)
	fileSpaces      = regexp.MustCompile(`\s+`)
)

// FileName derives "<stem>.ics" from a title: characters other than ASCII
// letters, digits, whitespace and hyphens are dropped and whitespace runs
// become underscores.
func FileName(title string) string {
	stem := unsafeFileChars.ReplaceAllString(title, "")
	stem = strings.TrimSpace(stem)
	stem = fileSpaces.ReplaceAllString(stem, "_")
	if len(stem) > maxFileStem {
		stem = strings.TrimRight(stem[:maxFileStem], "_-")
	}
	if stem == "" {
		stem = fallbackStem
	}
	return stem + ".ics"
}

var weekdays = map[string]rrule.Weekday{
	"MO": rrule.MO,
	"TU": rrule.TU,
	"WE": rrule.WE,
	"TH": rrule.TH,
	"FR": rrule.FR,
	"SA": rrule.SA,
	"SU": rrule.SU,
}

// RRule renders rec as an RFC 5545 RRULE value (without the "RRULE:"
// prefix), validated through rrule-go.
func RRule(rec *model.Recurrence) (string, error) {
	if rec == nil {
		return "", errors.New("ics: nil recurrence")
	}
	freq, err := rrule.StrToFreq(strings.ToUpper(rec.Freq))
	if err != nil {
		return "", fmt.Errorf("ics: recurrence frequency %q: %w", rec.Freq, err)
	}

	opt := rrule.ROption{Freq: freq, Interval: rec.Interval}
	if opt.Interval < 1 {
		opt.Interval = 1
	}
	for _, code := range rec.ByDay {
		wd, ok := weekdays[strings.ToUpper(code)]
		if !ok {
			return "", fmt.Errorf("ics: unknown weekday %q", code)
		}
		opt.Byweekday = append(opt.Byweekday, wd)
	}

	if _, err := rrule.NewRRule(opt); err != nil {
		return "", fmt.Errorf("ics: invalid recurrence: %w", err)
	}
	return opt.RRuleString(), nil
}
