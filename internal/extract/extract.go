// Package extract turns free text (pasted invites, email snippets, short
// sentences) into model.EventDetails using pattern heuristics and a
// natural-language date parser.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	appLog "icalgen/internal/log"
	"icalgen/internal/model"
)

var (
	ErrEmptyInput = errors.New("input is empty")
	ErrNoDate     = errors.New("could not parse date and time")
	ErrNoTitle    = errors.New("could not determine a title")
)

// Extractor pulls event details out of text. now anchors relative
// expressions such as "tomorrow".
type Extractor interface {
	Extract(input string, now time.Time) (model.EventDetails, error)
}

// Options are shared by all extractor modes.
type Options struct {
	// Location is the zone relative dates are resolved in. Nil means time.Local.
	Location *time.Location

	// DefaultDuration sets End when the text has no end time. Zero means one hour.
	DefaultDuration time.Duration

	// DefaultTitle replaces an empty title. Empty makes that an ErrNoTitle.
	DefaultTitle string

	// FallbackToNow uses now as the start instead of failing with ErrNoDate.
	FallbackToNow bool

	// DateOrder is DateOrderMDY (default) or DateOrderDMY and decides how
	// slash dates like 3/4 are read.
	DateOrder string

	// Finder locates the date span in natural mode. Nil means
	// NewWhenFinder(DateOrder).
	Finder DateFinder
}

func (o Options) normalized() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.DefaultDuration <= 0 {
		o.DefaultDuration = time.Hour
	}
	if o.Finder == nil {
		o.Finder = NewWhenFinder(o.DateOrder)
	}
	return o
}

// New returns the extractor for mode ("natural" or "form").
func New(mode string, opts Options) (Extractor, error) {
	switch mode {
	case "", "natural":
		return NewNatural(opts), nil
	case "form":
		return NewForm(opts), nil
	default:
		return nil, fmt.Errorf("extract: unknown mode %q", mode)
	}
}

// cleanInput trims the text and strips one pair of surrounding quotes,
// which users often carry over from copied command arguments.
func cleanInput(input string) (string, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, `"`)
	s = strings.TrimSuffix(s, "'")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyInput
	}
	return s, nil
}

// resolveStart applies the FallbackToNow policy when no date was found.
func resolveStart(found bool, start time.Time, now time.Time, opts Options) (time.Time, error) {
	if found {
		return start.Truncate(time.Minute), nil
	}
	if !opts.FallbackToNow {
		return time.Time{}, ErrNoDate
	}
	appLog.Info("no date found, falling back to current time")
	return now.In(opts.Location).Truncate(time.Minute), nil
}

// resolveTitle applies DefaultTitle to an empty title.
func resolveTitle(title string, opts Options) (string, error) {
	if title != "" {
		return title, nil
	}
	if opts.DefaultTitle == "" {
		return "", ErrNoTitle
	}
	return opts.DefaultTitle, nil
}

var (
	wsRun         = regexp.MustCompile(`[ \t\f\v]+`)
	spaceBefore   = regexp.MustCompile(`\s+([,;:.!?])`)
	repeatedPunct = regexp.MustCompile(`([,;:])(?:\s*[,;:])+`)
)

const edgeJunk = " \t,;:.-–—@|/"

// tidyTitle collapses whitespace and strips punctuation left behind by
// removed spans.
func tidyTitle(s string) string {
	s = wsRun.ReplaceAllString(s, " ")
	s = spaceBefore.ReplaceAllString(s, "$1")
	s = repeatedPunct.ReplaceAllString(s, "$1")
	return strings.Trim(s, edgeJunk)
}

// firstLine returns the first line of s that has any content.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := tidyTitle(line); t != "" {
			return t
		}
	}
	return ""
}
