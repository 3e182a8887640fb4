package extract

import (
	"fmt"
	"regexp"
	"time"

	appLog "icalgen/internal/log"
	"icalgen/internal/model"
)

// Natural extracts details from sentences such as
// "Lunch with Sam tomorrow at 1pm at Nopa".
type Natural struct {
	opts Options
}

func NewNatural(opts Options) *Natural {
	return &Natural{opts: opts.normalized()}
}

// Extract runs the heuristics in a fixed order. Each one blanks the text it
// consumed, and whatever is left on the first non-empty line is the title.
//
//  1. meeting link (URLs must not reach the date parser)
//  2. "Location:" line
//  3. first date/time span, parsed with every range end ("- 4pm") masked,
//     plus a dangling "at"/"on"/"from" in front of it
//  4. a clock elsewhere in the text when the span has only a date,
//     otherwise the date starts at noon
//  5. the range whose start clock is part of the span, for the end time
//  6. recurrence phrase, matched on the text as it was before step 3
//  7. "at"/"in" location, unless step 2 found one
func (x *Natural) Extract(input string, now time.Time) (model.EventDetails, error) {
	text, err := cleanInput(input)
	if err != nil {
		return model.EventDetails{}, err
	}
	now = now.In(x.opts.Location)

	details := model.EventDetails{Notes: text}
	c := newCanvas(text)

	if u, s, e, ok := findMeetingLink(c.String()); ok {
		details.MeetingURL = u
		c.blank(s, e)
	}

	if loc, s, e, ok := findLocationLine(c.String()); ok {
		details.Location = loc
		c.blank(s, e)
	}

	// The parser sees pc, where range ends are masked and borrowed
	// meridiems written in. c keeps the user's text.
	beforeDate := c.String()
	ranges := findTimeRanges(beforeDate)
	pc := newCanvas(beforeDate)
	for _, r := range ranges {
		pc.blank(r.endStart, r.endEnd)
		pc.overwrite(r.endStart, r.startMeridiem)
	}

	span, found, err := x.opts.Finder.Find(pc.String(), now)
	if err != nil {
		appLog.Debug("date parser failed", "err", err)
		found = false
	}

	var covered [][2]int
	if found {
		spanText := pc.String()[span.Start:span.End]
		c.blankDateSpan(span.Start, span.End)
		pc.blankDateSpan(span.Start, span.End)
		covered = append(covered, [2]int{span.Start, span.End})

		if !timeOfDayRe.MatchString(spanText) {
			if clk, s, e, ok := findClock(pc.String()); ok {
				span.Time = clk.on(span.Time)
				c.blank(s, e)
				pc.blank(s, e)
				covered = append(covered, [2]int{s, e})
			} else {
				span.Time = time.Date(span.Time.Year(), span.Time.Month(), span.Time.Day(),
					dateOnlyHour, 0, 0, 0, span.Time.Location())
			}
		}
	}

	start, err := resolveStart(found, span.Time, now, x.opts)
	if err != nil {
		return model.EventDetails{}, fmt.Errorf("extract: %w", err)
	}
	details.Start = start
	details.End = start.Add(x.opts.DefaultDuration)
	if r, ok := rangeFor(ranges, covered); ok {
		c.blank(r.endStart, r.endEnd)
		if end, ok := r.endOn(start); ok {
			details.End = end
		}
	}

	if rec, s, e, ok := findRecurrence(beforeDate); ok {
		details.Recurrence = rec
		c.blank(s, e)
	}

	if details.Location == "" {
		if loc, s, e, ok := findLocationWord(c.String()); ok {
			details.Location = loc
			c.blank(s, e)
		}
	}

	title, err := resolveTitle(firstLine(c.String()), x.opts)
	if err != nil {
		return model.EventDetails{}, fmt.Errorf("extract: %w", err)
	}
	details.Title = title

	appLog.Debug("extracted event",
		"title", details.Title,
		"start", details.Start.Format(time.RFC3339),
		"end", details.End.Format(time.RFC3339),
		"location", details.Location,
		"recurring", details.Recurrence != nil,
	)
	return details, nil
}

// dateOnlyHour is the start hour for a date given without a time of day.
const dateOnlyHour = 12

// timeOfDayRe tells whether a date span already carries a time of day.
var timeOfDayRe = regexp.MustCompile(`(?i)\d\s*[ap]\.?m\b|\d:\d{2}|\b(?:noon|midnight|morning|afternoon|evening|tonight|night|hours?|minutes?|mins?|now)\b`)

// rangeFor returns the first range that starts inside a covered region.
func rangeFor(ranges []timeRange, covered [][2]int) (timeRange, bool) {
	for _, r := range ranges {
		for _, cv := range covered {
			if r.startsWithin(cv[0], cv[1]) {
				return r, true
			}
		}
	}
	return timeRange{}, false
}
