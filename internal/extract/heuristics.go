package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// "Zoom Link: https://...", "Meeting link - https://...".
	labeledLinkRe = regexp.MustCompile(`(?i)\b(?:zoom|meeting|teams|meet|video|join)\s+link\s*[:\-]?\s*(https?://\S+)`)
	// Bare links to the common video-meeting hosts.
	bareLinkRe = regexp.MustCompile(`(?i)https?://(?:[\w-]+\.)*(?:zoom\.us|meet\.google\.com|teams\.microsoft\.com|teams\.live\.com)/\S*`)

	locationLineRe = regexp.MustCompile(`(?im)^[ \t]*(?:location|where|place)\s*:[ \t]*(.+)$`)
	locationWordRe = regexp.MustCompile(`(?i)\b(?:at|in)\s+([^\n]+)`)

	clock        = `\d{1,2}(?::\d{2})?\s*(?:[ap]\.?m\.?)?`
	timeRangeRe  = regexp.MustCompile(`(?i)\b(` + clock + `)(\s*(?:-|–|—|to|until|till)\s*(` + clock + `))`)
	clockPartsRe = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*([ap])?\.?(m)?\.?$`)

	// A clock needs a meridiem or minutes, so "Room 4" is not one.
	clockRe        = regexp.MustCompile(`(?i)(?:(?:\bat|\bfrom|@)[ \t]*)?\b(\d{1,2}(?::\d{2})?\s*[ap]\.?m\b\.?|\d{1,2}:\d{2}\b|noon\b|midnight\b)`)
	leadingClockRe = regexp.MustCompile(`(?i)^(?:\d{1,2}(?::\d{2})?\s*[ap]\.?m\b|\d{1,2}:\d{2}\b|noon\b|midnight\b)`)
)

// findMeetingLink returns the video-meeting URL and the byte range to remove.
func findMeetingLink(text string) (string, int, int, bool) {
	if m := labeledLinkRe.FindStringSubmatchIndex(text); m != nil {
		return trimURL(text[m[2]:m[3]]), m[0], m[1], true
	}
	if m := bareLinkRe.FindStringIndex(text); m != nil {
		return trimURL(text[m[0]:m[1]]), m[0], m[1], true
	}
	return "", 0, 0, false
}

func trimURL(u string) string {
	return strings.TrimRight(u, ".,;:)>]\"'")
}

// findLocationLine handles an explicit "Location: ..." line.
func findLocationLine(text string) (string, int, int, bool) {
	m := locationLineRe.FindStringSubmatchIndex(text)
	if m == nil {
		return "", 0, 0, false
	}
	loc := strings.TrimSpace(text[m[2]:m[3]])
	if loc == "" {
		return "", 0, 0, false
	}
	return loc, m[0], m[1], true
}

// findLocationWord handles "at <place>" / "in <place>" up to end of line.
// "at 6pm" is a time, not a place, so such candidates are skipped.
func findLocationWord(text string) (string, int, int, bool) {
	for off := 0; off < len(text); {
		m := locationWordRe.FindStringSubmatchIndex(text[off:])
		if m == nil {
			break
		}
		capStart, capEnd := off+m[2], off+m[3]
		if leadingClockRe.MatchString(text[capStart:capEnd]) {
			off = capStart
			continue
		}
		loc := tidyTitle(text[capStart:capEnd])
		if loc == "" {
			break
		}
		return loc, off + m[0], capEnd, true
	}
	return "", 0, 0, false
}

// findClock returns the first standalone clock ("at 6pm", "from 14:30",
// "noon") and the byte range to remove, connective included.
func findClock(text string) (clockTime, int, int, bool) {
	for _, m := range clockRe.FindAllStringSubmatchIndex(text, -1) {
		raw := strings.ToLower(text[m[2]:m[3]])
		switch raw {
		case "noon":
			return clockTime{hour: 12, meridiem: 'p'}, m[0], m[1], true
		case "midnight":
			return clockTime{hour: 12, meridiem: 'a'}, m[0], m[1], true
		}
		if c, ok := parseClock(raw); ok {
			return c, m[0], m[1], true
		}
	}
	return clockTime{}, 0, 0, false
}

// clockTime is an hour/minute pair with an optional meridiem.
type clockTime struct {
	hour, minute int
	meridiem     byte // 'a', 'p' or 0
}

func parseClock(s string) (clockTime, bool) {
	m := clockPartsRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return clockTime{}, false
	}
	h, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	var mer byte
	if m[3] != "" {
		mer = strings.ToLower(m[3])[0]
	}
	if minute > 59 || h > 23 || (mer != 0 && (h < 1 || h > 12)) {
		return clockTime{}, false
	}
	return clockTime{hour: h, minute: minute, meridiem: mer}, true
}

// explicit reports whether the clock is unambiguous on its own.
func (c clockTime) explicit(raw string) bool {
	return c.meridiem != 0 || strings.Contains(raw, ":")
}

// on returns the clock on day's date in day's location.
func (c clockTime) on(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour24(), c.minute, 0, 0, day.Location())
}

func (c clockTime) hour24() int {
	switch c.meridiem {
	case 'a':
		if c.hour == 12 {
			return 0
		}
	case 'p':
		if c.hour < 12 {
			return c.hour + 12
		}
	}
	return c.hour
}

// timeRange is a "3pm - 4:30pm" style range. startBegin/startEnd cover the
// start clock. endStart/endEnd cover the separator and the end clock, which
// are masked before date parsing. startMeridiem is set when the start clock
// borrows the end's ("3-4pm") and has to be written into the masked region
// for the date parser.
type timeRange struct {
	end                  clockTime
	startBegin, startEnd int
	endStart, endEnd     int
	startMeridiem        string
}

// findTimeRanges returns every range in text, in order.
func findTimeRanges(text string) []timeRange {
	var out []timeRange
	for _, m := range timeRangeRe.FindAllStringSubmatchIndex(text, -1) {
		startRaw, endRaw := text[m[2]:m[3]], text[m[6]:m[7]]
		from, ok1 := parseClock(startRaw)
		to, ok2 := parseClock(endRaw)
		if !ok1 || !ok2 {
			continue
		}
		// "Room 2-3" is not a time range.
		if !from.explicit(startRaw) && !to.explicit(endRaw) {
			continue
		}
		r := timeRange{startBegin: m[2], startEnd: m[3], endStart: m[4], endEnd: m[5]}
		switch {
		case to.meridiem == 0 && from.meridiem != 0 && !strings.Contains(endRaw, ":"):
			// "3pm-4", "11am-1"
			to.meridiem = from.meridiem
			if from.meridiem == 'a' && from.hour%12 > to.hour%12 {
				to.meridiem = 'p'
			}
		case from.meridiem == 0 && to.meridiem != 0 && !strings.Contains(startRaw, ":"):
			// "3-4pm", "11-1pm"
			mer := to.meridiem
			if from.hour%12 > to.hour%12 {
				mer = 'a'
			}
			r.startMeridiem = string(mer) + "m"
		}
		r.end = to
		out = append(out, r)
	}
	return out
}

// startsWithin reports whether the range's start clock overlaps [start, end).
func (r timeRange) startsWithin(start, end int) bool {
	return r.startBegin < end && start < r.startEnd
}

// endOn places the range end on start's date. ok is false when the result
// would not be after start.
func (r timeRange) endOn(start time.Time) (time.Time, bool) {
	h := r.end.hour24()
	if r.end.meridiem == 0 && h < 12 && start.Hour() >= 12 && h+12 > start.Hour() {
		h += 12
	}
	end := time.Date(start.Year(), start.Month(), start.Day(), h, r.end.minute, 0, 0, start.Location())
	if !end.After(start) {
		return time.Time{}, false
	}
	return end, true
}
