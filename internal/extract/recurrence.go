package extract

import (
	"regexp"
	"strconv"
	"strings"

	"icalgen/internal/model"
)

const weekdayName = `(?:mon|tues|wednes|thurs|fri|satur|sun)days?`

// every [other|N] <unit>, where unit may be a list of weekdays.
var recurrenceRe = regexp.MustCompile(`(?i)\bevery\s+(?:(other)\s+|(\d{1,3})\s+)?(` +
	weekdayName + `(?:\s*(?:,\s*and|,|and|&)\s*` + weekdayName + `)*` +
	`|weekdays?|weekends?|days?|weeks?|months?|years?)\b`)

var weekdaySplitRe = regexp.MustCompile(`(?i)\s*(?:,\s*and|,|and|&)\s*`)

// findRecurrence maps "every week", "every other Tuesday", "every 2 months",
// "every Monday and Wednesday" onto a Recurrence. Specific weekdays imply
// WEEKLY with BYDAY.
func findRecurrence(text string) (*model.Recurrence, int, int, bool) {
	m := recurrenceRe.FindStringSubmatchIndex(text)
	if m == nil {
		return nil, 0, 0, false
	}

	rec := &model.Recurrence{Interval: 1}
	if m[2] >= 0 {
		rec.Interval = 2
	}
	if m[4] >= 0 {
		if n, err := strconv.Atoi(text[m[4]:m[5]]); err == nil && n > 0 {
			rec.Interval = n
		}
	}

	unit := strings.ToLower(text[m[6]:m[7]])
	switch strings.TrimSuffix(unit, "s") {
	case "day":
		rec.Freq = model.FreqDaily
	case "week":
		rec.Freq = model.FreqWeekly
	case "month":
		rec.Freq = model.FreqMonthly
	case "year":
		rec.Freq = model.FreqYearly
	case "weekday":
		rec.Freq = model.FreqWeekly
		rec.ByDay = []string{"MO", "TU", "WE", "TH", "FR"}
	case "weekend":
		rec.Freq = model.FreqWeekly
		rec.ByDay = []string{"SA", "SU"}
	default:
		rec.Freq = model.FreqWeekly
		rec.ByDay = weekdayCodes(unit)
	}

	return rec, m[0], m[1], true
}

// weekdayCodes converts "monday and wednesday" into [MO WE], dropping
// duplicates and keeping first-seen order.
func weekdayCodes(list string) []string {
	var codes []string
	seen := make(map[string]bool)
	for _, name := range weekdaySplitRe.Split(list, -1) {
		name = strings.TrimSpace(name)
		if len(name) < 2 {
			continue
		}
		code := strings.ToUpper(name[:2])
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}
