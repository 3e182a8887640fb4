package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"icalgen/internal/model"
)

var (
	formTitleRe    = regexp.MustCompile(`(?m)^[A-Z][a-z]+ [A-Z][a-z]+`)
	formDateRe     = regexp.MustCompile(`Date:\s*([A-Za-z]+,\s*[A-Za-z]+\.?\s*\d{1,2},\s*\d{4})`)
	formTimeRe     = regexp.MustCompile(`(?i)Time:\s*(\d{1,2}(?::\d{2})?\s*[ap]\.?\s*m\.?)`)
	formLocationRe = regexp.MustCompile(`Location:[ \t]*(.*)`)
	formDotsRe     = regexp.MustCompile(`[.\s]+`)
)

const formAdvisor = "Advisor:"

var formDateLayouts = []string{
	"Monday, January 2, 2006 3:04 PM",
	"Monday, Jan 2, 2006 3:04 PM",
	"Mon, January 2, 2006 3:04 PM",
	"Mon, Jan 2, 2006 3:04 PM",
}

// Form extracts details from labeled invites such as seminar announcements:
//
//	Distributed Systems Seminar
//	Date: Wednesday, March 4, 2026
//	Time: 3:00 pm
//	Location: Gates 104
//	Advisor: Prof. Lee
type Form struct {
	opts Options
}

func NewForm(opts Options) *Form {
	return &Form{opts: opts.normalized()}
}

func (x *Form) Extract(input string, now time.Time) (model.EventDetails, error) {
	text, err := cleanInput(input)
	if err != nil {
		return model.EventDetails{}, err
	}
	now = now.In(x.opts.Location)

	var details model.EventDetails

	title := formTitleRe.FindString(text)
	details.Title, err = resolveTitle(strings.TrimSpace(title), x.opts)
	if err != nil {
		return model.EventDetails{}, fmt.Errorf("extract: %w", err)
	}

	// Notes are what follows "Advisor:", else what follows the title.
	if i := strings.Index(text, formAdvisor); i >= 0 {
		details.Notes = strings.TrimSpace(text[i+len(formAdvisor):])
	} else if i := strings.Index(text, title); title != "" && i >= 0 {
		details.Notes = strings.TrimSpace(text[i+len(title):])
	} else {
		details.Notes = text
	}

	if m := formLocationRe.FindStringSubmatch(text); m != nil {
		details.Location = strings.TrimSpace(m[1])
	}

	start, found := x.parseDateTime(text)
	details.Start, err = resolveStart(found, start, now, x.opts)
	if err != nil {
		return model.EventDetails{}, fmt.Errorf("extract: %w", err)
	}
	details.End = details.Start.Add(x.opts.DefaultDuration)

	if u, _, _, ok := findMeetingLink(text); ok {
		details.MeetingURL = u
	}

	return details, nil
}

func (x *Form) parseDateTime(text string) (time.Time, bool) {
	dm := formDateRe.FindStringSubmatch(text)
	tm := formTimeRe.FindStringSubmatch(text)
	if dm == nil || tm == nil {
		return time.Time{}, false
	}

	date := strings.Join(strings.Fields(strings.ReplaceAll(dm[1], ".", "")), " ")
	date = strings.ReplaceAll(date, " ,", ",")

	clk, ok := parseClock(formDotsRe.ReplaceAllString(tm[1], ""))
	if !ok || clk.meridiem == 0 {
		return time.Time{}, false
	}
	hm := fmt.Sprintf("%d:%02d %s", clk.hour, clk.minute, strings.ToUpper(string(clk.meridiem))+"M")

	for _, layout := range formDateLayouts {
		if t, err := time.ParseInLocation(layout, date+" "+hm, x.opts.Location); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
