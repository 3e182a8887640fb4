package extract

import (
	"regexp"
	"strconv"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Slash date orders.
const (
	DateOrderMDY = "mdy"
	DateOrderDMY = "dmy"
)

// Span is a located date/time expression. Start and End are byte offsets
// into the searched text.
type Span struct {
	Start int
	End   int
	Time  time.Time
}

// DateFinder locates the first date/time expression in text.
type DateFinder interface {
	Find(text string, base time.Time) (Span, bool, error)
}

// mergeDistance is how far apart (in bytes) matched date and time pieces
// may be and still form one expression, e.g. "Saturday from 2pm".
const mergeDistance = 8

type whenFinder struct {
	parser     *when.Parser
	monthFirst bool
}

// NewWhenFinder returns a DateFinder backed by olebedev/when with the
// English and common (numeric) rule sets. order selects how slash dates
// such as 10/20 are read; anything but DateOrderDMY means month first.
func NewWhenFinder(order string) DateFinder {
	w := when.New(&rules.Options{
		Morning:      8,
		Noon:         12,
		Afternoon:    15,
		Evening:      18,
		Distance:     mergeDistance,
		MatchByOrder: true,
	})
	w.Add(en.All...)
	w.Add(common.All...)
	return &whenFinder{parser: w, monthFirst: order != DateOrderDMY}
}

func (f *whenFinder) Find(text string, base time.Time) (Span, bool, error) {
	if f.monthFirst {
		text = monthFirstToDayFirst(text)
	}

	r, err := f.parser.Parse(text, base)
	if err != nil {
		return Span{}, false, err
	}
	if r == nil || r.Index < 0 {
		return Span{}, false, nil
	}

	end := r.Index + len(r.Text)
	if end > len(text) {
		end = len(text)
	}
	return Span{Start: r.Index, End: end, Time: r.Time}, true, nil
}

var slashDateRe = regexp.MustCompile(`(^|[^\w/])(\d{1,2})/(\d{1,2})(/\d{4})?`)

// monthFirstToDayFirst rewrites M/D[/YYYY] as D/M[/YYYY], the only slash
// order the when rules know. Both halves swap places, so byte offsets are
// unchanged. Dates that can only be day first (20/10) are left alone.
func monthFirstToDayFirst(text string) string {
	b := []byte(text)
	for _, m := range slashDateRe.FindAllStringSubmatchIndex(text, -1) {
		if end := m[1]; end < len(text) && (isDigit(text[end]) || text[end] == '/') {
			continue
		}
		month, day := text[m[4]:m[5]], text[m[6]:m[7]]
		mo, _ := strconv.Atoi(month)
		d, _ := strconv.Atoi(day)
		if mo < 1 || mo > 12 || d < 1 || d > 31 {
			continue
		}
		copy(b[m[4]:m[7]], day+"/"+month)
	}
	return string(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
