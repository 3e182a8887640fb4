package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weeklyStandup() ParsedEvent {
	start := time.Date(2026, 10, 14, 9, 30, 0, 0, pacific)
	return ParsedEvent{
		UID:      "standup@test",
		Summary:  "Standup",
		Start:    start,
		End:      start.Add(15 * time.Minute),
		RawRRule: "FREQ=WEEKLY;BYDAY=WE",
	}
}

func TestExpandWeeklyWithExDate(t *testing.T) {
	ev := weeklyStandup()
	ev.ExDates = []time.Time{time.Date(2026, 10, 21, 9, 30, 0, 0, pacific)}

	res, err := ExpandOccurrences([]ParsedEvent{ev}, ExpandConfig{
		DisplayLocation: pacific,
		RangeStart:      time.Date(2026, 10, 14, 0, 0, 0, 0, pacific),
		RangeEnd:        time.Date(2026, 11, 5, 0, 0, 0, 0, pacific),
	})
	require.NoError(t, err)
	require.Len(t, res.Occurrences, 3)

	days := make([]int, 0, len(res.Occurrences))
	for _, occ := range res.Occurrences {
		days = append(days, occ.Start.Day())
		assert.Equal(t, 15*time.Minute, occ.End.Sub(occ.Start))
		assert.Equal(t, 9, occ.Start.Hour())
	}
	assert.Equal(t, []int{14, 28, 4}, days)
	assert.Empty(t, res.TruncatedEvents)
}

func TestExpandSingleEvent(t *testing.T) {
	start := time.Date(2026, 10, 20, 13, 0, 0, 0, pacific)
	single := ParsedEvent{UID: "lunch@test", Summary: "Lunch", Start: start, End: start.Add(time.Hour)}
	outside := ParsedEvent{UID: "later@test", Summary: "Later", Start: start.AddDate(1, 0, 0), End: start.AddDate(1, 0, 0)}

	res, err := ExpandOccurrences([]ParsedEvent{outside, single}, ExpandConfig{
		DisplayLocation: time.UTC,
		RangeStart:      time.Date(2026, 10, 14, 0, 0, 0, 0, pacific),
		RangeEnd:        time.Date(2026, 10, 28, 0, 0, 0, 0, pacific),
	})
	require.NoError(t, err)
	require.Len(t, res.Occurrences, 1)

	occ := res.Occurrences[0]
	assert.Equal(t, "Lunch", occ.Summary)
	assert.Equal(t, time.UTC, occ.Start.Location())
	assert.Equal(t, 20, occ.Start.Hour())
	assert.Equal(t, occ.Start.Format(time.RFC3339Nano), occ.InstanceKey)
}

func TestExpandSorted(t *testing.T) {
	daily := weeklyStandup()
	daily.UID = "daily@test"
	daily.RawRRule = "FREQ=DAILY;COUNT=3"
	single := ParsedEvent{
		UID:   "x@test",
		Start: time.Date(2026, 10, 15, 8, 0, 0, 0, pacific),
		End:   time.Date(2026, 10, 15, 8, 30, 0, 0, pacific),
	}

	res, err := ExpandOccurrences([]ParsedEvent{daily, single}, ExpandConfig{
		DisplayLocation: pacific,
		RangeStart:      time.Date(2026, 10, 14, 0, 0, 0, 0, pacific),
		RangeEnd:        time.Date(2026, 10, 20, 0, 0, 0, 0, pacific),
	})
	require.NoError(t, err)
	require.Len(t, res.Occurrences, 4)
	for i := 1; i < len(res.Occurrences); i++ {
		assert.False(t, res.Occurrences[i].Start.Before(res.Occurrences[i-1].Start))
	}
	assert.Equal(t, "x@test", res.Occurrences[1].UID)
}

func TestExpandCap(t *testing.T) {
	ev := weeklyStandup()
	ev.RawRRule = "FREQ=DAILY"

	res, err := ExpandOccurrences([]ParsedEvent{ev}, ExpandConfig{
		DisplayLocation:        pacific,
		RangeStart:             ev.Start,
		RangeEnd:               ev.Start.AddDate(0, 0, 30),
		MaxOccurrencesPerEvent: 5,
	})
	require.NoError(t, err)
	assert.Len(t, res.Occurrences, 5)
	assert.Equal(t, []string{"standup@test"}, res.TruncatedEvents)
}

func TestExpandBadRRuleSkipsEvent(t *testing.T) {
	ev := weeklyStandup()
	ev.RawRRule = "FREQ=SOMETIMES"

	res, err := ExpandOccurrences([]ParsedEvent{ev}, ExpandConfig{
		RangeStart: ev.Start,
		RangeEnd:   ev.Start.AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Occurrences)
}

func TestExpandInvertedRange(t *testing.T) {
	now := time.Now()
	_, err := ExpandOccurrences(nil, ExpandConfig{RangeStart: now, RangeEnd: now.Add(-time.Hour)})
	assert.Error(t, err)
}
