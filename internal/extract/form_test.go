package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seminarInvite = `Distributed Systems Seminar
Date: Wednesday, March 4, 2026
Time: 3:00 pm
Location: Gates 104
Advisor: Prof. Lee
Consensus protocols under partial synchrony.`

func formExtractor() *Form {
	return NewForm(Options{Location: pacific, DefaultTitle: "Untitled Event"})
}

func TestFormExtract(t *testing.T) {
	got, err := formExtractor().Extract(seminarInvite, baseNow)
	require.NoError(t, err)

	start := time.Date(2026, 3, 4, 15, 0, 0, 0, pacific)
	assert.Equal(t, "Distributed Systems", got.Title)
	assert.True(t, start.Equal(got.Start), "start = %v", got.Start)
	assert.True(t, start.Add(time.Hour).Equal(got.End))
	assert.Equal(t, "Gates 104", got.Location)
	assert.Equal(t, "Prof. Lee\nConsensus protocols under partial synchrony.", got.Notes)
}

func TestFormTimeVariants(t *testing.T) {
	tests := []struct {
		name string
		date string
		time string
		want time.Time
	}{
		{"no minutes", "Friday, October 16, 2026", "11 am", time.Date(2026, 10, 16, 11, 0, 0, 0, pacific)},
		{"dotted meridiem", "Friday, October 16, 2026", "4:15 p.m.", time.Date(2026, 10, 16, 16, 15, 0, 0, pacific)},
		{"short month", "Friday, Oct 16, 2026", "12:30 PM", time.Date(2026, 10, 16, 12, 30, 0, 0, pacific)},
		{"short weekday", "Fri, October 16, 2026", "9:05am", time.Date(2026, 10, 16, 9, 5, 0, 0, pacific)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := "Thesis Defense\nDate: " + tt.date + "\nTime: " + tt.time + "\n"
			got, err := formExtractor().Extract(in, baseNow)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Start), "start = %v, want %v", got.Start, tt.want)
		})
	}
}

func TestFormNotesWithoutAdvisor(t *testing.T) {
	in := "Reading Group\nDate: Monday, November 2, 2026\nTime: 5:00 pm"
	got, err := formExtractor().Extract(in, baseNow)
	require.NoError(t, err)

	assert.Equal(t, "Reading Group", got.Title)
	assert.Equal(t, "Date: Monday, November 2, 2026\nTime: 5:00 pm", got.Notes)
	assert.Empty(t, got.Location)
}

func TestFormMissingTime(t *testing.T) {
	in := "Budget Review\nDate: Monday, November 2, 2026\n"
	_, err := formExtractor().Extract(in, baseNow)
	assert.ErrorIs(t, err, ErrNoDate)
}

func TestFormMissingTitleUsesDefault(t *testing.T) {
	in := "date and time below\nDate: Monday, November 2, 2026\nTime: 5:00 pm"
	got, err := formExtractor().Extract(in, baseNow)
	require.NoError(t, err)
	assert.Equal(t, "Untitled Event", got.Title)
}

func TestFormEmptyInput(t *testing.T) {
	_, err := formExtractor().Extract(" \n ", baseNow)
	assert.ErrorIs(t, err, ErrEmptyInput)
}
