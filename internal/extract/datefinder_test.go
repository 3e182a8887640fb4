package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthFirstToDayFirst(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dentist 10/20 at 3pm", "Dentist 20/10 at 3pm"},
		{"due 3/14/2027", "due 14/3/2027"},
		{"a 5/6 b", "a 6/5 b"},
		{"12/25", "25/12"},
		{"only day first 20/10", "only day first 20/10"},
		{"short year 1/2/26", "short year 1/2/26"},
		{"path a/3/4", "path a/3/4"},
		{"no dates here", "no dates here"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := monthFirstToDayFirst(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.in))
		})
	}
}

func TestWhenFinderSlashOrder(t *testing.T) {
	tests := []struct {
		name  string
		order string
		in    string
	}{
		{name: "month first by default", in: "Dentist 10/20 at 3pm"},
		{name: "month first", order: DateOrderMDY, in: "Dentist 10/20 at 3pm"},
		{name: "day first", order: DateOrderDMY, in: "Dentist 20/10 at 3pm"},
	}

	want := time.Date(2026, 10, 20, 15, 0, 0, 0, pacific)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, ok, err := NewWhenFinder(tt.order).Find(tt.in, baseNow)
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, want.Equal(span.Time), "time = %v", span.Time)
			assert.Equal(t, len("Dentist "), span.Start)
			assert.Equal(t, len(tt.in), span.End)
		})
	}
}

func TestWhenFinderJoinsFromConnective(t *testing.T) {
	in := "Garden party Saturday from 2pm"
	span, ok, err := NewWhenFinder("").Find(in, baseNow)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "Saturday from 2pm", in[span.Start:span.End])
	want := time.Date(2026, 10, 17, 14, 0, 0, 0, pacific)
	assert.True(t, want.Equal(span.Time), "time = %v", span.Time)
}
