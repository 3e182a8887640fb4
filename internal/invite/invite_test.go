package invite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icalgen/internal/config"
	"icalgen/internal/extract"
	"icalgen/internal/ics"
	"icalgen/internal/model"
)

var pacific = mustLoad("America/Los_Angeles")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type fakeExtractor struct {
	details model.EventDetails
	err     error
	calls   int
}

func (f *fakeExtractor) Extract(string, time.Time) (model.EventDetails, error) {
	f.calls++
	return f.details, f.err
}

type fakeOpener struct {
	paths []string
	err   error
}

func (f *fakeOpener) Open(path string) error {
	f.paths = append(f.paths, path)
	return f.err
}

type failingWriter struct{}

func (failingWriter) Write(context.Context, model.EventDetails) (string, error) {
	return "", errors.New("disk full")
}

func lunch() model.EventDetails {
	start := time.Date(2026, 10, 15, 13, 0, 0, 0, pacific)
	return model.EventDetails{Title: "Lunch with Sam", Start: start, End: start.Add(time.Hour), Location: "Nopa"}
}

func newTestService(t *testing.T, ext extract.Extractor, op Opener) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	w := ics.NewWriter(ics.WriterConfig{Location: pacific, OutputDir: dir})
	s := NewService(ext, w, op, pacific)
	s.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, pacific) }
	return s, dir
}

func TestCreate(t *testing.T) {
	op := &fakeOpener{}
	s, dir := newTestService(t, &fakeExtractor{details: lunch()}, op)

	out, err := s.Create(context.Background(), "Lunch with Sam tomorrow at 1pm at Nopa")
	require.NoError(t, err)

	assert.True(t, out.OK)
	assert.True(t, out.Opened)
	assert.Equal(t, `Added "Lunch with Sam" to your calendar with location "Nopa".`, out.Message)
	assert.Equal(t, filepath.Join(dir, "Lunch_with_Sam.ics"), out.Path)
	assert.Equal(t, []string{out.Path}, op.paths)
	assert.FileExists(t, out.Path)
}

func TestCreateWithoutLocation(t *testing.T) {
	d := lunch()
	d.Location = ""
	s, _ := newTestService(t, &fakeExtractor{details: d}, nil)

	out, err := s.Create(context.Background(), "Lunch with Sam tomorrow at 1pm")
	require.NoError(t, err)
	assert.Equal(t, `Added "Lunch with Sam" to your calendar.`, out.Message)
	assert.False(t, out.Opened)
}

func TestCreateEmptyInputTouchesNothing(t *testing.T) {
	ext := &fakeExtractor{details: lunch()}
	op := &fakeOpener{}
	s, dir := newTestService(t, ext, op)

	for _, in := range []string{"", "   ", "\n\t"} {
		out, err := s.Create(context.Background(), in)
		assert.ErrorIs(t, err, extract.ErrEmptyInput)
		assert.False(t, out.OK)
		assert.Equal(t, MsgInputRequired, out.Message)
	}

	assert.Zero(t, ext.calls)
	assert.Empty(t, op.paths)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateFailures(t *testing.T) {
	tests := []struct {
		name    string
		ext     *fakeExtractor
		writer  Writer
		opener  *fakeOpener
		wantMsg string
		wantErr error
	}{
		{name: "no date", ext: &fakeExtractor{err: extract.ErrNoDate}, wantMsg: MsgFailed, wantErr: extract.ErrNoDate},
		{name: "no title", ext: &fakeExtractor{err: extract.ErrNoTitle}, wantMsg: MsgFailed, wantErr: extract.ErrNoTitle},
		{name: "quotes only", ext: &fakeExtractor{err: extract.ErrEmptyInput}, wantMsg: MsgInputRequired, wantErr: extract.ErrEmptyInput},
		{name: "unexpected extractor error", ext: &fakeExtractor{err: errors.New("boom")}, wantMsg: MsgError},
		{name: "write fails", ext: &fakeExtractor{details: lunch()}, writer: failingWriter{}, wantMsg: MsgError},
		{name: "open fails", ext: &fakeExtractor{details: lunch()}, opener: &fakeOpener{err: errors.New("no xdg-open")}, wantMsg: MsgError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var op Opener
			if tt.opener != nil {
				op = tt.opener
			}
			s, _ := newTestService(t, tt.ext, op)
			if tt.writer != nil {
				s.writer = tt.writer
			}

			out, err := s.Create(context.Background(), "something")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.False(t, out.OK)
			assert.Equal(t, tt.wantMsg, out.Message)
		})
	}
}

func TestCreateCanceled(t *testing.T) {
	op := &fakeOpener{}
	s, dir := newTestService(t, &fakeExtractor{details: lunch()}, op)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Create(ctx, "Lunch")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, op.paths)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Open = false

	s, err := New(cfg)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, pacific) }

	out, err := s.Create(context.Background(), "Lunch with Sam tomorrow at 1pm at Nopa")
	require.NoError(t, err)
	assert.Equal(t, `Added "Lunch with Sam" to your calendar with location "Nopa".`, out.Message)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "Lunch_with_Sam.ics"), out.Path)

	events, err := ics.ParseFile(out.Path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, time.Date(2026, 10, 15, 13, 0, 0, 0, pacific).Equal(events[0].Start))

	cfg.Timezone = "Mars/Olympus"
	_, err = New(cfg)
	assert.Error(t, err)

	cfg.Timezone = "UTC"
	cfg.Mode = "haiku"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestNewPassesDateOrder(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Open = false
	cfg.DateOrder = config.DateOrderDMY

	s, err := New(cfg)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, pacific) }

	d, err := s.Preview("Dentist 20/10 at 3pm")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 10, 20, 15, 0, 0, 0, pacific).Equal(d.Start), "start = %v", d.Start)
}
