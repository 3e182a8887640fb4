package extract

import (
	"regexp"
	"strings"
)

// canvas is the working copy of the input. Matched spans are blanked with
// spaces rather than cut out, so byte offsets stay valid across heuristics.
// Newlines are kept so line structure survives.
type canvas struct {
	buf []byte
}

func newCanvas(s string) *canvas {
	return &canvas{buf: []byte(s)}
}

func (c *canvas) String() string {
	return string(c.buf)
}

func (c *canvas) blank(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(c.buf) {
		end = len(c.buf)
	}
	for i := start; i < end; i++ {
		if c.buf[i] != '\n' {
			c.buf[i] = ' '
		}
	}
}

// leadingPreposition matches a connective left dangling in front of a
// removed date span ("at 3pm", "on Friday", "from 2pm").
var leadingPreposition = regexp.MustCompile(`(?i)(?:^|\s)(at|on|from|@)\s*$`)

// blankDateSpan blanks [start, end) plus a preposition directly before it.
func (c *canvas) blankDateSpan(start, end int) {
	c.blank(start, end)

	if start > len(c.buf) {
		return
	}
	lineStart := strings.LastIndexByte(string(c.buf[:start]), '\n') + 1
	prefix := string(c.buf[lineStart:start])
	if loc := leadingPreposition.FindStringSubmatchIndex(prefix); loc != nil {
		c.blank(lineStart+loc[2], start)
	}
}

// overwrite replaces bytes at off with s, clipped to the buffer.
func (c *canvas) overwrite(off int, s string) {
	for i := 0; i < len(s) && off+i < len(c.buf); i++ {
		c.buf[off+i] = s[i]
	}
}
