// Package docsource reads page text, layout spans, outline entries, and link
// annotations out of PDF files and presents them as plain records. Everything
// downstream of this package operates on in-memory data only.
package docsource

import (
	"errors"
	"strings"
)

// ErrEncrypted is returned by Open when the document requires a password.
var ErrEncrypted = errors.New("document is encrypted")

// Document is a fully materialized view of a source file: every page is
// parsed up front so callers never touch the underlying reader.
type Document struct {
	Filename  string
	PageCount int
	Outline   []OutlineEntry
	Pages     []Page
}

// OutlineEntry is one flattened bookmark from the document outline.
// Level starts at 1 for top-level entries.
type OutlineEntry struct {
	Level     int
	Title     string
	StartPage int
}

// Page holds the raw text and layout of a single page. Number is 1-based.
// Coordinates are top-origin: y grows downward from the top edge.
type Page struct {
	Number int
	Width  float64
	Height float64
	Text   string
	Blocks []Block
	Links  []Link
}

// Block is a group of lines that sit together on the page, roughly a
// paragraph or one column segment of a visual row.
type Block struct {
	BBox  Rect
	Lines []Line
}

// Line is one baseline of text made up of one or more spans.
type Line struct {
	Spans []Span
}

// Span is a run of text in a single font and size.
type Span struct {
	Text string
	Font string
	Size float64
	Bold bool
	BBox Rect
}

// Link is a link annotation. URI is empty for internal destinations.
type Link struct {
	URI  string
	Rect Rect
}

// Rect is an axis-aligned box with X0 <= X1 and Y0 <= Y1 (top-origin).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Intersects reports whether r and o overlap or touch.
func (r Rect) Intersects(o Rect) bool {
	return r.X0 <= o.X1 && o.X0 <= r.X1 && r.Y0 <= o.Y1 && o.Y0 <= r.Y1
}

// Width returns the horizontal extent of the rect.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Text returns the concatenated span texts of the line.
func (l Line) Text() string {
	var b strings.Builder
	for _, sp := range l.Spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// MinX returns the left edge of the line, the smallest span x0.
func (l Line) MinX() float64 {
	if len(l.Spans) == 0 {
		return 0
	}
	x := l.Spans[0].BBox.X0
	for _, sp := range l.Spans[1:] {
		if sp.BBox.X0 < x {
			x = sp.BBox.X0
		}
	}
	return x
}

// IsBoldFont reports whether a font name indicates a bold face.
func IsBoldFont(font string) bool {
	return strings.Contains(strings.ToLower(font), "bold")
}
