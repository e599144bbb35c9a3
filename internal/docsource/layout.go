package docsource

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Layout assembly thresholds, in points unless noted.
const (
	rowTolerance        = 3.0  // baseline Y tolerance for grouping into rows
	wordSpaceMultiplier = 0.3  // gap wider than 30% of font size becomes a space
	segmentGapThreshold = 30.0 // gap wider than this splits a row into column segments
	blockGapFactor      = 1.8  // vertical gap beyond this multiple of font size starts a new block
	sizeTolerance       = 0.05 // font sizes closer than this count as equal
)

// frag is one positioned text item in top-origin coordinates. Y is the
// baseline; the glyph box extends from Y-Size up to Y.
type frag struct {
	text string
	font string
	size float64
	x0   float64
	x1   float64
	y    float64
}

// assemblePage turns the flat positioned-text list of a page into blocks of
// lines and a plain-text rendering. Rows are grouped by baseline, wide
// horizontal gaps split a row into separate segments so side-by-side columns
// land in separate blocks, and segments stack into blocks while their
// vertical spacing stays tight.
func assemblePage(texts []pdf.Text, pageHeight float64) ([]Block, string) {
	frags := normalizeFrags(texts, pageHeight)
	if len(frags) == 0 {
		return nil, ""
	}

	rows := groupIntoRows(frags)

	var blocks []Block
	type openBlock struct {
		idx   int     // index into blocks
		lastY float64 // baseline of the most recent line
	}
	var open []openBlock

	for _, row := range rows {
		for _, seg := range splitRowSegments(row) {
			line := mergeSegmentSpans(seg)
			if len(line.Spans) == 0 {
				continue
			}
			lineBox := lineBBox(line)
			lineY := seg[0].y
			lineSize := maxSpanSize(line)

			// Attach to the open block with the best horizontal overlap
			// whose last line sits close enough above this one.
			best := -1
			bestOverlap := 0.0
			for i := range open {
				gap := lineY - open[i].lastY
				if gap < -rowTolerance || gap > blockGapFactor*math.Max(lineSize, 1) {
					continue
				}
				ov := overlapWidth(blocks[open[i].idx].BBox, lineBox)
				if ov > bestOverlap {
					bestOverlap = ov
					best = i
				}
			}

			if best >= 0 {
				b := &blocks[open[best].idx]
				b.Lines = append(b.Lines, line)
				b.BBox = unionRect(b.BBox, lineBox)
				open[best].lastY = lineY
				continue
			}

			blocks = append(blocks, Block{BBox: lineBox, Lines: []Line{line}})
			open = append(open, openBlock{idx: len(blocks) - 1, lastY: lineY})
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].BBox.Y0 != blocks[j].BBox.Y0 {
			return blocks[i].BBox.Y0 < blocks[j].BBox.Y0
		}
		return blocks[i].BBox.X0 < blocks[j].BBox.X0
	})

	return blocks, renderPageText(blocks)
}

// normalizeFrags drops whitespace-only items and flips coordinates so y grows
// downward from the top edge of the page.
func normalizeFrags(texts []pdf.Text, pageHeight float64) []frag {
	frags := make([]frag, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		frags = append(frags, frag{
			text: t.S,
			font: t.Font,
			size: t.FontSize,
			x0:   t.X,
			x1:   t.X + t.W,
			y:    pageHeight - t.Y,
		})
	}
	sort.SliceStable(frags, func(i, j int) bool {
		if math.Abs(frags[i].y-frags[j].y) > rowTolerance {
			return frags[i].y < frags[j].y
		}
		return frags[i].x0 < frags[j].x0
	})
	return frags
}

// groupIntoRows buckets frags sharing a baseline within rowTolerance.
// Input must already be sorted top to bottom.
func groupIntoRows(frags []frag) [][]frag {
	var rows [][]frag
	var cur []frag
	curY := 0.0
	for _, f := range frags {
		if len(cur) > 0 && math.Abs(f.y-curY) > rowTolerance {
			rows = append(rows, cur)
			cur = nil
		}
		if len(cur) == 0 {
			curY = f.y
		}
		cur = append(cur, f)
	}
	if len(cur) > 0 {
		rows = append(rows, cur)
	}
	return rows
}

// splitRowSegments orders a row left to right and splits it wherever the
// horizontal gap is wide enough to indicate a column boundary.
func splitRowSegments(row []frag) [][]frag {
	sort.SliceStable(row, func(i, j int) bool { return row[i].x0 < row[j].x0 })
	var segs [][]frag
	var cur []frag
	for _, f := range row {
		if len(cur) > 0 && f.x0-cur[len(cur)-1].x1 >= segmentGapThreshold {
			segs = append(segs, cur)
			cur = nil
		}
		cur = append(cur, f)
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

// mergeSegmentSpans joins a segment's frags into spans, starting a new span
// on font or size changes and inserting spaces at word-sized gaps.
func mergeSegmentSpans(seg []frag) Line {
	var line Line
	for _, f := range seg {
		box := Rect{X0: f.x0, Y0: f.y - f.size, X1: f.x1, Y1: f.y}
		if n := len(line.Spans); n > 0 {
			sp := &line.Spans[n-1]
			if sp.Font == f.font && math.Abs(sp.Size-f.size) <= sizeTolerance {
				gap := f.x0 - sp.BBox.X1
				if gap > wordSpaceMultiplier*f.size || gap > 3.0 {
					sp.Text += " "
				}
				sp.Text += f.text
				sp.BBox = unionRect(sp.BBox, box)
				continue
			}
		}
		line.Spans = append(line.Spans, Span{
			Text: f.text,
			Font: f.font,
			Size: f.size,
			Bold: IsBoldFont(f.font),
			BBox: box,
		})
	}
	return line
}

func lineBBox(l Line) Rect {
	box := l.Spans[0].BBox
	for _, sp := range l.Spans[1:] {
		box = unionRect(box, sp.BBox)
	}
	return box
}

func maxSpanSize(l Line) float64 {
	size := 0.0
	for _, sp := range l.Spans {
		if sp.Size > size {
			size = sp.Size
		}
	}
	return size
}

func unionRect(a, b Rect) Rect {
	return Rect{
		X0: math.Min(a.X0, b.X0),
		Y0: math.Min(a.Y0, b.Y0),
		X1: math.Max(a.X1, b.X1),
		Y1: math.Max(a.Y1, b.Y1),
	}
}

func overlapWidth(a, b Rect) float64 {
	return math.Min(a.X1, b.X1) - math.Max(a.X0, b.X0)
}

// renderPageText joins every line of every block with newlines, blocks in
// top-to-bottom order.
func renderPageText(blocks []Block) string {
	var lines []string
	for _, b := range blocks {
		for _, l := range b.Lines {
			lines = append(lines, l.Text())
		}
	}
	return strings.Join(lines, "\n")
}
