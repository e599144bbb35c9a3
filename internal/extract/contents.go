package extract

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/pagecast/pagecast/internal/docsource"
)

// Keywords that identify a contents page, checked case-insensitively
// against the leading lines of every page.
var contentsKeywords = []string{"table of contents", "contents", "table des matières"}

// How many leading lines of a page are scanned for a contents keyword.
// Footer occurrences of the keyword must not produce a match.
const contentsScanLines = 15

// Indentation threshold in points for assigning levels from a contents page.
const indentThresholdPt = 10.0

// tocLineRE captures (title)(dot or dash leader)(page number).
var tocLineRE = regexp.MustCompile(`^(.+?)\s*[.\-–—]+\s*(\d+)\s*$`)

// pageFirstRE captures (page number)(whitespace)(title).
var pageFirstRE = regexp.MustCompile(`^\s*(\d+)\s+(.+)\s*$`)

// numberOnlyRE matches a line holding nothing but a page number.
var numberOnlyRE = regexp.MustCompile(`^\s*(\d+)\s*$`)

// alphaCount returns the number of letters in s.
func alphaCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func isContentsKeyword(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range contentsKeywords {
		if lower == kw {
			return true
		}
	}
	return false
}

// findContentsPageIndex returns the 0-based index of the first page whose
// top lines mention a contents keyword, or -1.
func findContentsPageIndex(pages []docsource.Page) int {
	for idx, page := range pages {
		lines := strings.Split(strings.TrimSpace(page.Text), "\n")
		if len(lines) > contentsScanLines {
			lines = lines[:contentsScanLines]
		}
		for _, line := range lines {
			lower := strings.ToLower(line)
			for _, kw := range contentsKeywords {
				if strings.Contains(lower, kw) {
					return idx
				}
			}
		}
	}
	return -1
}

// tocEntry is a raw contents-page hit before level assignment.
type tocEntry struct {
	title string
	page  int
	x     float64
}

// parseContentsPage extracts sections from the layout of a contents page.
//
// Three line formats are recognized: the classic dot-leader style
// "title ... page", a bare page number followed by its title on the next
// line, and the page-number-first style "page  title". Lines matching no
// format are held as a pending prefix and prepended to the next matched
// title, which handles entries whose title wraps before the leader.
//
// Levels come from x-indentation relative to the leftmost matched entry in
// each column, so sidebar blocks with no valid entries cannot skew the
// baseline.
func parseContentsPage(page docsource.Page, minHeadingChars int) []Section {
	blocks := page.Blocks
	if len(blocks) == 0 {
		return nil
	}

	avgWidth := 0.0
	for _, b := range blocks {
		avgWidth += b.BBox.Width()
	}
	avgWidth /= float64(len(blocks))

	columns := clusterColumns(blocks, avgWidth)

	columnEntries := make([][]tocEntry, len(columns))
	for colIdx, col := range columns {
		for _, block := range col {
			columnEntries[colIdx] = append(columnEntries[colIdx],
				parseBlockLines(block, minHeadingChars)...)
		}
	}

	var sections []Section
	for _, entries := range columnEntries {
		if len(entries) == 0 {
			continue
		}
		colMinX := entries[0].x
		for _, e := range entries[1:] {
			if e.x < colMinX {
				colMinX = e.x
			}
		}
		for _, e := range entries {
			indent := e.x - colMinX
			level := 1
			if indent > indentThresholdPt {
				level = 2
			}
			if indent > indentThresholdPt*2 {
				level = 3
			}
			sections = append(sections, Section{Title: e.title, StartPage: e.page, Level: level})
		}
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].StartPage < sections[j].StartPage
	})
	return sections
}

// clusterColumns groups blocks into columns by left edge. Unique left-edge
// positions are clustered wherever the gap between neighbors exceeds the
// average block width; each block joins the first cluster whose range
// contains it, with a quarter-width tolerance on either side. Columns come
// back sorted top to bottom.
func clusterColumns(blocks []docsource.Block, avgWidth float64) [][]docsource.Block {
	seen := map[float64]bool{}
	var xLefts []float64
	for _, b := range blocks {
		x := roundTenth(b.BBox.X0)
		if !seen[x] {
			seen[x] = true
			xLefts = append(xLefts, x)
		}
	}
	sort.Float64s(xLefts)

	type xrange struct{ start, end float64 }
	var ranges []xrange
	start, end := xLefts[0], xLefts[0]
	for _, x := range xLefts[1:] {
		if x-end > avgWidth {
			ranges = append(ranges, xrange{start, end})
			start = x
		}
		end = x
	}
	ranges = append(ranges, xrange{start, end})

	columns := make([][]docsource.Block, len(ranges))
	for _, b := range blocks {
		bx := roundTenth(b.BBox.X0)
		for i, r := range ranges {
			if r.start-avgWidth/4 <= bx && bx <= r.end+avgWidth/4 {
				columns[i] = append(columns[i], b)
				break
			}
		}
	}
	for _, col := range columns {
		sort.SliceStable(col, func(i, j int) bool {
			return col[i].BBox.Y0 < col[j].BBox.Y0
		})
	}
	return columns
}

// parseBlockLines runs the pattern matcher over one block's lines. The
// pending prefix never carries across blocks.
func parseBlockLines(block docsource.Block, minHeadingChars int) []tocEntry {
	type lineData struct {
		text string
		x    float64
	}
	var lines []lineData
	for _, l := range block.Lines {
		text := strings.TrimSpace(l.Text())
		if text != "" {
			lines = append(lines, lineData{text: text, x: l.MinX()})
		}
	}

	var entries []tocEntry
	pendingPrefix := ""
	pendingX := 0.0
	i := 0
	for i < len(lines) {
		lineText, lineX := lines[i].text, lines[i].x

		// Pattern 1: "title ... page number"
		if m := tocLineRE.FindStringSubmatch(lineText); m != nil {
			title := strings.TrimSpace(m[1])
			pageNum, _ := strconv.Atoi(m[2])
			// Only prepend the prefix when the base title is itself a
			// plausible heading fragment. An all-digit base title (a
			// "2024" left over from a year range) must not be inflated
			// by the preceding line.
			if pendingPrefix != "" && alphaCount(title) >= minHeadingChars {
				title = pendingPrefix + " " + title
				lineX = pendingX
			}
			pendingPrefix = "" // always clear on a pattern match
			if !isContentsKeyword(title) && alphaCount(title) >= minHeadingChars {
				entries = append(entries, tocEntry{title: title, page: pageNum, x: lineX})
			}
			i++
			continue
		}

		// Pattern 2: bare page number with the title on the next line
		if m := numberOnlyRE.FindStringSubmatch(lineText); m != nil && i+1 < len(lines) {
			nextText := lines[i+1].text
			if numberOnlyRE.FindStringSubmatch(nextText) == nil &&
				!isContentsKeyword(nextText) &&
				alphaCount(nextText) >= minHeadingChars {
				pageNum, _ := strconv.Atoi(m[1])
				title := nextText
				if pendingPrefix != "" {
					title = pendingPrefix + " " + title
					lineX = pendingX
					pendingPrefix = ""
				}
				entries = append(entries, tocEntry{title: title, page: pageNum, x: lineX})
				i += 2
				continue
			}
		}

		// Pattern 3: "page number  title"
		if m := pageFirstRE.FindStringSubmatch(lineText); m != nil {
			pageNum, _ := strconv.Atoi(m[1])
			title := strings.TrimSpace(m[2])
			if pendingPrefix != "" && alphaCount(title) >= minHeadingChars {
				title = pendingPrefix + " " + title
				lineX = pendingX
			}
			pendingPrefix = ""
			if !isContentsKeyword(title) && alphaCount(title) >= minHeadingChars {
				entries = append(entries, tocEntry{title: title, page: pageNum, x: lineX})
			}
			i++
			continue
		}

		// No pattern matched: accumulate as a title prefix when the line
		// has enough letters, otherwise reset.
		if alphaCount(lineText) >= minHeadingChars {
			if pendingPrefix == "" {
				pendingX = lineX
				pendingPrefix = lineText
			} else {
				pendingPrefix = pendingPrefix + " " + lineText
			}
		} else {
			pendingPrefix = ""
		}
		i++
	}
	return entries
}

func roundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}
