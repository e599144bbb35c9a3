package extract

import (
	"strings"

	"github.com/pagecast/pagecast/internal/docsource"
)

// Bold spans at or above this size count as level-2 headings even when they
// fall below the regular heading size.
const boldHeadingMinSize = 14.0

// fontHeuristicSections scans every page for large or bold text and
// classifies headings by font size. Consecutive spans that land on the same
// level merge into a single title, and titles that repeat across too many
// pages are dropped as navigation chrome.
func fontHeuristicSections(pages []docsource.Page, totalPages int, opts Options) []Section {
	maxAppearances := opts.MaxPageAppearances
	if maxAppearances <= 0 {
		maxAppearances = totalPages / 2
	}

	var candidates []Section
	for _, page := range pages {
		prevLevel := 0
		merging := false

		for _, block := range page.Blocks {
			for _, line := range block.Lines {
				for _, span := range line.Spans {
					text := strings.TrimSpace(span.Text)
					if text == "" {
						continue
					}
					if alphaCount(text) < opts.MinHeadingChars {
						continue
					}

					level := 0
					switch {
					case span.Size >= opts.MajorSectionFontSize:
						level = 1
					case span.Size >= opts.HeadingFontSize:
						level = 2
					case span.Bold && span.Size >= boldHeadingMinSize:
						level = 2
					}
					if level == 0 {
						// Body text breaks any heading run.
						prevLevel = 0
						merging = false
						continue
					}

					if merging && prevLevel == level {
						candidates[len(candidates)-1].Title += " " + text
					} else {
						candidates = append(candidates, Section{
							Title:     text,
							StartPage: page.Number,
							Level:     level,
						})
						prevLevel = level
						merging = true
					}
				}
			}
		}
	}

	// Titles that show up on more pages than the threshold are nav-bar
	// fragments, not headings.
	titleCounts := map[string]int{}
	for _, c := range candidates {
		titleCounts[c.Title]++
	}

	seen := map[string]bool{}
	var filtered []Section
	for _, c := range candidates {
		if titleCounts[c.Title] > maxAppearances {
			continue
		}
		if seen[c.Title] {
			continue
		}
		seen[c.Title] = true
		filtered = append(filtered, c)
	}
	return filtered
}
