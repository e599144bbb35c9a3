// Package sections bridges user section selection and extraction output,
// mapping each requested section to the pages and text the extractor found.
package sections

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pagecast/pagecast/internal/extract"
)

// Selection is one requested section, typically read from the project
// config. PageOverride takes "42" or "50-65" form and wins over detected
// boundaries when set.
type Selection struct {
	Name         string `json:"name" yaml:"name" mapstructure:"name"`
	PageOverride string `json:"page_override,omitempty" yaml:"page_override,omitempty" mapstructure:"page_override"`
}

// Passage is a resolved section: its page range plus the concatenated page
// text with page markers.
type Passage struct {
	Name      string
	StartPage int
	EndPage   int
	Text      string
}

// NotFoundError reports a requested name with no match in the extraction.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("section %q not found; available sections: [%s]",
		e.Name, strings.Join(e.Available, ", "))
}

// Resolve maps every selection to its page range and text, preserving the
// caller's order. Names resolve by case-insensitive substring match in
// either direction; among multiple matches the greatest character overlap
// wins.
func Resolve(data *extract.Result, selected []Selection, log *slog.Logger) ([]Passage, error) {
	if log == nil {
		log = slog.Default()
	}
	if len(selected) == 0 {
		return []Passage{}, nil
	}

	pageText := make(map[int]string, len(data.Pages))
	for _, p := range data.Pages {
		pageText[p.PageNumber] = p.Text
	}

	passages := make([]Passage, 0, len(selected))
	for _, sel := range selected {
		var start, end int
		if sel.PageOverride != "" {
			var err error
			start, end, err = parsePageOverride(sel.PageOverride)
			if err != nil {
				return nil, err
			}
		} else {
			matched := findBestMatch(sel.Name, data.Sections)
			if matched == nil {
				available := make([]string, len(data.Sections))
				for i, s := range data.Sections {
					available[i] = s.Title
				}
				return nil, &NotFoundError{Name: sel.Name, Available: available}
			}
			start, end = matched.StartPage, matched.EndPage
		}

		passages = append(passages, Passage{
			Name:      sel.Name,
			StartPage: start,
			EndPage:   end,
			Text:      collectText(pageText, start, end),
		})
		log.Info("resolved section", "name", sel.Name, "start", start, "end", end)
	}
	return passages, nil
}

// FormatPassages renders resolved passages as a single source-text string
// with section and page markers, ready for prompt interpolation.
func FormatPassages(passages []Passage) string {
	var parts []string
	for _, p := range passages {
		parts = append(parts,
			fmt.Sprintf("\n=== Section: %s (Pages %d-%d) ===\n", p.Name, p.StartPage, p.EndPage))
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n")
}

// parsePageOverride parses "42" or "50-65" into an inclusive range.
func parsePageOverride(override string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(override), "-")
	first, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid page override %q: %w", override, err)
	}
	if len(parts) == 1 {
		return first, first, nil
	}
	second, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid page override %q: %w", override, err)
	}
	return first, second, nil
}

// findBestMatch does a case-insensitive substring match in either direction
// and breaks ties by the length of the shorter string.
func findBestMatch(name string, db []extract.Section) *extract.Section {
	nameLower := strings.ToLower(name)
	var best *extract.Section
	bestOverlap := -1

	for i := range db {
		titleLower := strings.ToLower(db[i].Title)
		if !strings.Contains(titleLower, nameLower) && !strings.Contains(nameLower, titleLower) {
			continue
		}
		overlap := len(nameLower)
		if len(titleLower) < overlap {
			overlap = len(titleLower)
		}
		if overlap > bestOverlap {
			best = &db[i]
			bestOverlap = overlap
		}
	}
	return best
}

// collectText concatenates page texts with page-number markers so
// downstream agents can reference specific pages.
func collectText(pageText map[int]string, start, end int) string {
	var parts []string
	for pn := start; pn <= end; pn++ {
		parts = append(parts, fmt.Sprintf("--- Page %d ---\n%s", pn, pageText[pn]))
	}
	return strings.Join(parts, "\n")
}
