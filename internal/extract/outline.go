package extract

import (
	"strings"

	"github.com/pagecast/pagecast/internal/docsource"
)

// sectionsFromOutline converts embedded bookmark entries into sections,
// keeping the outline's own nesting levels.
func sectionsFromOutline(outline []docsource.OutlineEntry) []Section {
	sections := make([]Section, 0, len(outline))
	for _, e := range outline {
		sections = append(sections, Section{
			Title:     strings.TrimSpace(e.Title),
			StartPage: e.StartPage,
			Level:     e.Level,
		})
	}
	return sections
}
