package extract

import "strings"

// sanitizeTitles drops C0 control characters from every section title and
// trims surrounding whitespace. PDF text extraction frequently leaves
// backspace characters inside heading titles.
func sanitizeTitles(sections []Section) {
	for i := range sections {
		cleaned := strings.Map(func(r rune) rune {
			if r < 0x20 {
				return -1
			}
			return r
		}, sections[i].Title)
		sections[i].Title = strings.TrimSpace(cleaned)
	}
}

// computeEndPages derives the end page for every section in a single pass.
// A section ends one page before the next section at the same or a
// shallower level, or at the last page of the document when no such
// section follows.
func computeEndPages(sections []Section, totalPages int) []Section {
	result := make([]Section, len(sections))
	copy(result, sections)

	for i := range result {
		end := totalPages
		for j := i + 1; j < len(result); j++ {
			if result[j].Level <= result[i].Level {
				end = result[j].StartPage - 1
				break
			}
		}
		result[i].EndPage = end
	}
	return result
}
