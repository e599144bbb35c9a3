package extract

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pagecast/pagecast/internal/docsource"
)

// Characters whose presence at the start of a line mark it as a nav arrow.
var arrowChars = map[rune]bool{'→': true, '▶': true, '▸': true, '►': true}

// How many leading lines per page feed the nav-bar frequency scan.
const navScanLines = 5

// Fraction of the page height that counts as the top region when hunting
// for hyperlink chrome.
const topRegionFraction = 0.15

/// cleanPages runs the cleanup passes over every page's raw text, in order:
// nav-bar removal, arrow-link removal, top-hyperlink removal, and encoding
// cleanup.
func cleanPages(pages []docsource.Page, totalPages, maxPageAppearances int, log *slog.Logger) []Page {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}

	navLines := buildNavBarLines(texts, totalPages, maxPageAppearances)
	texts = removeNavBars(texts, navLines)
	if len(navLines) > 0 {
		sample := make([]string, 0, 3)
		for _, ln := range sortedKeys(navLines) {
			if len(sample) == 3 {
				break
			}
			sample = append(sample, ln)
		}
		log.Warn("nav-bar lines removed", "distinct", len(navLines), "sample", sample)
	}

	texts = removeArrowLinks(texts)
	texts = removeTopHyperlinks(texts, pages, topHyperlinkTexts(pages))
	texts = encodingCleanup(texts, pages, log)

	cleaned := make([]Page, len(pages))
	for i, p := range pages {
		cleaned[i] = Page{PageNumber: p.Number, Text: texts[i]}
	}
	return cleaned
}

// buildNavBarLines scans the top lines of every page and returns the
// stripped lines whose page frequency exceeds the nav-bar threshold. A line
// repeated within one page counts once per raw variant.
func buildNavBarLines(texts []string, totalPages, maxPageAppearances int) map[string]bool {
	threshold := maxPageAppearances
	if threshold <= 0 {
		threshold = totalPages / 2
	}

	freq := map[string]int{}
	for _, text := range texts {
		lines := strings.Split(text, "\n")
		if len(lines) > navScanLines {
			lines = lines[:navScanLines]
		}
		seen := map[string]bool{}
		for _, line := range lines {
			if seen[line] {
				continue
			}
			seen[line] = true
			if stripped := strings.TrimSpace(line); stripped != "" {
				freq[stripped]++
			}
		}
	}

	nav := map[string]bool{}
	for line, count := range freq {
		if count > threshold {
			nav[line] = true
		}
	}
	return nav
}

// removeNavBars strips nav-bar lines from every page.
func removeNavBars(texts []string, navLines map[string]bool) []string {
	cleaned := make([]string, len(texts))
	for i, text := range texts {
		var kept []string
		for _, line := range strings.Split(text, "\n") {
			if navLines[strings.TrimSpace(line)] {
				continue
			}
			kept = append(kept, line)
		}
		cleaned[i] = strings.Join(kept, "\n")
	}
	return cleaned
}

// removeArrowLinks drops lines whose first non-whitespace character is a
// nav arrow.
func removeArrowLinks(texts []string) []string {
	cleaned := make([]string, len(texts))
	for i, text := range texts {
		var kept []string
		for _, line := range strings.Split(text, "\n") {
			stripped := strings.TrimLeftFunc(line, unicode.IsSpace)
			if stripped != "" {
				if r, _ := utf8.DecodeRuneInString(stripped); arrowChars[r] {
					continue
				}
			}
			kept = append(kept, line)
		}
		cleaned[i] = strings.Join(kept, "\n")
	}
	return cleaned
}

// topHyperlinkTexts collects, per 1-based page number, the span texts that
// overlap link annotations in the top region of the page.
func topHyperlinkTexts(pages []docsource.Page) map[int][]string {
	topTexts := map[int][]string{}
	for _, page := range pages {
		topLimit := topRegionFraction * page.Height

		var linkRects []docsource.Rect
		for _, link := range page.Links {
			if link.Rect.Y0 < topLimit {
				linkRects = append(linkRects, link.Rect)
			}
		}
		if len(linkRects) == 0 {
			continue
		}

		seen := map[string]bool{}
		var snippets []string
		for _, block := range page.Blocks {
			for _, line := range block.Lines {
				for _, span := range line.Spans {
					for _, lr := range linkRects {
						if span.BBox.Intersects(lr) {
							if t := strings.TrimSpace(span.Text); t != "" && !seen[t] {
								seen[t] = true
								snippets = append(snippets, t)
							}
							break
						}
					}
				}
			}
		}
		if len(snippets) > 0 {
			topTexts[page.Number] = snippets
		}
	}
	return topTexts
}

// removeTopHyperlinks drops lines made up entirely of top-hyperlink text: a
// line goes when every whitespace-separated token appears inside one of the
// page's link snippets.
func removeTopHyperlinks(texts []string, pages []docsource.Page, topMap map[int][]string) []string {
	cleaned := make([]string, len(texts))
	for i, text := range texts {
		snippets := topMap[pages[i].Number]
		if len(snippets) == 0 {
			cleaned[i] = text
			continue
		}

		var kept []string
		for _, line := range strings.Split(text, "\n") {
			tokens := strings.Fields(line)
			if len(tokens) > 0 && allTokensInSnippets(tokens, snippets) {
				continue
			}
			kept = append(kept, line)
		}
		cleaned[i] = strings.Join(kept, "\n")
	}
	return cleaned
}

func allTokensInSnippets(tokens, snippets []string) bool {
	for _, tok := range tokens {
		found := false
		for _, sn := range snippets {
			if strings.Contains(sn, tok) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// encodingCleanup drops bytes that do not form valid UTF-8, removes the
// blank lines left behind, and warns once per affected page.
func encodingCleanup(texts []string, pages []docsource.Page, log *slog.Logger) []string {
	cleaned := make([]string, len(texts))
	for i, text := range texts {
		var b strings.Builder
		dropped := false
		for j := 0; j < len(text); {
			r, size := utf8.DecodeRuneInString(text[j:])
			if r == utf8.RuneError && size == 1 {
				dropped = true
				j++
				continue
			}
			b.WriteRune(r)
			j += size
		}
		if dropped {
			log.Warn("encoding cleanup: characters dropped", "page", pages[i].Number)
		}

		var kept []string
		for _, line := range strings.Split(b.String(), "\n") {
			if strings.TrimSpace(line) != "" {
				kept = append(kept, line)
			}
		}
		cleaned[i] = strings.Join(kept, "\n")
	}
	return cleaned
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
