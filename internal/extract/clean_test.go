package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/pagecast/pagecast/internal/docsource"
)

func TestBuildNavBarLines(t *testing.T) {
	t.Run("frequent top line detected", func(t *testing.T) {
		// 10 pages, threshold floor(10/2)=5, nav line on 6 pages.
		texts := make([]string, 10)
		for i := range texts {
			texts[i] = fmt.Sprintf("Content page %d", i+1)
			if i < 6 {
				texts[i] = "Home  About  Investors\n" + texts[i]
			}
		}
		nav := buildNavBarLines(texts, 10, 0)
		if !nav["Home  About  Investors"] {
			t.Errorf("expected nav line detected, got %v", nav)
		}

		cleaned := removeNavBars(texts, nav)
		for i, text := range cleaned {
			if strings.Contains(text, "Home  About  Investors") {
				t.Errorf("page %d still contains nav line: %q", i+1, text)
			}
			if !strings.Contains(text, fmt.Sprintf("Content page %d", i+1)) {
				t.Errorf("page %d lost its content: %q", i+1, text)
			}
		}
	})

	t.Run("line at threshold is kept", func(t *testing.T) {
		// Exactly threshold appearances must not be treated as a nav bar.
		texts := make([]string, 10)
		for i := range texts {
			texts[i] = "Body"
			if i < 5 {
				texts[i] = "Section label\n" + texts[i]
			}
		}
		nav := buildNavBarLines(texts, 10, 0)
		if nav["Section label"] {
			t.Error("line at the threshold should survive")
		}
	})

	t.Run("repeats within one page count once", func(t *testing.T) {
		texts := []string{
			"Repeated\nRepeated\nRepeated\nRepeated\nRepeated",
			"Other content",
			"More content",
			"Even more",
		}
		nav := buildNavBarLines(texts, 4, 0)
		if nav["Repeated"] {
			t.Error("within-page repeats must count as one appearance")
		}
	})

	t.Run("only top lines scanned", func(t *testing.T) {
		texts := make([]string, 4)
		for i := range texts {
			texts[i] = "a\nb\nc\nd\ne\nDeep footer"
		}
		nav := buildNavBarLines(texts, 4, 1)
		if nav["Deep footer"] {
			t.Error("line below the top window should not be scanned")
		}
		if !nav["a"] {
			t.Error("top line above the cap should be detected")
		}
	})
}

func TestRemoveArrowLinks(t *testing.T) {
	texts := []string{
		"Normal line\n→ Click here\n▶ Another nav\nKeep this",
		"▸ Sub link\n► More nav\nReal content",
	}
	cleaned := removeArrowLinks(texts)

	if strings.Contains(cleaned[0], "→ Click here") || strings.Contains(cleaned[0], "▶ Another nav") {
		t.Errorf("arrow lines survived: %q", cleaned[0])
	}
	if !strings.Contains(cleaned[0], "Normal line") || !strings.Contains(cleaned[0], "Keep this") {
		t.Errorf("regular lines lost: %q", cleaned[0])
	}
	if strings.Contains(cleaned[1], "▸ Sub link") || strings.Contains(cleaned[1], "► More nav") {
		t.Errorf("arrow lines survived: %q", cleaned[1])
	}
	if !strings.Contains(cleaned[1], "Real content") {
		t.Errorf("regular lines lost: %q", cleaned[1])
	}

	t.Run("indented arrow still removed", func(t *testing.T) {
		out := removeArrowLinks([]string{"   → indented link\nbody"})
		if strings.Contains(out[0], "indented link") {
			t.Errorf("indented arrow line survived: %q", out[0])
		}
	})

	t.Run("arrow mid-line kept", func(t *testing.T) {
		out := removeArrowLinks([]string{"see → there"})
		if out[0] != "see → there" {
			t.Errorf("mid-line arrow should be kept, got %q", out[0])
		}
	})
}

func TestTopHyperlinkRemoval(t *testing.T) {
	linkSpan := func(text string, x0, y0, x1, y1 float64) docsource.Span {
		return docsource.Span{Text: text, Font: "Helvetica", Size: 10,
			BBox: docsource.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}}
	}
	page := docsource.Page{
		Number: 1,
		Width:  612,
		Height: 800,
		Links: []docsource.Link{
			{URI: "https://example.com/home", Rect: docsource.Rect{X0: 50, Y0: 20, X1: 150, Y1: 40}},
		},
		Blocks: []docsource.Block{{
			BBox: docsource.Rect{X0: 50, Y0: 20, X1: 200, Y1: 40},
			Lines: []docsource.Line{{Spans: []docsource.Span{
				linkSpan("Home", 50, 20, 80, 40),
				linkSpan("About", 90, 20, 130, 40),
			}}},
		}},
	}

	t.Run("snippets collected from top region", func(t *testing.T) {
		topMap := topHyperlinkTexts([]docsource.Page{page})
		snippets := topMap[1]
		if len(snippets) != 2 {
			t.Fatalf("expected 2 snippets, got %v", snippets)
		}
	})

	t.Run("links below top region ignored", func(t *testing.T) {
		low := page
		low.Links = []docsource.Link{
			{Rect: docsource.Rect{X0: 50, Y0: 700, X1: 150, Y1: 720}},
		}
		if topMap := topHyperlinkTexts([]docsource.Page{low}); len(topMap) != 0 {
			t.Errorf("expected no snippets, got %v", topMap)
		}
	})

	t.Run("lines of pure link text removed", func(t *testing.T) {
		texts := []string{"Home About\nReal content line"}
		topMap := topHyperlinkTexts([]docsource.Page{page})
		cleaned := removeTopHyperlinks(texts, []docsource.Page{page}, topMap)
		if strings.Contains(cleaned[0], "Home About") {
			t.Errorf("hyperlink line survived: %q", cleaned[0])
		}
		if !strings.Contains(cleaned[0], "Real content line") {
			t.Errorf("content line lost: %q", cleaned[0])
		}
	})

	t.Run("mixed lines kept", func(t *testing.T) {
		texts := []string{"Home is where the report starts"}
		topMap := topHyperlinkTexts([]docsource.Page{page})
		cleaned := removeTopHyperlinks(texts, []docsource.Page{page}, topMap)
		if cleaned[0] != texts[0] {
			t.Errorf("line with non-link tokens should be kept, got %q", cleaned[0])
		}
	})

	t.Run("pages without snippets untouched", func(t *testing.T) {
		bare := docsource.Page{Number: 2, Height: 800}
		texts := []string{"Home About"}
		cleaned := removeTopHyperlinks(texts, []docsource.Page{bare}, map[int][]string{})
		if cleaned[0] != "Home About" {
			t.Errorf("expected untouched text, got %q", cleaned[0])
		}
	})
}

func TestEncodingCleanup(t *testing.T) {
	pages := []docsource.Page{{Number: 1}}

	t.Run("invalid bytes dropped", func(t *testing.T) {
		texts := []string{"Hello\xff World"}
		cleaned := encodingCleanup(texts, pages, slog.Default())
		if cleaned[0] != "Hello World" {
			t.Errorf("expected invalid byte dropped, got %q", cleaned[0])
		}
	})

	t.Run("blank lines removed everywhere", func(t *testing.T) {
		texts := []string{"first\n\n   \nsecond"}
		cleaned := encodingCleanup(texts, pages, slog.Default())
		if cleaned[0] != "first\nsecond" {
			t.Errorf("expected blank lines removed, got %q", cleaned[0])
		}
	})

	t.Run("valid multibyte text preserved", func(t *testing.T) {
		texts := []string{"Vindmøller — é÷ü\n日本語"}
		cleaned := encodingCleanup(texts, pages, slog.Default())
		if cleaned[0] != texts[0] {
			t.Errorf("multibyte text mangled: %q", cleaned[0])
		}
	})
}

func TestCleanPages(t *testing.T) {
	// Nav line on 3 of 4 pages (threshold 2), one arrow line, and a blank
	// line that the final pass removes.
	mk := func(num int, text string) docsource.Page {
		return docsource.Page{Number: num, Width: 612, Height: 792, Text: text}
	}
	pages := []docsource.Page{
		mk(1, "Menu Bar\nIntro text\n→ jump\n\nreal body"),
		mk(2, "Menu Bar\nChapter text"),
		mk(3, "Menu Bar\nMore text"),
		mk(4, "Closing text"),
	}

	cleaned := cleanPages(pages, 4, 0, slog.Default())
	if len(cleaned) != 4 {
		t.Fatalf("expected 4 pages, got %d", len(cleaned))
	}
	if cleaned[0].PageNumber != 1 {
		t.Errorf("page numbers must survive cleaning, got %+v", cleaned[0])
	}
	if got := cleaned[0].Text; got != "Intro text\nreal body" {
		t.Errorf("page 1: expected %q, got %q", "Intro text\nreal body", got)
	}
	for _, p := range cleaned {
		if strings.Contains(p.Text, "Menu Bar") {
			t.Errorf("nav line survived on page %d: %q", p.PageNumber, p.Text)
		}
	}
	if cleaned[3].Text != "Closing text" {
		t.Errorf("page 4: expected untouched content, got %q", cleaned[3].Text)
	}
}

func TestCleanPagesIdempotent(t *testing.T) {
	mk := func(num int, text string) docsource.Page {
		return docsource.Page{Number: num, Width: 612, Height: 792, Text: text}
	}
	pages := []docsource.Page{
		mk(1, "Menu Bar\nIntro text\n→ jump\n\nreal body"),
		mk(2, "Menu Bar\nChapter text"),
		mk(3, "Menu Bar\nMore text"),
		mk(4, "Closing text"),
	}

	first := cleanPages(pages, 4, 0, slog.Default())

	again := make([]docsource.Page, len(first))
	for i, p := range first {
		again[i] = mk(p.PageNumber, p.Text)
	}
	second := cleanPages(again, 4, 0, slog.Default())

	if len(second) != len(first) {
		t.Fatalf("second pass changed page count: %d vs %d", len(second), len(first))
	}
	for i := range first {
		if second[i].Text != first[i].Text {
			t.Errorf("page %d changed on second pass: %q vs %q",
				first[i].PageNumber, second[i].Text, first[i].Text)
		}
	}
}
