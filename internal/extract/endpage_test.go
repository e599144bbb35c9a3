package extract

import "testing"

func TestComputeEndPages(t *testing.T) {
	t.Run("nested levels", func(t *testing.T) {
		sections := []Section{
			{Title: "A", StartPage: 1, Level: 1},
			{Title: "A1", StartPage: 3, Level: 2},
			{Title: "A2", StartPage: 5, Level: 2},
			{Title: "B", StartPage: 8, Level: 1},
		}
		result := computeEndPages(sections, 20)

		wantEnds := []int{7, 4, 7, 20}
		for i, want := range wantEnds {
			if result[i].EndPage != want {
				t.Errorf("%s: expected end page %d, got %d", result[i].Title, want, result[i].EndPage)
			}
		}
	})

	t.Run("single section spans the document", func(t *testing.T) {
		result := computeEndPages([]Section{{Title: "Only", StartPage: 1, Level: 1}}, 50)
		if result[0].EndPage != 50 {
			t.Errorf("expected end page 50, got %d", result[0].EndPage)
		}
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		sections := []Section{{Title: "A", StartPage: 1, Level: 1}}
		computeEndPages(sections, 10)
		if sections[0].EndPage != 0 {
			t.Errorf("input section mutated: %+v", sections[0])
		}
	})

	t.Run("empty input", func(t *testing.T) {
		result := computeEndPages(nil, 10)
		if result == nil || len(result) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", result)
		}
	})
}

func TestSanitizeTitles(t *testing.T) {
	sections := []Section{
		{Title: "Real\x08 Title\x08", StartPage: 1, Level: 1},
		{Title: "  padded  ", StartPage: 2, Level: 1},
		{Title: "with\x00null\x1fchars", StartPage: 3, Level: 1},
	}
	sanitizeTitles(sections)

	want := []string{"Real Title", "padded", "withnullchars"}
	for i, w := range want {
		if sections[i].Title != w {
			t.Errorf("title %d: expected %q, got %q", i, w, sections[i].Title)
		}
	}
}
