package docsource

import (
	"errors"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

func TestFlattenBookmarks(t *testing.T) {
	bms := []pdfcpu.Bookmark{
		{
			Title:    "Financial Highlights",
			PageFrom: 10,
			Kids: []pdfcpu.Bookmark{
				{Title: "Revenue Breakdown", PageFrom: 11},
			},
		},
		{Title: "Sustainability", PageFrom: 40},
	}

	entries := flattenBookmarks(bms, 1, nil)
	want := []OutlineEntry{
		{Level: 1, Title: "Financial Highlights", StartPage: 10},
		{Level: 2, Title: "Revenue Breakdown", StartPage: 11},
		{Level: 1, Title: "Sustainability", StartPage: 40},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if e != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], e)
		}
	}
}

func TestIsEncryptedErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"password prompt", errors.New("pdfcpu: please provide the correct password"), true},
		{"encrypted marker", errors.New("cannot decode encrypted stream"), true},
		{"unrelated", errors.New("unexpected EOF"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isEncryptedErr(tc.err); got != tc.want {
				t.Errorf("isEncryptedErr(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
