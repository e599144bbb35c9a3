package extract

import (
	"context"
	"strings"
	"testing"
)

type stubExtractor struct {
	name string
}

func (s *stubExtractor) ExtractFile(_ context.Context, _ string) (*Result, error) {
	return &Result{Metadata: Metadata{Filename: s.name}}, nil
}

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry(nil)
		pdf := &stubExtractor{name: "pdf"}
		r.Register("pdf", pdf)

		got, err := r.Get("pdf")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got != pdf {
			t.Error("expected the registered extractor back")
		}
	})

	t.Run("extension normalization", func(t *testing.T) {
		r := NewRegistry(nil)
		r.Register(".PDF", &stubExtractor{})

		if _, err := r.Get("pdf"); err != nil {
			t.Errorf("dotted uppercase registration should match plain lowercase: %v", err)
		}
		if _, err := r.ForFile("/tmp/Annual Report.PDF"); err != nil {
			t.Errorf("uppercase file extension should resolve: %v", err)
		}
	})

	t.Run("unknown extension", func(t *testing.T) {
		r := NewRegistry(nil)
		r.Register("pdf", &stubExtractor{})

		_, err := r.Get("docx")
		if err == nil {
			t.Fatal("expected error for unregistered extension")
		}
		if !strings.Contains(err.Error(), `no extractor registered for ".docx"`) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("extensions sorted", func(t *testing.T) {
		r := NewRegistry(nil)
		r.Register("pdf", &stubExtractor{})
		r.Register("epub", &stubExtractor{})

		got := r.Extensions()
		if len(got) != 2 || got[0] != "epub" || got[1] != "pdf" {
			t.Errorf("expected sorted extensions [epub pdf], got %v", got)
		}
	})
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(Options{}, nil)

	e, err := r.Get("pdf")
	if err != nil {
		t.Fatalf("default registry should include pdf: %v", err)
	}
	if _, ok := e.(*Extractor); !ok {
		t.Errorf("expected built-in PDF extractor, got %T", e)
	}
}
