package cliout

import (
	"bytes"
	"strings"
	"testing"
)

func TestOutputTo(t *testing.T) {
	data := map[string]any{"name": "Financial Highlights", "start_page": 10}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"start_page": 10`) {
			t.Errorf("expected indented JSON, got %q", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "start_page: 10") {
			t.Errorf("expected yaml output, got %q", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		err := OutputTo(&buf, OutputFormat("toml"), data)
		if err == nil {
			t.Fatal("expected error for unknown format")
		}
	})
}

func TestSetOutputFormat(t *testing.T) {
	defer SetOutputFormat("yaml")

	SetOutputFormat("json")
	if GetOutputFormat() != OutputFormatJSON {
		t.Errorf("expected json, got %s", GetOutputFormat())
	}

	SetOutputFormat("yaml")
	if GetOutputFormat() != OutputFormatYAML {
		t.Errorf("expected yaml, got %s", GetOutputFormat())
	}

	// Unknown values fall back to the default
	SetOutputFormat("csv")
	if GetOutputFormat() != DefaultOutput {
		t.Errorf("expected default, got %s", GetOutputFormat())
	}
}
