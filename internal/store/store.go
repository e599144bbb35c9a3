// Package store persists pipeline artifacts in the output directory and
// loads them back for downstream stages.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pagecast/pagecast/internal/extract"
	"github.com/pagecast/pagecast/internal/sections"
	"github.com/pagecast/pagecast/internal/verify"
)

// Artifact file names within the output directory.
const (
	ExtractionFileName = "extracted_text.json"
	ScriptFileName     = "podcast_script.txt"
	ReportFileName     = "verification_report.json"
	CallLogFileName    = "llm_log.json"
)

// Dir is an output directory holding the pipeline's artifacts.
type Dir struct {
	path string
}

// NewDir returns a Dir rooted at path. The directory is created lazily by
// the write functions.
func NewDir(path string) Dir {
	return Dir{path: path}
}

// Path returns the directory root.
func (d Dir) Path() string { return d.path }

// ExtractionPath returns the path of the cached extraction result.
func (d Dir) ExtractionPath() string { return filepath.Join(d.path, ExtractionFileName) }

// ScriptPath returns the path of the generated script.
func (d Dir) ScriptPath() string { return filepath.Join(d.path, ScriptFileName) }

// ReportPath returns the path of the verification report.
func (d Dir) ReportPath() string { return filepath.Join(d.path, ReportFileName) }

// CallLogPath returns the path of the LLM call log.
func (d Dir) CallLogPath() string { return filepath.Join(d.path, CallLogFileName) }

// WriteJSON writes v as indented UTF-8 JSON to path, creating parent
// directories as needed. Non-ASCII characters are written literally.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// WriteText writes text to path, creating parent directories as needed.
func WriteText(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteExtraction persists an extraction result to path.
func WriteExtraction(path string, result *extract.Result) error {
	return WriteJSON(path, result)
}

// ReadExtraction loads a cached extraction result from path.
func ReadExtraction(path string) (*extract.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction cache: %w", err)
	}
	var result extract.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("invalid extraction cache %s: %w", path, err)
	}
	return &result, nil
}

// WriteScript persists the script text to path.
func WriteScript(path, script string) error {
	return WriteText(path, script)
}

// WriteReport persists a verification report to path.
func WriteReport(path string, report *verify.Report) error {
	return WriteJSON(path, report)
}

// RunConfig is the user-supplied generation request: which sections of the
// extracted document the script should cover.
type RunConfig struct {
	Sections []sections.Selection `json:"sections"`
}

// ReadRunConfig loads a generation request from path.
func ReadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config: %w", err)
	}
	var cfg RunConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid run config %s: %w", path, err)
	}
	return &cfg, nil
}
