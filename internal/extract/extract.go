// Package extract turns source documents into the canonical extraction
// result that every downstream step reads: section structure resolved
// through a three-tier cascade (embedded outline, contents page, font-size
// heuristic) plus cleaned per-page text.
package extract

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/pagecast/pagecast/internal/docsource"
)

// Defaults for section detection thresholds.
const (
	DefaultMajorSectionFontSize = 26.0
	DefaultHeadingFontSize      = 18.0
	DefaultMinHeadingChars      = 3
	DefaultMaxPageAppearances   = 0 // 0 resolves to floor(total pages / 2) at runtime
)

// Options tune section detection and page cleaning.
type Options struct {
	// MajorSectionFontSize is the minimum span size for a level-1 heading.
	MajorSectionFontSize float64
	// HeadingFontSize is the minimum span size for a level-2 heading.
	HeadingFontSize float64
	// MinHeadingChars is the minimum number of letters a heading needs.
	MinHeadingChars int
	// MaxPageAppearances is the nav-bar page-frequency threshold; 0 means
	// half the page count.
	MaxPageAppearances int
	// Workers bounds page-parse concurrency when reading from disk.
	Workers int
	Logger  *slog.Logger
}

// Extractor detects document structure and cleans page text.
type Extractor struct {
	opts Options
	log  *slog.Logger
}

// New returns an Extractor, filling unset options with defaults.
func New(opts Options) *Extractor {
	if opts.MajorSectionFontSize <= 0 {
		opts.MajorSectionFontSize = DefaultMajorSectionFontSize
	}
	if opts.HeadingFontSize <= 0 {
		opts.HeadingFontSize = DefaultHeadingFontSize
	}
	if opts.MinHeadingChars <= 0 {
		opts.MinHeadingChars = DefaultMinHeadingChars
	}
	if opts.MaxPageAppearances < 0 {
		opts.MaxPageAppearances = DefaultMaxPageAppearances
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{opts: opts, log: log}
}

// ExtractFile opens the PDF at path and extracts it. Failures surface as
// OpenError, EncryptedError, or NoTextError.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*Result, error) {
	e.log.Info("starting PDF extraction", "file", filepath.Base(path))

	doc, err := docsource.Open(ctx, path, docsource.Options{
		Workers: e.opts.Workers,
		Logger:  e.log,
	})
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, docsource.ErrEncrypted):
			return nil, &EncryptedError{Path: path}
		default:
			return nil, &OpenError{Path: path, Err: err}
		}
	}
	return e.Extract(doc)
}

// Extract runs section detection and cleaning over an already-open
// document.
func (e *Extractor) Extract(doc *docsource.Document) (*Result, error) {
	hasText := false
	for _, p := range doc.Pages {
		if strings.TrimSpace(p.Text) != "" {
			hasText = true
			break
		}
	}
	if !hasText {
		e.log.Error("no extractable text found", "file", doc.Filename)
		return nil, &NoTextError{Path: doc.Filename}
	}

	sections, strategy := e.detectSections(doc)
	sanitizeTitles(sections)
	sections = computeEndPages(sections, doc.PageCount)

	pages := cleanPages(doc.Pages, doc.PageCount, e.opts.MaxPageAppearances, e.log)

	result := &Result{
		Metadata: Metadata{
			Filename:           doc.Filename,
			TotalPages:         doc.PageCount,
			ExtractedAt:        time.Now().UTC().Format("2006-01-02T15:04:05Z"),
			ExtractionStrategy: strategy,
			Version:            resultVersion,
		},
		Sections: sections,
		Pages:    pages,
	}

	e.log.Info("extraction complete",
		"pages", doc.PageCount, "sections", len(sections), "strategy", strategy)
	return result, nil
}

// detectSections tries each tier in order and returns the sections with the
// name of the strategy that produced them.
func (e *Extractor) detectSections(doc *docsource.Document) ([]Section, string) {
	if len(doc.Outline) > 0 {
		e.log.Info("section detection: using embedded outline")
		return sectionsFromOutline(doc.Outline), StrategyOutline
	}

	if idx := findContentsPageIndex(doc.Pages); idx >= 0 {
		e.log.Info("section detection: using contents page", "page", idx+1)
		if sections := parseContentsPage(doc.Pages[idx], e.opts.MinHeadingChars); len(sections) > 0 {
			return sections, StrategyContentsPage
		}
	}

	e.log.Info("section detection: using font-size heuristic")
	return fontHeuristicSections(doc.Pages, doc.PageCount, e.opts), StrategyFontHeuristic
}
