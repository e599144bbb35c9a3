package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileExtractor produces the canonical extraction result for one file type.
type FileExtractor interface {
	ExtractFile(ctx context.Context, path string) (*Result, error)
}

var _ FileExtractor = (*Extractor)(nil)

// Registry maps file extensions to extractors with thread-safe access.
// Supporting a new file type means implementing FileExtractor and
// registering it under its extension; nothing else needs to change.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]FileExtractor
	logger     *slog.Logger
}

// NewRegistry creates an empty extractor registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		extractors: make(map[string]FileExtractor),
		logger:     logger,
	}
}

// Register adds an extractor for the given extension ("pdf" or ".pdf").
// Registering an extension twice replaces the earlier extractor.
func (r *Registry) Register(ext string, e FileExtractor) {
	key := normalizeExt(ext)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[key] = e
	r.logger.Info("registered extractor", "extension", key)
}

// Get returns the extractor for the given extension.
func (r *Registry) Get(ext string) (FileExtractor, error) {
	key := normalizeExt(ext)
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[key]
	if !ok {
		return nil, fmt.Errorf("no extractor registered for %q", "."+key)
	}
	return e, nil
}

// ForFile returns the extractor matching the file's extension.
func (r *Registry) ForFile(path string) (FileExtractor, error) {
	return r.Get(filepath.Ext(path))
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// DefaultRegistry returns a registry with the built-in PDF extractor
// registered.
func DefaultRegistry(opts Options, logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register("pdf", New(opts))
	return r
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
