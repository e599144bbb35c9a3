package prompts

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Resolver resolves prompt templates with on-disk overrides.
// Resolution order: override directory > embedded default.
type Resolver struct {
	dir    string
	logger *slog.Logger
}

// NewResolver creates a resolver that checks dir for override files
// before falling back to the embedded templates. An empty dir means
// embedded-only resolution.
func NewResolver(dir string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{dir: dir, logger: logger}
}

// Load returns the template text for name, preferring an override file
// named <name>.md in the resolver's directory.
func (r *Resolver) Load(name string) (string, error) {
	if r.dir != "" {
		path := filepath.Join(r.dir, name+".md")
		data, err := os.ReadFile(path)
		if err == nil {
			r.logger.Debug("using prompt override", "name", name, "path", path)
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("failed to read prompt override", "name", name, "path", path, "error", err)
		}
	}
	return Load(name)
}

// Render resolves a template and substitutes every {{key}} placeholder
// with its value.
func (r *Resolver) Render(name string, vars map[string]string) (string, error) {
	text, err := r.Load(name)
	if err != nil {
		return "", err
	}
	return substitute(text, vars), nil
}
