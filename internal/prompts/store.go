// Package prompts holds the embedded prompt templates for every agent in
// the generation and verification pipeline. Templates are markdown files
// with {{placeholder}} variables interpolated at call time.
package prompts

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed templates/*.md
var templateFS embed.FS

// Agent prompt names.
const (
	ExtractKeyPoints = "extract_key_points"
	Generate         = "generate"
	Evaluate         = "evaluate"
	Improve          = "improve"
	VerifyClaims     = "verify_claims"
	VerifyCoverage   = "verify_coverage"
)

// Load returns the raw template text for a prompt name.
func Load(name string) (string, error) {
	data, err := templateFS.ReadFile("templates/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("prompt template not found: %s", name)
	}
	return string(data), nil
}

// Render loads a template and substitutes every {{key}} placeholder with
// its value. Placeholders without a value are left in place.
func Render(name string, vars map[string]string) (string, error) {
	text, err := Load(name)
	if err != nil {
		return "", err
	}
	return substitute(text, vars), nil
}

func substitute(text string, vars map[string]string) string {
	for key, value := range vars {
		text = strings.ReplaceAll(text, "{{"+key+"}}", value)
	}
	return text
}

// Names lists the embedded template names, sorted.
func Names() []string {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}
