package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
)

// variablePattern matches {{placeholder}} references, optionally padded
// with spaces inside the braces.
var variablePattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// ExtractVariables returns the placeholder names referenced by a template.
// "Summarize {{source_text}} in {{target_word_count}} words" returns
// ["source_text", "target_word_count"], sorted and deduplicated.
func ExtractVariables(text string) []string {
	matches := variablePattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool)
	var vars []string

	for _, match := range matches {
		if len(match) > 1 && !seen[match[1]] {
			seen[match[1]] = true
			vars = append(vars, match[1])
		}
	}

	sort.Strings(vars)
	return vars
}

// HashText returns a SHA256 hash of the text for change detection.
func HashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// Template describes one prompt template.
type Template struct {
	Name      string   `json:"name"`
	Text      string   `json:"text"`
	Variables []string `json:"variables,omitempty"`
	Hash      string   `json:"hash"`
}

// Describe returns a template with its extracted variables and hash.
func Describe(name string) (Template, error) {
	text, err := Load(name)
	if err != nil {
		return Template{}, err
	}
	return Template{
		Name:      name,
		Text:      text,
		Variables: ExtractVariables(text),
		Hash:      HashText(text),
	}, nil
}

// DescribeAll returns every embedded template, sorted by name.
func DescribeAll() []Template {
	names := Names()
	templates := make([]Template, 0, len(names))
	for _, name := range names {
		t, err := Describe(name)
		if err != nil {
			continue
		}
		templates = append(templates, t)
	}
	return templates
}
