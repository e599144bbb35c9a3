package llmcall

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ReadLog reads call records back from a JSONL log file.
func ReadLog(path string) ([]Call, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var calls []Call
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var c Call
		if err := json.Unmarshal([]byte(text), &c); err != nil {
			return nil, fmt.Errorf("invalid call record at line %d: %w", line, err)
		}
		calls = append(calls, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read call log: %w", err)
	}
	return calls, nil
}

// CountByAgent returns call counts grouped by agent.
func CountByAgent(calls []Call) map[string]int {
	counts := make(map[string]int)
	for _, c := range calls {
		counts[c.Agent]++
	}
	return counts
}

// TotalUsage sums token usage across calls.
func TotalUsage(calls []Call) Usage {
	var total Usage
	for _, c := range calls {
		total.PromptTokens += c.Usage.PromptTokens
		total.CompletionTokens += c.Usage.CompletionTokens
	}
	return total
}
