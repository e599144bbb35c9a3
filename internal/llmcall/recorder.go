package llmcall

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Recorder appends LLM call records to a JSONL log file.
type Recorder struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewRecorder creates a recorder appending to path.
// An empty path disables recording.
func NewRecorder(path string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{path: path, logger: logger}
}

// Path returns the log file location.
func (r *Recorder) Path() string {
	return r.path
}

// Record appends one call record. Write failures are logged and dropped so
// call telemetry never fails a run.
func (r *Recorder) Record(call *Call) {
	if r == nil || r.path == "" || call == nil {
		return
	}

	data, err := json.Marshal(call)
	if err != nil {
		r.logger.Warn("failed to serialize LLM call record", "agent", call.Agent, "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			r.logger.Warn("failed to create LLM call log directory", "path", dir, "error", err)
			return
		}
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		r.logger.Warn("failed to open LLM call log", "path", r.path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		r.logger.Warn("failed to write LLM call record", "path", r.path, "error", err)
	}
}

// Track records a completed call and spends one unit of budget, warning
// when the budget hits zero. Both generation and verification route every
// call through here so the log and the budget stay in step.
func Track(rec *Recorder, budget *Budget, logger *slog.Logger, call *Call) {
	if logger == nil {
		logger = slog.Default()
	}
	if rec != nil {
		rec.Record(call)
	}
	if budget != nil {
		budget.Spend()
		if budget.Remaining() <= 0 {
			logger.Warn("LLM call budget exhausted", "limit", budget.Limit())
		}
	}
}
