// Package audit records permission decisions as JSON lines.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	auditFileMode = 0644
	auditDirMode  = 0755
)

// TypeDecision marks an event produced by classifying a tool call.
const TypeDecision = "permission_decision"

// Event is one audit record written as a single JSON line.
type Event struct {
	Time       time.Time `json:"time"`
	Type       string    `json:"type"`
	RequestID  string    `json:"request_id"`
	SessionID  string    `json:"session_id,omitempty"`
	HookEvent  string    `json:"hook_event,omitempty"`
	Tool       string    `json:"tool,omitempty"`
	Invocation string    `json:"invocation,omitempty"`
	Decision   string    `json:"decision"`
	Pattern    string    `json:"pattern,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Writer appends audit events to a JSONL file.
type Writer struct {
	path string
	mu   sync.Mutex
}

// NewWriter creates an append-only audit writer for path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the file the writer appends to.
func (w *Writer) Path() string {
	return w.path
}

// NewRequestID returns a fresh identifier for correlating audit records.
func NewRequestID() string {
	return uuid.NewString()
}

// Append writes one event as one JSONL line. A zero Time is set to now
// and an empty RequestID gets a new one.
func (w *Writer) Append(event Event) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	if event.RequestID == "" {
		event.RequestID = NewRequestID()
	}
	if event.Type == "" {
		event.Type = TypeDecision
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), auditDirMode); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, auditFileMode)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer file.Close()

	encoded, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	encoded = append(encoded, '\n')

	if _, err := file.Write(encoded); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync audit file: %w", err)
	}
	return nil
}
