// Package log provides structured event logging.
// Events are appended as JSON lines to a file under the data directory.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event type constants.
const (
	EventFocusCompleted = "focus_completed"
	EventBreakCompleted = "break_completed"
	EventSkipped        = "skipped"
	EventStorageError   = "storage_error"
	EventAudioError     = "audio_error"
)

// LogEvent represents a single structured event written to the log.
type LogEvent struct {
	Time     time.Time `json:"time"`
	Event    string    `json:"event"`
	Mode     string    `json:"mode,omitempty"`
	Category string    `json:"category,omitempty"`
	Minutes  int       `json:"minutes,omitempty"`
	Key      string    `json:"key,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Logger writes append-only JSONL events to a log file.
// A nil *Logger discards everything.
type Logger struct {
	path string
	mu   sync.Mutex
}

// NewLogger creates a Logger that appends to path.
// Creates the parent directory if it does not already exist.
func NewLogger(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &Logger{path: path}, nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes a single LogEvent as one JSON line.
// If event.Time is the zero value, it is set to time.Now().UTC().
func (l *Logger) Append(event LogEvent) error {
	if l == nil {
		return nil
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write log event: %w", err)
	}
	return nil
}

// Record appends event and drops any write error. Logging must never
// interrupt the timer.
func (l *Logger) Record(event LogEvent) {
	if err := l.Append(event); err != nil {
		// Best-effort logging.
		_ = err
	}
}

// StorageError records a swallowed persistence failure for key.
func (l *Logger) StorageError(key string, err error) {
	if err == nil {
		return
	}
	l.Record(LogEvent{Event: EventStorageError, Key: key, Error: err.Error()})
}

// ReadAll reads and parses all events from the log file.
// Returns an empty slice (not an error) if the file does not exist.
func (l *Logger) ReadAll() ([]LogEvent, error) {
	if l == nil {
		return []LogEvent{}, nil
	}
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []LogEvent{}, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var events []LogEvent
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event LogEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	return events, nil
}
