// Package audit provides a JSONL decision log for toolgate dispatches.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/toolgate/toolgate/internal/constants"
	"github.com/toolgate/toolgate/internal/logger"
	"github.com/toolgate/toolgate/internal/policy"
)

// Version of the audit entry format.
const Version = 1

// TimestampFormat is the format used for audit log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// Entry records one dispatch: the event, every outcome, and the verdict.
type Entry struct {
	Version        int              `json:"version"`
	SessionID      string           `json:"session_id,omitempty"`
	Timestamp      string           `json:"timestamp"`
	DurationMs     float64          `json:"duration_ms"`
	Event          policy.EventKind `json:"event"`
	ToolName       string           `json:"tool_name,omitempty"`
	Verdict        policy.Action    `json:"verdict"`
	BlockingSource string           `json:"blocking_source,omitempty"`
	Reasons        []string         `json:"reasons,omitempty"`
	Outcomes       []policy.Outcome `json:"outcomes,omitempty"`
	ConfigDir      string           `json:"config_dir,omitempty"`
}

var (
	mu        sync.Mutex
	auditFile *os.File
	enabled   bool
)

// DefaultLogPath returns ~/.local/share/toolgate/audit.log.
func DefaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", constants.AppName, "audit.log"), nil
}

// Init opens the audit log for appending, rotating it first if it has
// grown past maxBytes (0 disables rotation). An empty path selects the
// default location; disable turns audit logging off entirely.
func Init(path string, maxBytes int64, disable bool) error {
	mu.Lock()
	defer mu.Unlock()

	if disable {
		enabled = false
		return nil
	}

	if path == "" {
		var err error
		path, err = DefaultLogPath()
		if err != nil {
			logger.Debug("failed to get default audit log path", "error", err)
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		logger.Debug("failed to create audit log directory", "error", err)
		return err
	}

	if maxBytes > 0 {
		if err := rotateIfLarge(path, maxBytes); err != nil {
			// Rotation failure is not a reason to lose audit coverage.
			logger.Warn("audit log rotation failed", "path", path, "error", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open audit log file", "error", err)
		return err
	}

	auditFile = f
	enabled = true
	logger.Debug("audit logging initialized", "path", path)
	return nil
}

// Close closes the audit log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if auditFile != nil {
		err := auditFile.Close()
		auditFile = nil
		enabled = false
		return err
	}
	return nil
}

// Log writes an entry to the audit log.
// If audit logging is not initialized or disabled, this is a no-op.
func Log(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || auditFile == nil {
		return nil
	}

	entry.Version = Version
	entry.Timestamp = time.Now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Debug("failed to marshal audit entry", "error", err)
		return err
	}

	if _, err := auditFile.Write(append(data, '\n')); err != nil {
		logger.Debug("failed to write audit entry", "error", err)
		return err
	}

	return nil
}

// IsEnabled returns whether audit logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Reset resets the audit state. Used for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if auditFile != nil {
		auditFile.Close()
	}
	auditFile = nil
	enabled = false
}
