package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Settings holds the operational knobs from settings.toml. Everything
// here has a working default; a missing settings file is not an error.
type Settings struct {
	// DefaultHookTimeoutMs bounds hooks that declare no timeout_ms.
	DefaultHookTimeoutMs int `toml:"default_hook_timeout_ms"`
	// FailClosed turns hook runtime errors (spawn, timeout, protocol)
	// into deny instead of the default non-blocking allow.
	FailClosed bool `toml:"fail_closed"`
	// AuditLog is the decision log path; "" uses the default location.
	AuditLog string `toml:"audit_log"`
	// AuditLogMaxMB rotates (and zstd-compresses) the audit log above
	// this size. 0 disables rotation.
	AuditLogMaxMB int `toml:"audit_log_max_mb"`
	// DisableAudit turns the decision log off entirely.
	DisableAudit bool `toml:"disable_audit"`
	// BashWrappers are wrapper specs ("timeout <arg>", "env") stripped
	// from Bash command segments before rule patterns apply.
	BashWrappers []string `toml:"bash_wrappers"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() *Settings {
	return &Settings{
		DefaultHookTimeoutMs: 10000,
		AuditLogMaxMB:        64,
		BashWrappers: []string{
			"timeout <arg>",
			"env",
			"nice -n <arg>",
		},
	}
}

// ParseSettings decodes settings.toml content over the defaults.
func ParseSettings(data []byte) (*Settings, error) {
	s := DefaultSettings()
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.DefaultHookTimeoutMs <= 0 {
		return nil, fmt.Errorf("default_hook_timeout_ms must be positive, got %d", s.DefaultHookTimeoutMs)
	}
	if s.AuditLogMaxMB < 0 {
		return nil, fmt.Errorf("audit_log_max_mb must not be negative, got %d", s.AuditLogMaxMB)
	}
	return s, nil
}
