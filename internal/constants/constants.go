// Package constants defines shared constants used across the toolgate codebase.
package constants

import (
	"os"
	"time"
)

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables
const EnvConfigDir = "TOOLGATE_CONFIG"

// Application paths
const (
	AppName          = "toolgate"
	XDGConfigSubdir  = ".config"
	SettingsFileName = "settings.toml"
	RulesDirName     = "rules"
	HooksDirName     = "hooks"
)

// DefaultHookTimeout bounds a hook process when timeout_ms is not declared.
const DefaultHookTimeout = 10 * time.Second
