// Package testutil provides shared test helpers for toolgate tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/toolgate/toolgate/internal/constants"
)

// WriteConfigDir creates a temporary config directory from a map of
// relative path to file content, points TOOLGATE_CONFIG at it, and
// returns its path. Cleanup is registered on t.
func WriteConfigDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), constants.FileMode); err != nil {
			t.Fatal(err)
		}
	}

	t.Setenv(constants.EnvConfigDir, dir)
	return dir
}

// DenyRmRule is a rule file blocking recursive force-deletes.
const DenyRmRule = `---
name: block-dangerous-rm
enabled: true
event: PreToolUse
field: command
pattern: rm\s+-rf
operator: regex_match
action: deny
---
Recursive force-delete is blocked.
`

// AskEnvRule is a rule file escalating .env writes to a prompt.
const AskEnvRule = `---
name: ask-env-writes
enabled: true
event: PreToolUse
field: file_path
pattern: .env
operator: ends_with
action: ask
---
Writing to a .env file needs confirmation.
`
