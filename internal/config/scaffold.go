package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/toolgate/toolgate/internal/constants"
)

//go:embed defaults
var defaultFiles embed.FS

// DefaultSettingsTOML returns the embedded default settings file.
func DefaultSettingsTOML() []byte {
	data, _ := defaultFiles.ReadFile("defaults/" + constants.SettingsFileName)
	return data
}

// Scaffold writes the embedded default settings, rules and hooks into
// dir. Existing files are only replaced when force is set.
func Scaffold(dir string, force bool) error {
	return fs.WalkDir(defaultFiles, "defaults", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel("defaults", path)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, constants.DirMode); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			return nil
		}

		if _, err := os.Stat(target); err == nil && !force {
			return nil
		}
		data, err := defaultFiles.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, constants.FileMode); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		return nil
	})
}
