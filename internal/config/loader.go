// Package config loads rule and hook declarations from a config
// directory into an immutable snapshot. Loading fails closed: any invalid
// declaration rejects the whole load, so one bad file can never silently
// disable a security check.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/toolgate/toolgate/internal/constants"
	"github.com/toolgate/toolgate/internal/hook"
	"github.com/toolgate/toolgate/internal/patterns"
	"github.com/toolgate/toolgate/internal/policy"
)

// ErrInvalidConfig marks configuration validation failures. It is fatal
// to loading and reloading; the previous snapshot (if any) stays live.
var ErrInvalidConfig = errors.New("invalid configuration")

// Snapshot is one immutable, fully validated configuration. A dispatch
// holds the snapshot it started with even if a reload publishes a new one.
type Snapshot struct {
	Settings *Settings
	Rules    []*policy.Rule
	Hooks    []*hook.Registration
	Wrappers []patterns.Pattern
	Dir      string
	LoadedAt time.Time
}

// ruleHeader is the frontmatter of a rules/*.md file.
type ruleHeader struct {
	Name     string `yaml:"name"`
	Enabled  *bool  `yaml:"enabled"`
	Event    string `yaml:"event"`
	Field    string `yaml:"field"`
	Pattern  string `yaml:"pattern"`
	Operator string `yaml:"operator"`
	Action   string `yaml:"action"`
}

// hookHeader is the frontmatter of a hooks/*.md file.
type hookHeader struct {
	Name       string   `yaml:"name"`
	Event      string   `yaml:"event"`
	Matcher    string   `yaml:"matcher"`
	Command    string   `yaml:"command"`
	Args       []string `yaml:"args"`
	TimeoutMs  int      `yaml:"timeout_ms"`
	WorkingDir string   `yaml:"working_dir"`
}

// Dir returns the config directory: $TOOLGATE_CONFIG if set, otherwise
// ~/.config/toolgate.
func Dir() (string, error) {
	if dir := os.Getenv(constants.EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, constants.XDGConfigSubdir, constants.AppName), nil
}

// Load reads settings, rules and hooks from dir and returns a validated
// snapshot. All validation errors are collected and reported together;
// no partial snapshot is ever returned.
func Load(dir string) (*Snapshot, error) {
	var problems []error

	settings, err := loadSettings(dir)
	if err != nil {
		problems = append(problems, err)
		settings = DefaultSettings()
	}

	wrappers, err := patterns.CompileWrappers(settings.BashWrappers)
	if err != nil {
		problems = append(problems, err)
	}

	rules, ruleErrs := loadRules(filepath.Join(dir, constants.RulesDirName))
	problems = append(problems, ruleErrs...)

	hooks, hookErrs := loadHooks(filepath.Join(dir, constants.HooksDirName), settings)
	problems = append(problems, hookErrs...)

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
	}

	return &Snapshot{
		Settings: settings,
		Rules:    rules,
		Hooks:    hooks,
		Wrappers: wrappers,
		Dir:      dir,
		LoadedAt: time.Now().UTC(),
	}, nil
}

func loadSettings(dir string) (*Settings, error) {
	path := filepath.Join(dir, constants.SettingsFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	s, err := ParseSettings(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// declFiles lists the .md declaration files in dir, sorted by name.
// Lexical filename order is the declaration order; it is deterministic
// across loads, which ordering-sensitive short-circuiting depends on.
func declFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func loadRules(dir string) ([]*policy.Rule, []error) {
	files, err := declFiles(dir)
	if err != nil {
		return nil, []error{err}
	}

	var rules []*policy.Rule
	var problems []error
	seen := make(map[string]string)

	for _, path := range files {
		rule, err := loadRuleFile(path)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if prev, dup := seen[rule.Name]; dup {
			problems = append(problems, fmt.Errorf("%s: duplicate rule name %q (first declared in %s)", path, rule.Name, prev))
			continue
		}
		seen[rule.Name] = path
		rules = append(rules, rule)
	}
	return rules, problems
}

func loadRuleFile(path string) (*policy.Rule, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	header, body, err := parseFrontmatter[ruleHeader](string(content))
	if err != nil {
		return nil, err
	}

	name := header.Name
	if name == "" {
		name = fileStem(path)
	}
	enabled := true
	if header.Enabled != nil {
		enabled = *header.Enabled
	}

	rule := &policy.Rule{
		Name:     name,
		Enabled:  enabled,
		Event:    policy.EventKind(header.Event),
		Field:    header.Field,
		Pattern:  header.Pattern,
		Operator: policy.ConditionOp(header.Operator),
		Action:   policy.Action(header.Action),
		Message:  strings.TrimSpace(body),
	}
	if err := rule.Compile(); err != nil {
		return nil, err
	}
	return rule, nil
}

func loadHooks(dir string, settings *Settings) ([]*hook.Registration, []error) {
	files, err := declFiles(dir)
	if err != nil {
		return nil, []error{err}
	}

	var hooks []*hook.Registration
	var problems []error

	for _, path := range files {
		reg, err := loadHookFile(path, settings)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", path, err))
			continue
		}
		hooks = append(hooks, reg)
	}
	return hooks, problems
}

func loadHookFile(path string, settings *Settings) (*hook.Registration, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	header, _, err := parseFrontmatter[hookHeader](string(content))
	if err != nil {
		return nil, err
	}

	name := header.Name
	if name == "" {
		name = fileStem(path)
	}
	if header.TimeoutMs < 0 {
		return nil, fmt.Errorf("hook %s: timeout_ms must be positive, got %d", name, header.TimeoutMs)
	}
	timeoutMs := header.TimeoutMs
	if timeoutMs == 0 {
		timeoutMs = settings.DefaultHookTimeoutMs
	}

	reg := &hook.Registration{
		Name:       name,
		Event:      policy.EventKind(header.Event),
		Matcher:    header.Matcher,
		Command:    header.Command,
		Args:       header.Args,
		Timeout:    time.Duration(timeoutMs) * time.Millisecond,
		WorkingDir: header.WorkingDir,
	}
	if err := reg.Compile(); err != nil {
		return nil, err
	}
	return reg, nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
