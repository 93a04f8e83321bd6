// Package hook matches external hook programs to events and invokes them
// over the stdin-JSON / exit-code protocol.
package hook

import (
	"fmt"
	"regexp"
	"time"

	"github.com/toolgate/toolgate/internal/constants"
	"github.com/toolgate/toolgate/internal/policy"
)

// Registration declares one external hook program. Registrations are
// built by the config loader and owned by the registry; a reload replaces
// them wholesale.
type Registration struct {
	Name       string
	Event      policy.EventKind
	Matcher    string // regex over the tool name; "" matches every tool
	Command    string
	Args       []string
	Timeout    time.Duration
	WorkingDir string

	matcher *regexp.Regexp
}

// Compile validates the registration and compiles its matcher.
func (r *Registration) Compile() error {
	if r.Name == "" {
		return fmt.Errorf("hook has no name")
	}
	if !r.Event.Valid() {
		return fmt.Errorf("hook %s: unknown event %q", r.Name, r.Event)
	}
	if r.Command == "" {
		return fmt.Errorf("hook %s: empty command", r.Name)
	}
	if r.Timeout < 0 {
		return fmt.Errorf("hook %s: negative timeout", r.Name)
	}
	if r.Timeout == 0 {
		r.Timeout = constants.DefaultHookTimeout
	}
	if r.Matcher != "" {
		re, err := regexp.Compile(r.Matcher)
		if err != nil {
			return fmt.Errorf("hook %s: invalid matcher %q: %w", r.Name, r.Matcher, err)
		}
		r.matcher = re
	}
	return nil
}

// Matches reports whether the registration applies to the event's tool.
func (r *Registration) Matches(ev *policy.Event) bool {
	if r.Event != ev.Kind {
		return false
	}
	if r.matcher == nil {
		return true
	}
	return r.matcher.MatchString(ev.ToolName)
}
