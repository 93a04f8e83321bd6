package policy

import (
	"strings"

	"github.com/toolgate/toolgate/internal/patterns"
)

// Tool names with special evaluation behavior
const ToolNameBash = "Bash"

// bashCommandField is the tool_input field carrying the shell command.
const bashCommandField = "command"

// Evaluator applies rule conditions to events. The zero value is usable;
// Wrappers adds shell wrapper stripping for Bash command segments.
type Evaluator struct {
	// Wrappers are safe prefixes (timeout, env, ...) stripped from Bash
	// command segments before the pattern is applied.
	Wrappers []patterns.Pattern
}

// Evaluate reports whether the rule's condition holds for the event.
//
// It is pure and total: the same (rule, event) pair always yields the same
// boolean, and malformed tool_input degrades to evaluating against "".
// All comparisons are case-sensitive over the raw bytes; regex matching
// uses search semantics (a match anywhere in the field triggers).
//
// When the examined field is a Bash command, positive operators are also
// applied to each segment of the command chain with wrappers stripped, so
// "cd /tmp && rm -rf /" still triggers a "^rm\s+-rf" rule. not_contains
// only sees the full text, since per-segment evaluation would invert its
// meaning.
func (e *Evaluator) Evaluate(rule *Rule, ev *Event) bool {
	text := e.fieldText(rule, ev)

	if rule.Operator == OpNotContains {
		return !strings.Contains(text, rule.Pattern)
	}

	if matchOne(rule, text) {
		return true
	}

	for _, seg := range e.bashSegments(rule, ev) {
		if matchOne(rule, seg) {
			return true
		}
	}
	return false
}

// fieldText extracts the string the rule examines.
func (e *Evaluator) fieldText(rule *Rule, ev *Event) string {
	if rule.Field != "" {
		s, _ := ev.StringField(rule.Field)
		return s
	}
	return ev.InputText()
}

// bashSegments returns the wrapper-stripped chain segments of a Bash
// command when the rule examines it, nil otherwise. Unparseable commands
// yield nil and the rule falls back to full-text evaluation.
func (e *Evaluator) bashSegments(rule *Rule, ev *Event) []string {
	if ev.ToolName != ToolNameBash {
		return nil
	}
	if rule.Field != "" && rule.Field != bashCommandField {
		return nil
	}
	cmd, ok := ev.StringField(bashCommandField)
	if !ok {
		return nil
	}

	segs, err := SplitCommandChain(cmd)
	if err != nil {
		return nil
	}

	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		core, _ := StripWrappers(seg, e.Wrappers)
		out = append(out, core)
	}
	return out
}

func matchOne(rule *Rule, text string) bool {
	switch rule.Operator {
	case OpRegexMatch:
		return rule.regex != nil && rule.regex.MatchString(text)
	case OpContains:
		return strings.Contains(text, rule.Pattern)
	case OpEquals:
		return text == rule.Pattern
	case OpStartsWith:
		return strings.HasPrefix(text, rule.Pattern)
	case OpEndsWith:
		return strings.HasSuffix(text, rule.Pattern)
	}
	return false
}
