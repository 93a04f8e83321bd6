package policy

import (
	"fmt"
	"regexp"
)

// ConditionOp is the comparison a rule applies to the examined field.
type ConditionOp string

// Condition operators
const (
	OpRegexMatch  ConditionOp = "regex_match"
	OpContains    ConditionOp = "contains"
	OpEquals      ConditionOp = "equals"
	OpNotContains ConditionOp = "not_contains"
	OpStartsWith  ConditionOp = "starts_with"
	OpEndsWith    ConditionOp = "ends_with"
)

// Valid reports whether op is a recognized operator.
func (op ConditionOp) Valid() bool {
	switch op {
	case OpRegexMatch, OpContains, OpEquals, OpNotContains, OpStartsWith, OpEndsWith:
		return true
	}
	return false
}

// Action is the verdict a matching rule (or hook) contributes.
type Action string

// Actions
const (
	ActionAllow Action = "allow"
	ActionDeny  Action = "deny"
	ActionAsk   Action = "ask"
)

// Valid reports whether a is a recognized action.
func (a Action) Valid() bool {
	switch a {
	case ActionAllow, ActionDeny, ActionAsk:
		return true
	}
	return false
}

// Rule is a declarative, in-process condition mapped to an action.
// Rules are built by the config loader and immutable afterward; a reload
// replaces the rule set wholesale.
type Rule struct {
	Name     string
	Enabled  bool
	Event    EventKind
	Field    string // tool_input field to examine; "" = serialized tool_input
	Pattern  string
	Operator ConditionOp
	Action   Action
	Message  string

	regex *regexp.Regexp
}

// Compile validates the rule and compiles its pattern. Invalid rules are
// rejected here, at load time, never during evaluation.
func (r *Rule) Compile() error {
	if r.Name == "" {
		return fmt.Errorf("rule has no name")
	}
	if !r.Event.Valid() {
		return fmt.Errorf("rule %s: unknown event %q", r.Name, r.Event)
	}
	if !r.Operator.Valid() {
		return fmt.Errorf("rule %s: unknown operator %q", r.Name, r.Operator)
	}
	if !r.Action.Valid() {
		return fmt.Errorf("rule %s: unknown action %q", r.Name, r.Action)
	}
	if r.Pattern == "" {
		return fmt.Errorf("rule %s: empty pattern", r.Name)
	}
	if r.Operator == OpRegexMatch {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("rule %s: invalid regex %q: %w", r.Name, r.Pattern, err)
		}
		r.regex = re
	}
	return nil
}
