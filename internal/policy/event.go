// Package policy defines the data model for tool-call gating: lifecycle
// events, declarative rules, per-source outcomes, and the final decision.
package policy

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// EventKind identifies a lifecycle point in the agent loop.
type EventKind string

// Event kinds
const (
	PreToolUse       EventKind = "PreToolUse"
	PostToolUse      EventKind = "PostToolUse"
	SessionStart     EventKind = "SessionStart"
	SessionEnd       EventKind = "SessionEnd"
	UserPromptSubmit EventKind = "UserPromptSubmit"
	Stop             EventKind = "Stop"
	SubagentStop     EventKind = "SubagentStop"
	PreCompact       EventKind = "PreCompact"
	Notification     EventKind = "Notification"
)

var eventKinds = map[EventKind]bool{
	PreToolUse:       true,
	PostToolUse:      true,
	SessionStart:     true,
	SessionEnd:       true,
	UserPromptSubmit: true,
	Stop:             true,
	SubagentStop:     true,
	PreCompact:       true,
	Notification:     true,
}

// Valid reports whether k is a recognized event kind.
func (k EventKind) Valid() bool {
	return eventKinds[k]
}

// Event is one occurrence of a lifecycle point. It is created fresh per
// agent action and never mutated after dispatch.
type Event struct {
	Kind      EventKind       `json:"event"`
	ToolName  string          `json:"tool_name,omitempty"`
	ToolInput json.RawMessage `json:"tool_input,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	Cwd       string          `json:"cwd,omitempty"`
	Timestamp time.Time       `json:"-"`

	parsed map[string]any
}

// eventWire accepts both the native "event" key and the
// "hook_event_name" key emitted by Claude Code style runtimes.
type eventWire struct {
	Event         EventKind       `json:"event"`
	HookEventName EventKind       `json:"hook_event_name"`
	ToolName      string          `json:"tool_name"`
	ToolInput     json.RawMessage `json:"tool_input"`
	SessionID     string          `json:"session_id"`
	Cwd           string          `json:"cwd"`
}

// ParseEvent reads and validates one event from JSON.
func ParseEvent(r io.Reader) (*Event, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}

	var wire eventWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}

	kind := wire.Event
	if kind == "" {
		kind = wire.HookEventName
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}

	ev := &Event{
		Kind:      kind,
		ToolName:  wire.ToolName,
		ToolInput: wire.ToolInput,
		SessionID: wire.SessionID,
		Cwd:       wire.Cwd,
		Timestamp: time.Now().UTC(),
	}

	if len(wire.ToolInput) > 0 {
		// Tolerate non-object tool_input: condition evaluation degrades
		// to the serialized form.
		var parsed map[string]any
		if err := json.Unmarshal(wire.ToolInput, &parsed); err == nil {
			ev.parsed = parsed
		}
	}

	return ev, nil
}

// StringField returns the named string field from tool_input.
// The second return is false when the field is missing or not a string.
func (e *Event) StringField(name string) (string, bool) {
	if e.parsed == nil {
		return "", false
	}
	value, ok := e.parsed[name]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	return s, true
}

// InputText returns the compact serialized tool_input, or "" when the
// payload is absent or cannot be stringified.
func (e *Event) InputText() string {
	if len(e.ToolInput) == 0 {
		return ""
	}
	var buf json.RawMessage
	if err := json.Unmarshal(e.ToolInput, &buf); err != nil {
		return ""
	}
	out, err := json.Marshal(buf)
	if err != nil {
		return ""
	}
	return string(out)
}
