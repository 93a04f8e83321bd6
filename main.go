// toolgate - policy gate for AI coding agent tool calls
//
// toolgate intercepts tool invocations (PreToolUse, PostToolUse, ...)
// and decides per invocation whether the action is allowed, blocked, or
// needs user confirmation. Declarative rules (pattern + operator ->
// action) are evaluated in-process; registered hook programs receive the
// event as JSON on stdin and answer through their exit code.
//
// Usage in ~/.claude/settings.json:
//
//	"hooks": {
//	  "PreToolUse": [{
//	    "matcher": ".*",
//	    "hooks": [{"type": "command", "command": "toolgate"}]
//	  }]
//	}
//
// Test:
//
//	echo '{"event": "PreToolUse", "tool_name": "Bash", "tool_input": {"command": "rm -rf /"}}' | toolgate
package main

import (
	"os"

	"github.com/toolgate/toolgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
