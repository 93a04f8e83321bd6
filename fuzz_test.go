package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/toolgate/toolgate/internal/config"
	"github.com/toolgate/toolgate/internal/patterns"
	"github.com/toolgate/toolgate/internal/policy"
)

// FuzzSplitCommandChain tests the command chain splitting for crashes
func FuzzSplitCommandChain(f *testing.F) {
	f.Add("git status")
	f.Add("git status && echo done")
	f.Add("echo 'hello && world'")
	f.Add("ls | grep foo | wc -l")
	f.Add("VAR=value cmd")
	f.Add("timeout 30 pytest")
	f.Add("")
	f.Add("   ")
	f.Add("$(cat /etc/passwd)")
	f.Add("`whoami`")
	f.Add("echo ${PATH}")
	f.Add("for i in 1 2 3; do echo $i; done")
	f.Add("if [ -f foo ]; then cat foo; fi")
	f.Add("(cd /tmp && rm -rf scratch)")

	f.Fuzz(func(t *testing.T, cmd string) {
		// Just ensure no panics
		_, _ = policy.SplitCommandChain(cmd)
	})
}

// FuzzParseEvent tests event decoding for crashes
func FuzzParseEvent(f *testing.F) {
	f.Add(`{"event":"PreToolUse","tool_name":"Bash","tool_input":{"command":"git status"}}`)
	f.Add(`{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"ls"}}`)
	f.Add(`{"event":"PostToolUse","tool_name":"Write","tool_input":{"file_path":"/tmp/x"}}`)
	f.Add(`{"event":"PreToolUse","tool_name":"Bash","tool_input":"not an object"}`)
	f.Add(`{"event":"Bogus"}`)
	f.Add(`{}`)
	f.Add(`not json`)
	f.Add(``)
	f.Add(`{"event":"PreToolUse","tool_input":{"nested":{"deep":[1,2,3]}}}`)

	f.Fuzz(func(t *testing.T, input string) {
		ev, err := policy.ParseEvent(strings.NewReader(input))
		if err != nil {
			return
		}
		// A decoded event must survive field access without panicking
		_, _ = ev.StringField("command")
		_ = ev.InputText()
	})
}

// FuzzEvaluate tests rule evaluation for crashes on arbitrary input text
func FuzzEvaluate(f *testing.F) {
	rules := []*policy.Rule{
		{Name: "re", Enabled: true, Event: policy.PreToolUse, Field: "command",
			Pattern: `rm\s+-rf`, Operator: policy.OpRegexMatch, Action: policy.ActionDeny},
		{Name: "contains", Enabled: true, Event: policy.PreToolUse, Field: "command",
			Pattern: "sudo", Operator: policy.OpContains, Action: policy.ActionAsk},
		{Name: "not", Enabled: true, Event: policy.PreToolUse, Field: "command",
			Pattern: "safe", Operator: policy.OpNotContains, Action: policy.ActionDeny},
	}
	for _, r := range rules {
		if err := r.Compile(); err != nil {
			f.Fatal(err)
		}
	}
	eval := &policy.Evaluator{}

	f.Add("rm -rf /")
	f.Add("sudo apt install")
	f.Add("git status && rm -rf build")
	f.Add("")
	f.Add(`echo "rm -rf" is quoted`)

	f.Fuzz(func(t *testing.T, cmd string) {
		payload, err := json.Marshal(map[string]any{
			"event":      "PreToolUse",
			"tool_name":  "Bash",
			"tool_input": map[string]string{"command": cmd},
		})
		if err != nil {
			t.Skip()
		}
		ev, err := policy.ParseEvent(bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("round-tripped event rejected: %v", err)
		}
		for _, r := range rules {
			first := eval.Evaluate(r, ev)
			// Evaluation is deterministic
			if second := eval.Evaluate(r, ev); second != first {
				t.Errorf("rule %s flapped on %q", r.Name, cmd)
			}
		}
	})
}

// FuzzStripWrappers tests wrapper stripping for crashes
func FuzzStripWrappers(f *testing.F) {
	wrappers, err := patterns.CompileWrappers(config.DefaultSettings().BashWrappers)
	if err != nil {
		f.Fatal(err)
	}

	f.Add("timeout 30 pytest")
	f.Add("env VAR=1 make build")
	f.Add("nice -n 10 cargo test")
	f.Add("timeout 30 env A=1 nice -n 5 ls")
	f.Add("")
	f.Add("timeout")

	f.Fuzz(func(t *testing.T, cmd string) {
		stripped, _ := policy.StripWrappers(cmd, wrappers)
		if len(stripped) > len(cmd) {
			t.Errorf("stripping grew %q to %q", cmd, stripped)
		}
	})
}
