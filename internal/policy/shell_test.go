package policy

import (
	"errors"
	"reflect"
	"testing"

	"github.com/toolgate/toolgate/internal/patterns"
)

func TestSplitCommandChain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"simple command", "ls -la", []string{"ls -la"}},
		{"empty string", "", nil},
		{"whitespace only", "   ", nil},

		{"AND chain", "cmd1 && cmd2", []string{"cmd1", "cmd2"}},
		{"OR chain", "cmd1 || cmd2", []string{"cmd1", "cmd2"}},
		{"semicolon chain", "cmd1 ; cmd2", []string{"cmd1", "cmd2"}},
		{"pipe", "cmd1 | cmd2", []string{"cmd1", "cmd2"}},
		{"background", "cmd1 & cmd2", []string{"cmd1", "cmd2"}},
		{"multiple separators", "a && b || c ; d | e", []string{"a", "b", "c", "d", "e"}},

		{"double-quoted AND", `echo "a && b"`, []string{`echo "a && b"`}},
		{"single-quoted semicolon", `echo 'a ; b'`, []string{`echo 'a ; b'`}},
		{"mixed quotes", `echo "a" && echo 'b'`, []string{`echo "a"`, `echo 'b'`}},

		{"redirection stays attached", "cmd 2>&1 && cmd2", []string{"cmd 2>&1", "cmd2"}},
		{"file redirection stays attached", "echo x >/etc/passwd && ls", []string{"echo x >/etc/passwd", "ls"}},
		{"redirection in pipe", "cat f 2>/dev/null | grep x", []string{"cat f 2>/dev/null", "grep x"}},
		{"backgrounded redirection", "cmd >out.log & cmd2", []string{"cmd >out.log", "cmd2"}},
		{"negation dropped", "! rm -rf /tmp/x", []string{"rm -rf /tmp/x"}},

		{"subshell", "(cd /tmp && rm x)", []string{"cd /tmp", "rm x"}},
		{"block", "{ cd /tmp; rm x; }", []string{"cd /tmp", "rm x"}},
		{"if clause", "if test -f x; then rm x; fi", []string{"test -f x", "rm x"}},
		{"for loop body", "for i in 1 2; do rm $i; done", []string{"rm $i"}},
		{"while loop", "while true; do sleep 1; done", []string{"true", "sleep 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitCommandChain(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SplitCommandChain(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitCommandChainUnparseable(t *testing.T) {
	_, err := SplitCommandChain("echo 'unterminated")
	if !errors.Is(err, ErrUnparseable) {
		t.Errorf("expected ErrUnparseable, got %v", err)
	}
}

func TestStripWrappers(t *testing.T) {
	wrappers, err := patterns.CompileWrappers([]string{"timeout <arg>", "env", "nice -n <arg>"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		input        string
		wantCore     string
		wantWrappers []string
	}{
		{"no wrapper", "git status", "git status", nil},
		{"timeout with arg", "timeout 30 git status", "git status", []string{"timeout"}},
		{"env", "env git status", "git status", []string{"env"}},
		{"nice with flag arg", "nice -n 10 git status", "git status", []string{"nice"}},
		{"stacked", "env timeout 30 git status", "git status", []string{"env", "timeout"}},
		{"wrapper name inside command untouched", "echo timeout 30", "echo timeout 30", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, names := StripWrappers(tt.input, wrappers)
			if core != tt.wantCore {
				t.Errorf("core = %q, want %q", core, tt.wantCore)
			}
			if !reflect.DeepEqual(names, tt.wantWrappers) {
				t.Errorf("wrappers = %v, want %v", names, tt.wantWrappers)
			}
		})
	}
}
