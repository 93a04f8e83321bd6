package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/toolgate/toolgate/internal/logger"
	"github.com/toolgate/toolgate/internal/policy"
)

// Exit code a hook uses to block the action; its stderr becomes the
// reason surfaced to the user.
const exitCodeBlock = 2

// killGracePeriod bounds process teardown after the timeout fires.
const killGracePeriod = time.Second

// ExecAdapter runs hooks as external processes: the event goes to stdin
// as JSON, the verdict comes back through the exit code, optionally
// refined by a permissionDecision JSON object on stdout.
type ExecAdapter struct{}

// stdoutPayload is what a hook may print on stdout. Both the flat form
// and the Claude Code hookSpecificOutput envelope are recognized.
type stdoutPayload struct {
	PermissionDecision string `json:"permissionDecision"`
	Reason             string `json:"reason"`
	HookSpecificOutput *struct {
		PermissionDecision       string `json:"permissionDecision"`
		PermissionDecisionReason string `json:"permissionDecisionReason"`
	} `json:"hookSpecificOutput"`
}

// Invoke runs the hook process and maps its exit protocol to an outcome:
//
//	exit 0             allow (stdout JSON may refine to ask/deny)
//	exit 2             deny, reason = stderr
//	other non-zero     allow + non_blocking_hook_error
//	timeout            allow + timeout (process killed)
//	failed to spawn    allow + spawn_error
//
// Hook runtime errors never block: a crashing hook must not gain veto
// power, and the other rules/hooks in the dispatch still run.
func (ExecAdapter) Invoke(ctx context.Context, reg *Registration, ev *policy.Event) policy.Outcome {
	out := policy.Outcome{Source: reg.Name, Verdict: policy.ActionAllow}

	payload, err := json.Marshal(ev)
	if err != nil {
		payload = []byte("{}")
	}

	timeout := reg.Timeout
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, reg.Command, reg.Args...)
	cmd.Dir = reg.WorkingDir
	cmd.Stdin = bytes.NewReader(payload)
	cmd.WaitDelay = killGracePeriod

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if cctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		logger.Warn("hook timed out",
			"hook", reg.Name, "event", ev.Kind, "timeout", timeout)
		out.Err = policy.ErrKindTimeout
		return out
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		return interpretStdout(out, reg, ev, stdout.Bytes())

	case errors.As(runErr, &exitErr):
		if exitErr.ExitCode() == exitCodeBlock {
			out.Verdict = policy.ActionDeny
			out.Reason = strings.TrimSpace(stderr.String())
			return out
		}
		logger.Warn("hook exited non-zero",
			"hook", reg.Name, "event", ev.Kind, "code", exitErr.ExitCode(),
			"stderr", strings.TrimSpace(stderr.String()))
		out.Err = policy.ErrKindNonBlocking
		return out

	default:
		logger.Warn("hook failed to spawn",
			"hook", reg.Name, "event", ev.Kind, "command", reg.Command, "error", runErr)
		out.Err = policy.ErrKindSpawn
		return out
	}
}

// interpretStdout refines an exit-0 allow with the hook's stdout JSON.
// Exit code 0 alone cannot express ask; only parsed JSON can. Stdout that
// is empty or not JSON is ignored; JSON carrying an unrecognized decision
// is a protocol error (still allow).
func interpretStdout(out policy.Outcome, reg *Registration, ev *policy.Event, stdout []byte) policy.Outcome {
	text := bytes.TrimSpace(stdout)
	if len(text) == 0 {
		return out
	}

	var parsed stdoutPayload
	if err := json.Unmarshal(text, &parsed); err != nil {
		logger.Debug("ignoring non-JSON hook stdout", "hook", reg.Name)
		return out
	}

	decision := parsed.PermissionDecision
	reason := parsed.Reason
	if decision == "" && parsed.HookSpecificOutput != nil {
		decision = parsed.HookSpecificOutput.PermissionDecision
		reason = parsed.HookSpecificOutput.PermissionDecisionReason
	}

	switch policy.Action(decision) {
	case policy.ActionAllow, "":
	case policy.ActionDeny:
		out.Verdict = policy.ActionDeny
		out.Reason = reason
	case policy.ActionAsk:
		out.Verdict = policy.ActionAsk
		out.Reason = reason
	default:
		logger.Warn("hook stdout carries unknown permission decision",
			"hook", reg.Name, "event", ev.Kind, "decision", decision)
		out.Err = policy.ErrKindProtocol
	}
	return out
}
