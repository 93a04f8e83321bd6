package dispatch

import (
	"encoding/json"
	"strings"

	"github.com/toolgate/toolgate/internal/logger"
	"github.com/toolgate/toolgate/internal/policy"
)

// output is the permission JSON consumed by the agent runtime.
type output struct {
	HookSpecificOutput specificOutput `json:"hookSpecificOutput"`
}

type specificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

// FormatDecision renders a decision as hookSpecificOutput JSON.
func FormatDecision(kind policy.EventKind, dec policy.Decision) string {
	out := output{
		HookSpecificOutput: specificOutput{
			HookEventName:            string(kind),
			PermissionDecision:       string(dec.Verdict),
			PermissionDecisionReason: strings.Join(dec.Reasons, " | "),
		},
	}
	data, err := json.Marshal(out)
	if err != nil {
		logger.Debug("failed to marshal decision output", "error", err)
		return `{"hookSpecificOutput":{"hookEventName":"` + string(kind) + `","permissionDecision":"ask","permissionDecisionReason":"internal error"}}`
	}
	return string(data)
}

// FormatAsk renders an ask decision with a bare reason, used when the
// event or configuration itself could not be processed.
func FormatAsk(kind policy.EventKind, reason string) string {
	return FormatDecision(kind, policy.Decision{
		Verdict: policy.ActionAsk,
		Reasons: []string{reason},
	})
}
