// Package dispatch runs every matching rule and hook for one event and
// folds their outcomes into a single decision.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/toolgate/toolgate/internal/audit"
	"github.com/toolgate/toolgate/internal/config"
	"github.com/toolgate/toolgate/internal/hook"
	"github.com/toolgate/toolgate/internal/logger"
	"github.com/toolgate/toolgate/internal/policy"
)

// Dispatcher evaluates events against one config snapshot. It holds no
// mutable state: concurrent dispatches over the same snapshot are safe,
// and a concurrent reload never affects a dispatcher already built.
type Dispatcher struct {
	snap     *config.Snapshot
	adapter  hook.Adapter
	registry *hook.Registry
	eval     *policy.Evaluator
}

// New builds a dispatcher over a snapshot. A nil adapter selects the
// process transport.
func New(snap *config.Snapshot, adapter hook.Adapter) *Dispatcher {
	if adapter == nil {
		adapter = hook.ExecAdapter{}
	}
	return &Dispatcher{
		snap:     snap,
		adapter:  adapter,
		registry: hook.NewRegistry(snap.Hooks),
		eval:     &policy.Evaluator{Wrappers: snap.Wrappers},
	}
}

// Dispatch produces the decision for one event.
//
// Rules run first, in declaration order: they are pure and cheap, so a
// denying rule fails fast before any process is spawned. Matching hooks
// then run sequentially in registry order. The first deny from either
// source short-circuits everything declared after it.
//
// Hook runtime errors contribute allow and are logged, unless the
// fail_closed setting turns them into deny. Cancellation of ctx kills
// the running hook and discards all outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *policy.Event) (policy.Decision, error) {
	if ev == nil {
		return policy.Decision{}, fmt.Errorf("event cannot be nil")
	}
	start := time.Now()

	var outcomes []policy.Outcome
	denied := false

	for _, rule := range d.snap.Rules {
		if !rule.Enabled || rule.Event != ev.Kind {
			continue
		}
		if !d.eval.Evaluate(rule, ev) {
			continue
		}
		logger.Debug("rule matched",
			"rule", rule.Name, "event", ev.Kind, "action", rule.Action)
		outcomes = append(outcomes, policy.Outcome{
			Source:  rule.Name,
			Verdict: rule.Action,
			Reason:  rule.Message,
		})
		if rule.Action == policy.ActionDeny {
			denied = true
			break
		}
	}

	if !denied {
		for _, reg := range d.registry.Matching(ev) {
			if err := ctx.Err(); err != nil {
				return policy.Decision{}, err
			}

			o := d.adapter.Invoke(ctx, reg, ev)
			if err := ctx.Err(); err != nil {
				return policy.Decision{}, err
			}
			if o.Err != "" {
				logger.Warn("hook error",
					"hook", reg.Name, "event", ev.Kind, "kind", o.Err)
				if d.snap.Settings.FailClosed {
					o.Verdict = policy.ActionDeny
					o.Reason = fmt.Sprintf("hook %s failed (%s) and fail_closed is set", reg.Name, o.Err)
				}
			}

			outcomes = append(outcomes, o)
			if o.Verdict == policy.ActionDeny {
				break
			}
		}
	}

	dec := policy.Aggregate(outcomes)
	logger.Debug("dispatch complete",
		"event", ev.Kind, "tool", ev.ToolName, "verdict", dec.Verdict,
		"outcomes", len(outcomes))

	audit.Log(audit.Entry{
		SessionID:      ev.SessionID,
		DurationMs:     float64(time.Since(start).Microseconds()) / 1000.0,
		Event:          ev.Kind,
		ToolName:       ev.ToolName,
		Verdict:        dec.Verdict,
		BlockingSource: dec.BlockingSource,
		Reasons:        dec.Reasons,
		Outcomes:       outcomes,
		ConfigDir:      d.snap.Dir,
	})

	return dec, nil
}
