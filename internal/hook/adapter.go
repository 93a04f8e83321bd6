package hook

import (
	"context"

	"github.com/toolgate/toolgate/internal/policy"
)

// Adapter invokes one hook registration for one event. The process
// transport is the default; alternate transports (in-process callback,
// RPC) implement the same interface without touching the dispatcher.
type Adapter interface {
	Invoke(ctx context.Context, reg *Registration, ev *policy.Event) policy.Outcome
}
