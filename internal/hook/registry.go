package hook

import "github.com/toolgate/toolgate/internal/policy"

// Registry is a read-only index over hook registrations. Declaration
// order is preserved: short-circuiting is order-sensitive, so lookups
// must be deterministic and stable.
type Registry struct {
	regs []*Registration
}

// NewRegistry builds a registry over registrations in declaration order.
func NewRegistry(regs []*Registration) *Registry {
	return &Registry{regs: regs}
}

// Matching returns the registrations that apply to the event, in
// declaration order.
func (g *Registry) Matching(ev *policy.Event) []*Registration {
	var out []*Registration
	for _, r := range g.regs {
		if r.Matches(ev) {
			out = append(out, r)
		}
	}
	return out
}

// All returns every registration in declaration order.
func (g *Registry) All() []*Registration {
	return g.regs
}

// Len returns the number of registrations.
func (g *Registry) Len() int {
	return len(g.regs)
}
