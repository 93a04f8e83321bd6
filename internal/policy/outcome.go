package policy

// ErrorKind classifies hook runtime failures. All of them are
// non-blocking: a misbehaving hook contributes allow, never deny.
type ErrorKind string

// Hook runtime error kinds
const (
	ErrKindSpawn       ErrorKind = "spawn_error"
	ErrKindTimeout     ErrorKind = "timeout"
	ErrKindProtocol    ErrorKind = "protocol_error"
	ErrKindNonBlocking ErrorKind = "non_blocking_hook_error"
)

// Outcome is the contribution of one rule or hook to a dispatch.
type Outcome struct {
	Source  string    `json:"source"`
	Verdict Action    `json:"verdict"`
	Reason  string    `json:"reason,omitempty"`
	Err     ErrorKind `json:"error,omitempty"`
}

// Decision is the fold of all outcomes for one event.
type Decision struct {
	Verdict        Action   `json:"verdict"`
	Reasons        []string `json:"reasons"`
	BlockingSource string   `json:"blocking_source,omitempty"`
}

// Aggregate folds outcomes into a decision: any deny wins, then any ask,
// otherwise allow. BlockingSource names the first denying outcome, which
// is stable under the dispatcher's short-circuit policy. Reasons collects
// the reason text of every non-allow outcome in order.
func Aggregate(outcomes []Outcome) Decision {
	dec := Decision{Verdict: ActionAllow, Reasons: []string{}}

	for _, o := range outcomes {
		switch o.Verdict {
		case ActionDeny:
			if dec.Verdict != ActionDeny {
				dec.Verdict = ActionDeny
				dec.BlockingSource = o.Source
			}
		case ActionAsk:
			if dec.Verdict == ActionAllow {
				dec.Verdict = ActionAsk
			}
		}
		if o.Verdict != ActionAllow && o.Reason != "" {
			dec.Reasons = append(dec.Reasons, o.Reason)
		}
	}

	return dec
}
