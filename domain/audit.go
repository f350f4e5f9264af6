package domain

import "time"

// AccessDecision is the outcome of a single authorization check. It is
// computed per request and only ever written to the audit log.
type AccessDecision struct {
	Allowed    bool      `json:"allowed"`
	Reason     string    `json:"reason"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actor_id,omitempty"`
	ActorRole  string    `json:"actor_role,omitempty"`
	ResourceID string    `json:"resource_id,omitempty"`
	DecidedAt  time.Time `json:"decided_at"`
}

// Fields flattens the decision for structured logging.
func (d AccessDecision) Fields() map[string]interface{} {
	return map[string]interface{}{
		"allowed":     d.Allowed,
		"reason":      d.Reason,
		"action":      d.Action,
		"actor_id":    d.ActorID,
		"actor_role":  d.ActorRole,
		"resource_id": d.ResourceID,
	}
}
