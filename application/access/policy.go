package access

import (
	"context"
	"time"

	"github.com/fixora/expense-tracker/domain"
	"github.com/fixora/expense-tracker/domain/valueobject"
	"github.com/fixora/expense-tracker/infrastructure/service/logger"
)

const (
	ActionUserData = "user_data"
	ActionAdmin    = "admin"
	ActionRole     = "role"
)

// Recorder counts decisions. Implementations must not block.
type Recorder interface {
	AccessDecision(action string, allowed bool)
}

// Policy turns validated claims into allow/deny decisions. A nil *Claims is
// treated as an unauthenticated caller and always denied. Apart from the
// audit log line for a denial, every method is a pure function of its
// arguments.
type Policy struct {
	logger   logger.Logger
	recorder Recorder
	now      func() time.Time
}

func NewPolicy(log logger.Logger, recorder Recorder) *Policy {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Policy{
		logger:   log.WithFields(map[string]interface{}{"component": "access_policy"}),
		recorder: recorder,
		now:      time.Now,
	}
}

// CanAccessUserData allows admins, and users acting on their own data.
func (p *Policy) CanAccessUserData(ctx context.Context, targetUserID string, claims *valueobject.Claims) bool {
	return p.DecideUserData(ctx, targetUserID, claims).Allowed
}

// IsOwnerOrAdmin is CanAccessUserData under the name resource guards use.
func (p *Policy) IsOwnerOrAdmin(ctx context.Context, resourceUserID string, claims *valueobject.Claims) bool {
	return p.CanAccessUserData(ctx, resourceUserID, claims)
}

// DecideUserData is CanAccessUserData returning the full decision.
func (p *Policy) DecideUserData(ctx context.Context, targetUserID string, claims *valueobject.Claims) domain.AccessDecision {
	d := p.newDecision(ActionUserData, targetUserID, claims)
	switch {
	case !wellFormed(claims):
		d.Reason = "unauthenticated"
	case claims.Role == valueobject.RoleAdmin:
		d.Allowed, d.Reason = true, "admin"
	case targetUserID != "" && claims.Subject == targetUserID:
		d.Allowed, d.Reason = true, "owner"
	default:
		d.Reason = "not_owner"
	}
	p.record(ctx, d)
	return d
}

func (p *Policy) HasAdminRole(ctx context.Context, claims *valueobject.Claims) bool {
	d := p.newDecision(ActionAdmin, "", claims)
	switch {
	case !wellFormed(claims):
		d.Reason = "unauthenticated"
	case claims.Role == valueobject.RoleAdmin:
		d.Allowed, d.Reason = true, "admin"
	default:
		d.Reason = "not_admin"
	}
	p.record(ctx, d)
	return d.Allowed
}

func (p *Policy) HasRole(ctx context.Context, role valueobject.Role, claims *valueobject.Claims) bool {
	d := p.newDecision(ActionRole, string(role), claims)
	switch {
	case !wellFormed(claims):
		d.Reason = "unauthenticated"
	case !role.IsValid():
		d.Reason = "unknown_role"
	case claims.Role == role:
		d.Allowed, d.Reason = true, "role_match"
	default:
		d.Reason = "role_mismatch"
	}
	p.record(ctx, d)
	return d.Allowed
}

// CurrentUserID projects the subject of well-formed claims.
func CurrentUserID(claims *valueobject.Claims) (string, bool) {
	if !wellFormed(claims) {
		return "", false
	}
	return claims.Subject, true
}

// CurrentRole projects the role of well-formed claims.
func CurrentRole(claims *valueobject.Claims) (valueobject.Role, bool) {
	if !wellFormed(claims) {
		return "", false
	}
	return claims.Role, true
}

func wellFormed(claims *valueobject.Claims) bool {
	return claims != nil && claims.Subject != "" && claims.Role.IsValid()
}

func (p *Policy) newDecision(action, resourceID string, claims *valueobject.Claims) domain.AccessDecision {
	d := domain.AccessDecision{
		Action:     action,
		ResourceID: resourceID,
		DecidedAt:  p.now(),
	}
	if claims != nil {
		d.ActorID = claims.Subject
		d.ActorRole = string(claims.Role)
	}
	return d
}

func (p *Policy) record(ctx context.Context, d domain.AccessDecision) {
	if p.recorder != nil {
		p.recorder.AccessDecision(d.Action, d.Allowed)
	}
	if d.Allowed {
		return
	}
	severity := "LOW"
	if d.Reason == "not_owner" || d.Reason == "not_admin" {
		severity = "MEDIUM"
	}
	logger.LogSecurityEvent(ctx, p.logger, "access_denied", severity, d.Fields())
}
