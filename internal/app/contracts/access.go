package contracts

import (
	"context"

	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/exceptions"
)

type Action string

const (
	ActionList                    Action = "list"
	ActionView                    Action = "view"
	ActionCreate                  Action = "create"
	ActionUpdate                  Action = "update"
	ActionDelete                  Action = "delete"
	ActionRestore                 Action = "restore"
	ActionExport                  Action = "export"
	ActionChangeRole              Action = "change-role"
	ActionDeactivate              Action = "deactivate"
	ActionActivate                Action = "activate"
	ActionSubmitVerification      Action = "submit-verification"
	ActionReviewVerification      Action = "review-verification"
	ActionListPendingVerification Action = "list-pending-verification"
)

type Outcome string

const (
	OutcomeAllow               Outcome = "allow"
	OutcomeForbidden           Outcome = "forbidden"
	OutcomeServerMisconfigured Outcome = "server-misconfigured"
)

// Reason codes attached to non-allow decisions.
const (
	ReasonRoleNotPermitted     = "ROLE_NOT_PERMITTED"
	ReasonNotResourceOwner     = "NOT_RESOURCE_OWNER"
	ReasonDepartmentMismatch   = "DEPARTMENT_MISMATCH"
	ReasonNotResourceCreator   = "NOT_RESOURCE_CREATOR"
	ReasonUnknownRole          = "UNKNOWN_ROLE"
	ReasonVerificationRequired = "VERIFICATION_REQUIRED"
	ReasonSelfTargetForbidden  = "SELF_TARGET_FORBIDDEN"
	ReasonUnknownAction        = "UNKNOWN_ACTION"
	ReasonIdentityMissing      = "IDENTITY_MISSING"
	ReasonResourceRequired     = "RESOURCE_REQUIRED"
)

type Decision struct {
	Outcome      Outcome
	Reason       string
	Action       Action
	ResourceType string
}

func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// Err maps a decision onto the error taxonomy; nil when allowed.
func (d Decision) Err() error {
	switch d.Outcome {
	case OutcomeAllow:
		return nil
	case OutcomeServerMisconfigured:
		return exceptions.ErrServerMisconfigured(nil, d.Reason)
	default:
		if d.Reason == ReasonVerificationRequired {
			return exceptions.ErrVerificationRequired(nil, d.Reason)
		}
		return exceptions.ErrForbidden(nil, d.Reason)
	}
}

type AccessController interface {
	// Precheck runs every rule that does not need the target record:
	// identity, action, role and verification gate.
	Precheck(ctx context.Context, action Action, resourceType string) Decision
	Authorize(ctx context.Context, action Action, resource *models.ResourceDescriptor) Decision
	// ListScope expresses the relationship rule as store predicates.
	ListScope(identity *models.Identity, resourceType string) ([]Predicate, error)
}
