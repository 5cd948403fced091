package access

import (
	"context"
	"fmt"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Storage fields the relationship scope filters on.
const (
	fieldDepartmentID = "departmentId"
	fieldCreatedBy    = "createdBy"
)

type accessController struct {
	Audit contracts.AuditSink
	Log   *zap.Logger
}

func NewAccessController(audit contracts.AuditSink, logger *zap.Logger) contracts.AccessController {
	return &accessController{
		Audit: audit,
		Log:   logger,
	}
}

func (c *accessController) Precheck(ctx context.Context, action contracts.Action, resourceType string) contracts.Decision {
	identity, _ := models.IdentityFromContext(ctx)
	decision, _ := c.precheck(identity, action, resourceType)
	c.report(ctx, identity, decision, nil)
	return decision
}

func (c *accessController) Authorize(ctx context.Context, action contracts.Action, resource *models.ResourceDescriptor) contracts.Decision {
	identity, _ := models.IdentityFromContext(ctx)
	decision := c.authorize(identity, action, resource)
	c.report(ctx, identity, decision, resource)
	return decision
}

func (c *accessController) authorize(identity *models.Identity, action contracts.Action, resource *models.ResourceDescriptor) contracts.Decision {
	if identity == nil {
		return deny(contracts.OutcomeServerMisconfigured, contracts.ReasonIdentityMissing, action, "")
	}
	if resource == nil {
		return deny(contracts.OutcomeServerMisconfigured, contracts.ReasonResourceRequired, action, "")
	}

	decision, rule := c.precheck(identity, action, resource.ResourceType)
	if !decision.Allowed() {
		return decision
	}

	if rule.noSelfTarget && resource.OwnerID != "" && resource.OwnerID == identity.AccountID {
		return deny(contracts.OutcomeForbidden, contracts.ReasonSelfTargetForbidden, action, resource.ResourceType)
	}

	switch rule.scope {
	case scopeSelf:
		if identity.IsAdmin() || resource.OwnerID == identity.AccountID {
			return decision
		}
		return deny(contracts.OutcomeForbidden, contracts.ReasonNotResourceOwner, action, resource.ResourceType)
	case scopeRelationship:
		if reason := relationshipDenial(identity, resource); reason != "" {
			return deny(contracts.OutcomeForbidden, reason, action, resource.ResourceType)
		}
	}
	return decision
}

// precheck runs the rules that need no target record, in order: identity,
// action, role, verification gate.
func (c *accessController) precheck(identity *models.Identity, action contracts.Action, resourceType string) (contracts.Decision, capability) {
	if identity == nil {
		return deny(contracts.OutcomeServerMisconfigured, contracts.ReasonIdentityMissing, action, resourceType), capability{}
	}

	rule, ok := lookupCapability(resourceType, action)
	if !ok {
		return deny(contracts.OutcomeForbidden, contracts.ReasonUnknownAction, action, resourceType), rule
	}

	if !models.IsKnownRole(identity.Role) {
		return deny(contracts.OutcomeForbidden, contracts.ReasonUnknownRole, action, resourceType), rule
	}
	permitted, err := roleMayPerform(rolePolicy, identity.Role, resourceType, action)
	if err != nil {
		c.Log.Error("accessController.precheck role policy error",
			zap.String(constvars.LoggingRoleKey, identity.Role),
			zap.String(constvars.LoggingActionKey, string(action)),
			zap.Error(err),
		)
		return deny(contracts.OutcomeServerMisconfigured, contracts.ReasonRoleNotPermitted, action, resourceType), rule
	}
	if !permitted {
		return deny(contracts.OutcomeForbidden, contracts.ReasonRoleNotPermitted, action, resourceType), rule
	}

	if rule.requiresVerified && models.IsProfessionalRole(identity.Role) &&
		identity.VerificationStatus != models.VerificationVerified {
		return deny(contracts.OutcomeForbidden, contracts.ReasonVerificationRequired, action, resourceType), rule
	}

	return contracts.Decision{Outcome: contracts.OutcomeAllow, Action: action, ResourceType: resourceType}, rule
}

func relationshipDenial(identity *models.Identity, resource *models.ResourceDescriptor) string {
	switch identity.Role {
	case constvars.RoleAdmin, constvars.RoleDoctor:
		return ""
	case constvars.RoleNurse:
		if identity.InDepartment(resource.DepartmentID) {
			return ""
		}
		return contracts.ReasonDepartmentMismatch
	case constvars.RoleFrontDesk:
		if resource.CreatorID != "" && resource.CreatorID == identity.AccountID {
			return ""
		}
		return contracts.ReasonNotResourceCreator
	default:
		return contracts.ReasonUnknownRole
	}
}

// ListScope narrows listings to the records the relationship rule would
// allow one by one. Resources without a relationship scope get no extra
// predicates.
func (c *accessController) ListScope(identity *models.Identity, resourceType string) ([]contracts.Predicate, error) {
	if identity == nil {
		return nil, fmt.Errorf("list scope requested without identity")
	}

	rule, ok := lookupCapability(resourceType, contracts.ActionList)
	if !ok || rule.scope != scopeRelationship {
		return nil, nil
	}

	switch identity.Role {
	case constvars.RoleAdmin, constvars.RoleDoctor:
		return nil, nil
	case constvars.RoleNurse:
		departments := append([]string{}, identity.DepartmentAffiliations...)
		return []contracts.Predicate{{Field: fieldDepartmentID, Operator: contracts.OpIn, Value: departments}}, nil
	case constvars.RoleFrontDesk:
		return []contracts.Predicate{{Field: fieldCreatedBy, Operator: contracts.OpEq, Value: identity.AccountID}}, nil
	default:
		return nil, fmt.Errorf("no list scope for role %q", identity.Role)
	}
}

func deny(outcome contracts.Outcome, reason string, action contracts.Action, resourceType string) contracts.Decision {
	return contracts.Decision{Outcome: outcome, Reason: reason, Action: action, ResourceType: resourceType}
}

func (c *accessController) report(ctx context.Context, identity *models.Identity, decision contracts.Decision, resource *models.ResourceDescriptor) {
	if decision.Allowed() {
		return
	}

	requestID := utils.GetRequestID(ctx)
	event := contracts.AuditEvent{
		Name:         contracts.AuditEventAccessDenied,
		Action:       string(decision.Action),
		ResourceType: decision.ResourceType,
		Outcome:      string(decision.Outcome),
		Reason:       decision.Reason,
		RequestID:    requestID,
	}
	if identity != nil {
		event.ActorID = identity.AccountID
		event.ActorRole = identity.Role
	}
	if resource != nil {
		event.ResourceID = resource.ID
		if event.ResourceType == "" {
			event.ResourceType = resource.ResourceType
		}
	}

	severity := constvars.SecuritySeverityMedium
	if decision.Outcome == contracts.OutcomeServerMisconfigured {
		event.Name = contracts.AuditEventAccessMisconfigured
		severity = constvars.SecuritySeverityCritical
	}

	utils.LogSecurityEvent(c.Log, event.Name, requestID, severity,
		zap.String(constvars.LoggingAccountIDKey, event.ActorID),
		zap.String(constvars.LoggingRoleKey, event.ActorRole),
		zap.String(constvars.LoggingActionKey, event.Action),
		zap.String(constvars.LoggingResourceTypeKey, event.ResourceType),
		zap.String(constvars.LoggingTargetIDKey, event.ResourceID),
		zap.String(constvars.LoggingReasonKey, event.Reason),
	)
	c.Audit.Record(ctx, event)
}
