package access

import (
	"context"
	"sync"
	"testing"

	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingAudit struct {
	mu     sync.Mutex
	events []contracts.AuditEvent
}

func (r *recordingAudit) Record(ctx context.Context, event contracts.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func newController() (*accessController, *recordingAudit) {
	audit := &recordingAudit{}
	return &accessController{Audit: audit, Log: zap.NewNop()}, audit
}

func identityCtx(identity *models.Identity) context.Context {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
	if identity == nil {
		return ctx
	}
	return models.ContextWithIdentity(ctx, identity)
}

func admin() *models.Identity {
	return &models.Identity{AccountID: "admin-1", Role: constvars.RoleAdmin}
}

func doctor(status models.VerificationStatus) *models.Identity {
	return &models.Identity{AccountID: "doc-1", Role: constvars.RoleDoctor, VerificationStatus: status}
}

func nurse(departments ...string) *models.Identity {
	return &models.Identity{AccountID: "nurse-1", Role: constvars.RoleNurse, VerificationStatus: models.VerificationVerified, DepartmentAffiliations: departments}
}

func frontDesk() *models.Identity {
	return &models.Identity{AccountID: "fd-1", Role: constvars.RoleFrontDesk}
}

func patient(department, creator string) *models.ResourceDescriptor {
	return &models.ResourceDescriptor{ResourceType: constvars.ResourcePatients, ID: "p-1", DepartmentID: department, CreatorID: creator}
}

func account(id string) *models.ResourceDescriptor {
	return &models.ResourceDescriptor{ResourceType: constvars.ResourceUsers, ID: id, OwnerID: id}
}

func TestAuthorizeMissingIdentityIsMisconfigured(t *testing.T) {
	c, audit := newController()

	decision := c.Authorize(identityCtx(nil), contracts.ActionView, patient("d1", ""))

	assert.Equal(t, contracts.OutcomeServerMisconfigured, decision.Outcome)
	assert.Equal(t, contracts.ReasonIdentityMissing, decision.Reason)
	require.Len(t, audit.events, 1)
	assert.Equal(t, contracts.AuditEventAccessMisconfigured, audit.events[0].Name)
	assert.True(t, exceptions.HasCode(decision.Err(), exceptions.CodeServerMisconfigured))
}

func TestAuthorizeWithoutDescriptorIsMisconfigured(t *testing.T) {
	c, _ := newController()

	decision := c.Authorize(identityCtx(admin()), contracts.ActionDelete, nil)

	assert.Equal(t, contracts.OutcomeServerMisconfigured, decision.Outcome)
	assert.Equal(t, contracts.ReasonResourceRequired, decision.Reason)
}

func TestDenialLogSeverity(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := &accessController{Audit: &recordingAudit{}, Log: zap.New(core)}

	decision := c.Authorize(identityCtx(admin()), contracts.ActionDelete, nil)
	require.Equal(t, contracts.OutcomeServerMisconfigured, decision.Outcome)

	critical := logs.FilterLevelExact(zapcore.DPanicLevel).AllUntimed()
	require.Len(t, critical, 1)
	assert.Equal(t, constvars.SecuritySeverityCritical, critical[0].ContextMap()["severity"])
	assert.Equal(t, contracts.AuditEventAccessMisconfigured, critical[0].ContextMap()["security_event"])

	c.Precheck(identityCtx(frontDesk()), contracts.ActionUpdate, constvars.ResourcePatients)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.DPanicLevel).Len())
}

func TestPrecheckRoleAndAction(t *testing.T) {
	c, audit := newController()

	t.Run("unknown action", func(t *testing.T) {
		decision := c.Precheck(identityCtx(admin()), contracts.Action("purge"), constvars.ResourcePatients)
		assert.Equal(t, contracts.ReasonUnknownAction, decision.Reason)
	})

	t.Run("unknown role", func(t *testing.T) {
		decision := c.Precheck(identityCtx(&models.Identity{AccountID: "x", Role: "janitor"}), contracts.ActionList, constvars.ResourcePatients)
		assert.Equal(t, contracts.ReasonUnknownRole, decision.Reason)
	})

	t.Run("role not permitted", func(t *testing.T) {
		decision := c.Precheck(identityCtx(doctor(models.VerificationVerified)), contracts.ActionList, constvars.ResourceUsers)
		assert.Equal(t, contracts.OutcomeForbidden, decision.Outcome)
		assert.Equal(t, contracts.ReasonRoleNotPermitted, decision.Reason)
		assert.True(t, exceptions.HasCode(decision.Err(), exceptions.CodeForbidden))
	})

	t.Run("front desk cannot update patients", func(t *testing.T) {
		decision := c.Precheck(identityCtx(frontDesk()), contracts.ActionUpdate, constvars.ResourcePatients)
		assert.Equal(t, contracts.ReasonRoleNotPermitted, decision.Reason)
	})

	t.Run("admin lists users", func(t *testing.T) {
		decision := c.Precheck(identityCtx(admin()), contracts.ActionList, constvars.ResourceUsers)
		assert.True(t, decision.Allowed())
		assert.NoError(t, decision.Err())
	})

	for _, event := range audit.events {
		assert.Equal(t, contracts.AuditEventAccessDenied, event.Name)
		assert.Equal(t, "req-1", event.RequestID)
	}
	assert.Len(t, audit.events, 4)
}

func TestVerificationGate(t *testing.T) {
	c, _ := newController()

	for _, status := range []models.VerificationStatus{models.VerificationUnsubmitted, models.VerificationPending, models.VerificationRejected} {
		decision := c.Authorize(identityCtx(doctor(status)), contracts.ActionView, patient("d1", ""))
		assert.Equal(t, contracts.ReasonVerificationRequired, decision.Reason, status)
		customErr, ok := exceptions.AsCustomError(decision.Err())
		require.True(t, ok)
		assert.Equal(t, constvars.ErrClientNotVerified, customErr.ClientMessage)
	}

	decision := c.Authorize(identityCtx(doctor(models.VerificationVerified)), contracts.ActionView, patient("d1", ""))
	assert.True(t, decision.Allowed())

	t.Run("front desk bypasses the gate", func(t *testing.T) {
		decision := c.Precheck(identityCtx(frontDesk()), contracts.ActionCreate, constvars.ResourcePatients)
		assert.True(t, decision.Allowed())
	})

	t.Run("gate is not applied to self profile", func(t *testing.T) {
		d := doctor(models.VerificationPending)
		decision := c.Authorize(identityCtx(d), contracts.ActionView, account(d.AccountID))
		assert.True(t, decision.Allowed())
	})
}

func TestSelfTargetGuard(t *testing.T) {
	c, _ := newController()
	a := admin()

	for _, action := range []contracts.Action{contracts.ActionChangeRole, contracts.ActionDeactivate, contracts.ActionDelete, contracts.ActionReviewVerification} {
		decision := c.Authorize(identityCtx(a), action, account(a.AccountID))
		assert.Equal(t, contracts.ReasonSelfTargetForbidden, decision.Reason, action)
	}

	decision := c.Authorize(identityCtx(a), contracts.ActionChangeRole, account("someone-else"))
	assert.True(t, decision.Allowed())

	decision = c.Authorize(identityCtx(a), contracts.ActionUpdate, account(a.AccountID))
	assert.True(t, decision.Allowed())
}

func TestSelfScope(t *testing.T) {
	c, _ := newController()
	n := nurse("d1")

	assert.True(t, c.Authorize(identityCtx(n), contracts.ActionView, account(n.AccountID)).Allowed())

	decision := c.Authorize(identityCtx(n), contracts.ActionUpdate, account("other"))
	assert.Equal(t, contracts.ReasonNotResourceOwner, decision.Reason)

	assert.True(t, c.Authorize(identityCtx(admin()), contracts.ActionView, account("other")).Allowed())
}

func TestRelationshipScope(t *testing.T) {
	c, _ := newController()

	t.Run("nurse in department", func(t *testing.T) {
		assert.True(t, c.Authorize(identityCtx(nurse("d1", "d2")), contracts.ActionUpdate, patient("d2", "")).Allowed())
	})

	t.Run("nurse outside department", func(t *testing.T) {
		decision := c.Authorize(identityCtx(nurse("d1")), contracts.ActionView, patient("d9", ""))
		assert.Equal(t, contracts.ReasonDepartmentMismatch, decision.Reason)
	})

	t.Run("nurse without affiliations", func(t *testing.T) {
		decision := c.Authorize(identityCtx(nurse()), contracts.ActionView, patient("", ""))
		assert.Equal(t, contracts.ReasonDepartmentMismatch, decision.Reason)
	})

	t.Run("front desk creator", func(t *testing.T) {
		assert.True(t, c.Authorize(identityCtx(frontDesk()), contracts.ActionView, patient("d1", "fd-1")).Allowed())
	})

	t.Run("front desk not creator", func(t *testing.T) {
		decision := c.Authorize(identityCtx(frontDesk()), contracts.ActionView, patient("d1", "someone"))
		assert.Equal(t, contracts.ReasonNotResourceCreator, decision.Reason)
	})

	t.Run("doctor sees every patient", func(t *testing.T) {
		assert.True(t, c.Authorize(identityCtx(doctor(models.VerificationVerified)), contracts.ActionView, patient("d9", "x")).Allowed())
	})

	t.Run("only admin deletes", func(t *testing.T) {
		decision := c.Authorize(identityCtx(doctor(models.VerificationVerified)), contracts.ActionDelete, patient("d1", ""))
		assert.Equal(t, contracts.ReasonRoleNotPermitted, decision.Reason)
		assert.True(t, c.Authorize(identityCtx(admin()), contracts.ActionDelete, patient("d1", "")).Allowed())
	})
}

func TestListScope(t *testing.T) {
	c, _ := newController()

	preds, err := c.ListScope(admin(), constvars.ResourcePatients)
	require.NoError(t, err)
	assert.Empty(t, preds)

	preds, err = c.ListScope(nurse("d1", "d2"), constvars.ResourcePatients)
	require.NoError(t, err)
	assert.Equal(t, []contracts.Predicate{{Field: "departmentId", Operator: contracts.OpIn, Value: []string{"d1", "d2"}}}, preds)

	preds, err = c.ListScope(nurse(), constvars.ResourcePatients)
	require.NoError(t, err)
	assert.Equal(t, []string{}, preds[0].Value)

	preds, err = c.ListScope(frontDesk(), constvars.ResourcePatients)
	require.NoError(t, err)
	assert.Equal(t, []contracts.Predicate{{Field: "createdBy", Operator: contracts.OpEq, Value: "fd-1"}}, preds)

	preds, err = c.ListScope(admin(), constvars.ResourceUsers)
	require.NoError(t, err)
	assert.Empty(t, preds)

	_, err = c.ListScope(&models.Identity{Role: "janitor"}, constvars.ResourcePatients)
	assert.Error(t, err)

	_, err = c.ListScope(nil, constvars.ResourcePatients)
	assert.Error(t, err)
}

func TestCapabilityTableIsComplete(t *testing.T) {
	expected := map[string][]contracts.Action{
		constvars.ResourceUsers: {
			contracts.ActionList, contracts.ActionView, contracts.ActionUpdate, contracts.ActionChangeRole,
			contracts.ActionDeactivate, contracts.ActionActivate, contracts.ActionDelete,
			contracts.ActionSubmitVerification, contracts.ActionReviewVerification, contracts.ActionListPendingVerification,
		},
		constvars.ResourcePatients: {
			contracts.ActionList, contracts.ActionView, contracts.ActionCreate, contracts.ActionUpdate,
			contracts.ActionDelete, contracts.ActionRestore, contracts.ActionExport,
		},
	}

	total := 0
	for resource, actions := range expected {
		for _, action := range actions {
			_, ok := lookupCapability(resource, action)
			assert.True(t, ok, "%s %s", resource, action)
			total++
		}
	}
	assert.Len(t, capabilityTable, total)
}
