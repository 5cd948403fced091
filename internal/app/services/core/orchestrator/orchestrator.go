package orchestrator

import (
	"context"
	"fmt"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Fetcher runs a shaped query against the store and returns the unmasked
// record views plus the total match count.
type Fetcher func(ctx context.Context, spec contracts.FindSpec) ([]map[string]interface{}, int64, error)

type ListRequest struct {
	Action       contracts.Action
	ResourceType string
	Params       url.Values
	// BasePredicates always apply, e.g. excluding soft-deleted records.
	BasePredicates []contracts.Predicate
	Fetch          Fetcher
}

// Loaded is a record view together with its authorization projection.
type Loaded struct {
	Descriptor *models.ResourceDescriptor
	Record     map[string]interface{}
}

type GetRequest struct {
	Action       contracts.Action
	ResourceType string
	// Load returns nil, nil when the record does not exist.
	Load func(ctx context.Context) (*Loaded, error)
}

type MutateRequest struct {
	Action       contracts.Action
	ResourceType string
	ResourceID   string
	// LoadDescriptor is nil for creations. It returns nil, nil when the
	// target does not exist.
	LoadDescriptor func(ctx context.Context) (*models.ResourceDescriptor, error)
	// Apply performs the mutation and returns the resulting record view,
	// or nil when there is nothing to return.
	Apply func(ctx context.Context, identity *models.Identity) (map[string]interface{}, error)
}

// Orchestrator composes identity, access, query shaping, store access and
// masking for one request. It keeps no state between requests.
type Orchestrator struct {
	Access contracts.AccessController
	Shaper contracts.QueryShaper
	Masker contracts.Masker
	Audit  contracts.AuditSink
	Log    *zap.Logger
	now    func() time.Time
}

func NewOrchestrator(
	access contracts.AccessController,
	shaper contracts.QueryShaper,
	masker contracts.Masker,
	audit contracts.AuditSink,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		Access: access,
		Shaper: shaper,
		Masker: masker,
		Audit:  audit,
		Log:    logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (o *Orchestrator) List(ctx context.Context, request ListRequest) (*contracts.ListResult, error) {
	requestID := utils.GetRequestID(ctx)
	o.Log.Info("Orchestrator.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceTypeKey, request.ResourceType),
		zap.String(constvars.LoggingActionKey, string(request.Action)),
	)

	if decision := o.Access.Precheck(ctx, request.Action, request.ResourceType); !decision.Allowed() {
		return nil, decision.Err()
	}
	identity, _ := models.IdentityFromContext(ctx)

	spec, err := o.Shaper.Shape(request.ResourceType, request.Params)
	if err != nil {
		o.Log.Info("Orchestrator.List query rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	scope, err := o.Access.ListScope(identity, request.ResourceType)
	if err != nil {
		return nil, exceptions.ErrForbidden(err, contracts.ReasonUnknownRole)
	}

	predicates := make([]contracts.Predicate, 0, len(request.BasePredicates)+len(scope)+len(spec.Predicates))
	predicates = append(predicates, request.BasePredicates...)
	predicates = append(predicates, scope...)
	predicates = append(predicates, spec.Predicates...)

	records, total, err := request.Fetch(ctx, contracts.FindSpec{
		Predicates: predicates,
		Sort:       spec.Sort,
		Skip:       spec.Skip(),
		Limit:      int64(spec.Limit),
	})
	if err != nil {
		o.Log.Error("Orchestrator.List fetch failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingResourceTypeKey, request.ResourceType),
			zap.Error(err),
		)
		return nil, err
	}

	o.Log.Info("Orchestrator.List succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("count", len(records)),
		zap.Int64("total", total),
	)

	return &contracts.ListResult{
		Records:    o.Masker.MaskList(records, identity, request.ResourceType),
		Pagination: utils.BuildPaginationResponse(total, spec.Page, spec.Limit),
		Debug:      spec.Debug,
	}, nil
}

// Get checks role and verification before loading, so a caller who may not
// use the action at all cannot learn whether the record exists.
func (o *Orchestrator) Get(ctx context.Context, request GetRequest) (map[string]interface{}, error) {
	requestID := utils.GetRequestID(ctx)
	o.Log.Info("Orchestrator.Get called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceTypeKey, request.ResourceType),
	)

	if decision := o.Access.Precheck(ctx, request.Action, request.ResourceType); !decision.Allowed() {
		return nil, decision.Err()
	}
	identity, _ := models.IdentityFromContext(ctx)

	loaded, err := request.Load(ctx)
	if err != nil {
		return nil, err
	}
	if loaded == nil {
		return nil, exceptions.ErrNotFound(nil, request.ResourceType)
	}

	if decision := o.Access.Authorize(ctx, request.Action, loaded.Descriptor); !decision.Allowed() {
		return nil, decision.Err()
	}

	return o.Masker.Mask(loaded.Record, identity, request.ResourceType), nil
}

func (o *Orchestrator) Mutate(ctx context.Context, request MutateRequest) (map[string]interface{}, error) {
	requestID := utils.GetRequestID(ctx)
	o.Log.Info("Orchestrator.Mutate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceTypeKey, request.ResourceType),
		zap.String(constvars.LoggingActionKey, string(request.Action)),
		zap.String(constvars.LoggingTargetIDKey, request.ResourceID),
	)

	if decision := o.Access.Precheck(ctx, request.Action, request.ResourceType); !decision.Allowed() {
		return nil, decision.Err()
	}
	identity, _ := models.IdentityFromContext(ctx)

	if request.LoadDescriptor != nil {
		descriptor, err := request.LoadDescriptor(ctx)
		if err != nil {
			o.recordFailure(ctx, identity, request, err)
			return nil, err
		}
		if descriptor == nil {
			notFound := exceptions.ErrNotFound(nil, request.ResourceType)
			o.recordFailure(ctx, identity, request, notFound)
			return nil, notFound
		}
		if decision := o.Access.Authorize(ctx, request.Action, descriptor); !decision.Allowed() {
			return nil, decision.Err()
		}
	}

	record, err := request.Apply(ctx, identity)
	if err != nil {
		o.recordFailure(ctx, identity, request, err)
		return nil, err
	}

	succeeded := o.event(ctx, identity, request, "success", "")
	succeeded.Name += ".succeeded"
	o.Audit.Record(ctx, succeeded)
	o.Log.Info("Orchestrator.Mutate succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingActionKey, string(request.Action)),
		zap.String(constvars.LoggingTargetIDKey, request.ResourceID),
	)

	if record == nil {
		return nil, nil
	}
	return o.Masker.Mask(record, identity, request.ResourceType), nil
}

func (o *Orchestrator) recordFailure(ctx context.Context, identity *models.Identity, request MutateRequest, err error) {
	reason := exceptions.CodeInternal
	if customErr, ok := exceptions.AsCustomError(err); ok {
		reason = customErr.Code
	}

	event := o.event(ctx, identity, request, "failed", reason)
	event.Name += ".failed"
	o.Audit.Record(ctx, event)

	o.Log.Warn("Orchestrator.Mutate failed",
		zap.String(constvars.LoggingRequestIDKey, event.RequestID),
		zap.String(constvars.LoggingActionKey, string(request.Action)),
		zap.String(constvars.LoggingTargetIDKey, request.ResourceID),
		zap.String(constvars.LoggingErrorCodeKey, reason),
		zap.Error(err),
	)
}

func (o *Orchestrator) event(ctx context.Context, identity *models.Identity, request MutateRequest, outcome, reason string) contracts.AuditEvent {
	event := contracts.AuditEvent{
		Name:         fmt.Sprintf("%s.%s", request.ResourceType, request.Action),
		Action:       string(request.Action),
		ResourceType: request.ResourceType,
		ResourceID:   request.ResourceID,
		Outcome:      outcome,
		Reason:       reason,
		RequestID:    utils.GetRequestID(ctx),
		OccurredAt:   o.now(),
	}
	if identity != nil {
		event.ActorID = identity.AccountID
		event.ActorRole = identity.Role
	}
	return event
}
