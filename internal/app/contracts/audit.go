package contracts

import (
	"context"
	"time"
)

const (
	AuditEventAuthFailure         = "auth.failure"
	AuditEventAccessDenied        = "access.denied"
	AuditEventAccessMisconfigured = "access.misconfigured"
)

type AuditEvent struct {
	Name         string                 `json:"name"`
	ActorID      string                 `json:"actorId,omitempty"`
	ActorRole    string                 `json:"actorRole,omitempty"`
	Action       string                 `json:"action,omitempty"`
	ResourceType string                 `json:"resourceType,omitempty"`
	ResourceID   string                 `json:"resourceId,omitempty"`
	Outcome      string                 `json:"outcome,omitempty"`
	Reason       string                 `json:"reason,omitempty"`
	RequestID    string                 `json:"requestId,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
	OccurredAt   time.Time              `json:"occurredAt"`
}

// AuditSink is fire-and-forget: Record never blocks on delivery and never
// fails the request.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent)
}
