package notification

import (
	"context"

	"talnurt/internal/common"
)

type Type string

const (
	TypeAllocationAssigned Type = "allocation_assigned"
	TypeAllocationResponse Type = "allocation_response"
	TypeSubmissionReviewed Type = "submission_reviewed"
)

type Notification struct {
	TargetActorID   common.UUID `json:"target_actor_id"`
	Title           string      `json:"title"`
	Message         string      `json:"message"`
	Type            Type        `json:"type"`
	RelatedEntityID common.UUID `json:"related_entity_id"`
}

// Emitter is the best-effort side channel. Implementations must never block
// or fail the state transition that triggered the notification; errors are
// for logging only.
type Emitter interface {
	Emit(ctx context.Context, n Notification) error
}
