package report

import (
	"context"

	"talnurt/internal/common"
	"talnurt/internal/domain/actor"
)

type Repository interface {
	Create(ctx context.Context, r Report) (*Report, error)
	GetByID(ctx context.Context, id common.UUID) (*Report, error)
	ListByRecipient(ctx context.Context, recipientID common.UUID) ([]Report, error)
	ListByAuthor(ctx context.Context, authorID common.UUID) ([]Report, error)
	// ListAuthoredToRoles returns reports the author sent to recipients
	// currently holding one of the given roles.
	ListAuthoredToRoles(ctx context.Context, authorID common.UUID, roles ...actor.Role) ([]Report, error)
	// ListFromDirectReports returns reports addressed to the manager whose
	// author has that manager as direct manager.
	ListFromDirectReports(ctx context.Context, managerID common.UUID) ([]Report, error)
	MarkRead(ctx context.Context, id common.UUID) (*Report, error)
}
