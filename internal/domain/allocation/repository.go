package allocation

import (
	"context"
	"time"

	"talnurt/internal/common"
)

type Repository interface {
	// Create persists the allocation and one pending assignment per employee
	// in a single transaction.
	Create(ctx context.Context, alloc ProfileAllocation, employeeIDs []common.UUID) (*ProfileAllocation, error)
	GetByID(ctx context.Context, id common.UUID) (*ProfileAllocation, error)
	ListByEmployer(ctx context.Context, employerID common.UUID) ([]ProfileAllocation, error)
	GetAssignment(ctx context.Context, allocationID, employeeID common.UUID) (*Assignment, error)
	ListAssignmentsForEmployee(ctx context.Context, employeeID common.UUID) ([]Assignment, error)
	// RespondAssignment performs the guarded transition out of pending. It
	// must be a single conditional update; it returns false when no pending
	// row matched, without reporting which precondition failed.
	RespondAssignment(ctx context.Context, allocationID, employeeID common.UUID, status AssignmentStatus, response string, responseAt time.Time) (bool, error)
}
