package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"talnurt/internal/common"
	"talnurt/internal/domain/actor"
	"talnurt/internal/domain/allocation"
	"talnurt/internal/domain/notification"
	"talnurt/internal/observability"
)

type AllocationService struct {
	allocations allocation.Repository
	directory   actor.Repository
	access      *EmployerAccessPolicy
	notifier    notification.Emitter
	logger      *observability.Logger
}

func NewAllocationService(allocations allocation.Repository, directory actor.Repository, access *EmployerAccessPolicy, notifier notification.Emitter, logger *observability.Logger) *AllocationService {
	return &AllocationService{allocations: allocations, directory: directory, access: access, notifier: notifier, logger: logger}
}

type CreateAllocationInput struct {
	JobTitle    string
	Description string
	Skills      []string
	Locations   []string
	Experience  string
	EmployeeIDs []common.UUID
}

func (s *AllocationService) Create(ctx context.Context, employerID common.UUID, input CreateAllocationInput) (*allocation.ProfileAllocation, error) {
	if strings.TrimSpace(input.JobTitle) == "" {
		return nil, common.NewValidationError("invalid allocation", map[string]string{"job_title": "job_title is required"})
	}
	if len(input.EmployeeIDs) == 0 {
		return nil, common.NewValidationError("invalid allocation", map[string]string{"employee_ids": "at least one employee is required"})
	}
	employer, err := s.directory.GetByID(ctx, employerID)
	if err != nil {
		return nil, err
	}
	if employer.Role != actor.RoleEmployer {
		return nil, common.NewError(common.CodeForbidden, "only employers create allocations", nil)
	}
	for _, employeeID := range input.EmployeeIDs {
		if _, err := s.directory.GetByID(ctx, employeeID); err != nil {
			return nil, err
		}
	}
	created, err := s.allocations.Create(ctx, allocation.ProfileAllocation{
		CreatedByID: employerID,
		JobTitle:    strings.TrimSpace(input.JobTitle),
		Description: input.Description,
		Skills:      input.Skills,
		Locations:   input.Locations,
		Experience:  input.Experience,
	}, input.EmployeeIDs)
	if err != nil {
		return nil, err
	}
	for _, employeeID := range input.EmployeeIDs {
		s.emit(ctx, notification.Notification{
			TargetActorID:   employeeID,
			Title:           "New profile allocation",
			Message:         fmt.Sprintf("You have been assigned to source candidates for %q", created.JobTitle),
			Type:            notification.TypeAllocationAssigned,
			RelatedEntityID: created.ID,
		})
	}
	return created, nil
}

// Respond handles an assignee's answer to an allocation. The transition out
// of pending happens exactly once; the persistence layer guards it with a
// conditional update so that of two concurrent responses only the first
// lands and the second observes a conflict.
func (s *AllocationService) Respond(ctx context.Context, allocationID, actorID common.UUID, status allocation.AssignmentStatus, response string) (*allocation.Assignment, error) {
	if !allocation.IsResponseStatus(status) {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be accepted, declined, or needs_clarification"})
	}
	responder, err := s.directory.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !canRespondToAllocation(responder.Role) {
		return nil, common.NewError(common.CodeForbidden, "role may not respond to allocations", nil)
	}
	alloc, err := s.allocations.GetByID(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	current, err := s.allocations.GetAssignment(ctx, allocationID, actorID)
	if err != nil {
		return nil, err
	}
	if current.Status != allocation.StatusPending {
		return nil, common.NewError(common.CodeInvalidState, "allocation was already handled", nil)
	}
	responseAt := time.Now().UTC()
	updated, err := s.allocations.RespondAssignment(ctx, allocationID, actorID, status, response, responseAt)
	if err != nil {
		return nil, err
	}
	if !updated {
		// The pending pre-check passed, so another response won the race.
		return nil, common.NewError(common.CodeConflict, "allocation was already handled", nil)
	}
	s.emit(ctx, notification.Notification{
		TargetActorID:   alloc.CreatedByID,
		Title:           "Allocation response",
		Message:         fmt.Sprintf("%s responded %s to %q", sanitizeName(responder.Name), status, alloc.JobTitle),
		Type:            notification.TypeAllocationResponse,
		RelatedEntityID: alloc.ID,
	})
	result := *current
	result.Status = status
	result.Response = response
	result.ResponseAt = &responseAt
	return &result, nil
}

func canRespondToAllocation(role actor.Role) bool {
	switch role {
	case actor.RoleManager, actor.RoleEmployee, actor.RoleRecruiter, actor.RoleUnassigned:
		return true
	default:
		return false
	}
}

// Get returns an allocation for an employer viewer, applying the ordered
// access strategies against the allocation owner.
func (s *AllocationService) Get(ctx context.Context, allocationID, viewerID common.UUID) (*allocation.ProfileAllocation, error) {
	viewer, err := s.directory.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	alloc, err := s.allocations.GetByID(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if alloc.CreatedByID == viewerID {
		return alloc, nil
	}
	owner, err := s.directory.GetByID(ctx, alloc.CreatedByID)
	if err != nil {
		return nil, err
	}
	if err := s.access.SameCompany(viewer, owner); err == nil {
		return alloc, nil
	}
	// Fallback strategy: one of the assigned employees handed a candidate to
	// the viewer before.
	for _, assignment := range alloc.Assignments {
		if err := s.access.Provenance(ctx, viewer, assignment.EmployeeID); err == nil {
			return alloc, nil
		} else if !common.Is(err, common.CodeForbidden) {
			return nil, err
		}
	}
	return nil, common.NewError(common.CodeForbidden, "no access to this allocation", nil)
}

func (s *AllocationService) ListByEmployer(ctx context.Context, employerID common.UUID) ([]allocation.ProfileAllocation, error) {
	return s.allocations.ListByEmployer(ctx, employerID)
}

func (s *AllocationService) ListAssignments(ctx context.Context, employeeID common.UUID) ([]allocation.Assignment, error) {
	return s.allocations.ListAssignmentsForEmployee(ctx, employeeID)
}

func (s *AllocationService) emit(ctx context.Context, n notification.Notification) {
	if err := s.notifier.Emit(ctx, n); err != nil && s.logger != nil {
		s.logger.Warn("notification emit failed", "type", string(n.Type), "target", n.TargetActorID.String(), "error", err.Error())
	}
}
