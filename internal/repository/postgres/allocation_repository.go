package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"talnurt/internal/common"
	"talnurt/internal/domain/allocation"
)

type AllocationRepository struct {
	db *sql.DB
}

func NewAllocationRepository(db *sql.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

func (r *AllocationRepository) Create(ctx context.Context, alloc allocation.ProfileAllocation, employeeIDs []common.UUID) (*allocation.ProfileAllocation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin allocation create", err)
	}
	defer func() { _ = tx.Rollback() }()

	alloc.ID = common.NewUUID()
	alloc.CreatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx, `INSERT INTO profile_allocations (id, created_by_id, job_title, description, skills, locations, experience, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		alloc.ID, alloc.CreatedByID, alloc.JobTitle, alloc.Description, pq.Array(alloc.Skills), pq.Array(alloc.Locations), alloc.Experience, alloc.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create allocation", err)
	}
	for _, employeeID := range employeeIDs {
		assignment := allocation.Assignment{
			ID:           common.NewUUID(),
			AllocationID: alloc.ID,
			EmployeeID:   employeeID,
			Status:       allocation.StatusPending,
			NotifiedAt:   alloc.CreatedAt,
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO allocation_assignments (id, allocation_id, employee_id, status, response, notified_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			assignment.ID, assignment.AllocationID, assignment.EmployeeID, assignment.Status, assignment.Response, assignment.NotifiedAt)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to create assignment", err)
		}
		alloc.Assignments = append(alloc.Assignments, assignment)
	}
	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit allocation create", err)
	}
	return &alloc, nil
}

func (r *AllocationRepository) GetByID(ctx context.Context, id common.UUID) (*allocation.ProfileAllocation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, created_by_id, job_title, description, skills, locations, experience, created_at
		FROM profile_allocations WHERE id = $1`, id)
	var alloc allocation.ProfileAllocation
	if err := row.Scan(&alloc.ID, &alloc.CreatedByID, &alloc.JobTitle, &alloc.Description, pq.Array(&alloc.Skills), pq.Array(&alloc.Locations), &alloc.Experience, &alloc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "allocation not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load allocation", err)
	}
	assignments, err := r.listAssignments(ctx, `SELECT id, allocation_id, employee_id, status, response, notified_at, response_at
		FROM allocation_assignments WHERE allocation_id = $1 ORDER BY notified_at`, id)
	if err != nil {
		return nil, err
	}
	alloc.Assignments = assignments
	return &alloc, nil
}

func (r *AllocationRepository) ListByEmployer(ctx context.Context, employerID common.UUID) ([]allocation.ProfileAllocation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, created_by_id, job_title, description, skills, locations, experience, created_at
		FROM profile_allocations WHERE created_by_id = $1 ORDER BY created_at DESC`, employerID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list allocations", err)
	}
	defer rows.Close()
	var items []allocation.ProfileAllocation
	for rows.Next() {
		var alloc allocation.ProfileAllocation
		if err := rows.Scan(&alloc.ID, &alloc.CreatedByID, &alloc.JobTitle, &alloc.Description, pq.Array(&alloc.Skills), pq.Array(&alloc.Locations), &alloc.Experience, &alloc.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan allocation", err)
		}
		items = append(items, alloc)
	}
	return items, nil
}

func (r *AllocationRepository) GetAssignment(ctx context.Context, allocationID, employeeID common.UUID) (*allocation.Assignment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, allocation_id, employee_id, status, response, notified_at, response_at
		FROM allocation_assignments WHERE allocation_id = $1 AND employee_id = $2`, allocationID, employeeID)
	assignment, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "assignment not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load assignment", err)
	}
	return assignment, nil
}

func (r *AllocationRepository) ListAssignmentsForEmployee(ctx context.Context, employeeID common.UUID) ([]allocation.Assignment, error) {
	return r.listAssignments(ctx, `SELECT id, allocation_id, employee_id, status, response, notified_at, response_at
		FROM allocation_assignments WHERE employee_id = $1 ORDER BY notified_at DESC`, employeeID)
}

// RespondAssignment is the race guard for the assignment state machine: the
// status predicate in the WHERE clause means only one concurrent response
// can ever match the pending row.
func (r *AllocationRepository) RespondAssignment(ctx context.Context, allocationID, employeeID common.UUID, status allocation.AssignmentStatus, response string, responseAt time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE allocation_assignments
		SET status = $1, response = $2, response_at = $3
		WHERE allocation_id = $4 AND employee_id = $5 AND status = $6`,
		status, response, responseAt, allocationID, employeeID, allocation.StatusPending)
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to update assignment", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to update assignment", err)
	}
	return rows == 1, nil
}

func (r *AllocationRepository) listAssignments(ctx context.Context, query string, arg any) ([]allocation.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list assignments", err)
	}
	defer rows.Close()
	var items []allocation.Assignment
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan assignment", err)
		}
		items = append(items, *assignment)
	}
	return items, nil
}

func scanAssignment(row interface{ Scan(...any) error }) (*allocation.Assignment, error) {
	var assignment allocation.Assignment
	var responseAt sql.NullTime
	if err := row.Scan(&assignment.ID, &assignment.AllocationID, &assignment.EmployeeID, &assignment.Status, &assignment.Response, &assignment.NotifiedAt, &responseAt); err != nil {
		return nil, err
	}
	if responseAt.Valid {
		assignment.ResponseAt = &responseAt.Time
	}
	return &assignment, nil
}
