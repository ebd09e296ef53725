package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"

	"talnurt/internal/common"
	"talnurt/internal/domain/submission"
)

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

const submissionColumns = `id, recruiter_id, candidate_id, allocation_id, status, notes, tags, feedback, created_at, updated_at`

func (r *SubmissionRepository) Create(ctx context.Context, s submission.CandidateSubmission) (*submission.CandidateSubmission, error) {
	s.ID = common.NewUUID()
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	feedback, err := marshalFeedback(s.Feedback)
	if err != nil {
		return nil, err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO candidate_submissions (id, recruiter_id, candidate_id, allocation_id, status, notes, tags, feedback, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.RecruiterID, s.CandidateID, optionalID(s.AllocationID), s.Status, s.Notes, pq.Array(s.Tags), feedback, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create submission", err)
	}
	return &s, nil
}

func (r *SubmissionRepository) Update(ctx context.Context, s submission.CandidateSubmission) (*submission.CandidateSubmission, error) {
	s.UpdatedAt = time.Now().UTC()
	feedback, err := marshalFeedback(s.Feedback)
	if err != nil {
		return nil, err
	}
	result, err := r.db.ExecContext(ctx, `UPDATE candidate_submissions
		SET allocation_id = $1, status = $2, notes = $3, tags = $4, feedback = $5, updated_at = $6
		WHERE id = $7`,
		optionalID(s.AllocationID), s.Status, s.Notes, pq.Array(s.Tags), feedback, s.UpdatedAt, s.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update submission", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "submission not found", sql.ErrNoRows)
	}
	return &s, nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id common.UUID) (*submission.CandidateSubmission, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM candidate_submissions WHERE id = $1`, id)
	s, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "submission not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load submission", err)
	}
	return s, nil
}

func (r *SubmissionRepository) FindByRecruiterAndCandidate(ctx context.Context, recruiterID, candidateID common.UUID) (*submission.CandidateSubmission, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM candidate_submissions WHERE recruiter_id = $1 AND candidate_id = $2`, recruiterID, candidateID)
	s, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "submission not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load submission", err)
	}
	return s, nil
}

func (r *SubmissionRepository) ListByRecruiter(ctx context.Context, recruiterID common.UUID) ([]submission.CandidateSubmission, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+submissionColumns+` FROM candidate_submissions WHERE recruiter_id = $1 ORDER BY created_at DESC`, recruiterID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list submissions", err)
	}
	defer rows.Close()
	var items []submission.CandidateSubmission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan submission", err)
		}
		items = append(items, *s)
	}
	return items, nil
}

// Review is the conditional pending-only transition; zero rows affected
// means the submission left pending in the meantime.
func (r *SubmissionRepository) Review(ctx context.Context, id common.UUID, status submission.Status, feedback *submission.ReviewFeedback, reviewedAt time.Time) (bool, error) {
	payload, err := marshalFeedback(feedback)
	if err != nil {
		return false, err
	}
	result, err := r.db.ExecContext(ctx, `UPDATE candidate_submissions
		SET status = $1, feedback = $2, updated_at = $3
		WHERE id = $4 AND status = $5`,
		status, payload, reviewedAt, id, submission.StatusPending)
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to review submission", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to review submission", err)
	}
	return rows == 1, nil
}

func (r *SubmissionRepository) ExistsLinkingEmployeeToEmployer(ctx context.Context, employeeID, employerID common.UUID) (bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT 1 FROM candidate_submissions s
		JOIN profile_allocations a ON a.id = s.allocation_id
		WHERE s.recruiter_id = $1 AND a.created_by_id = $2)`, employeeID, employerID)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, common.NewError(common.CodeInternal, "failed to check submission link", err)
	}
	return exists, nil
}

func scanSubmission(row interface{ Scan(...any) error }) (*submission.CandidateSubmission, error) {
	var s submission.CandidateSubmission
	var allocationID sql.NullString
	var feedback []byte
	if err := row.Scan(&s.ID, &s.RecruiterID, &s.CandidateID, &allocationID, &s.Status, &s.Notes, pq.Array(&s.Tags), &feedback, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.AllocationID = optionalUUID(allocationID)
	if len(feedback) > 0 {
		var parsed submission.ReviewFeedback
		if err := json.Unmarshal(feedback, &parsed); err != nil {
			return nil, err
		}
		s.Feedback = &parsed
	}
	return &s, nil
}

func marshalFeedback(feedback *submission.ReviewFeedback) ([]byte, error) {
	if feedback == nil {
		return nil, nil
	}
	payload, err := json.Marshal(feedback)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode feedback", err)
	}
	return payload, nil
}

func optionalID(id *common.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}
