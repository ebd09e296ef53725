package submission

import (
	"context"
	"time"

	"talnurt/internal/common"
)

type Repository interface {
	Create(ctx context.Context, s CandidateSubmission) (*CandidateSubmission, error)
	Update(ctx context.Context, s CandidateSubmission) (*CandidateSubmission, error)
	GetByID(ctx context.Context, id common.UUID) (*CandidateSubmission, error)
	FindByRecruiterAndCandidate(ctx context.Context, recruiterID, candidateID common.UUID) (*CandidateSubmission, error)
	ListByRecruiter(ctx context.Context, recruiterID common.UUID) ([]CandidateSubmission, error)
	// Review performs the guarded pending -> approved/rejected transition as
	// a single conditional update; false means no pending row matched.
	Review(ctx context.Context, id common.UUID, status Status, feedback *ReviewFeedback, reviewedAt time.Time) (bool, error)
	// ExistsLinkingEmployeeToEmployer reports whether any submission by the
	// employee targets one of the employer's allocations. Used by the
	// provenance access fallback.
	ExistsLinkingEmployeeToEmployer(ctx context.Context, employeeID, employerID common.UUID) (bool, error)
}
