package app

import (
	"context"
	"fmt"
	"time"

	"talnurt/internal/common"
	"talnurt/internal/config"
	"talnurt/internal/domain/actor"
	"talnurt/internal/domain/allocation"
	"talnurt/internal/domain/notification"
	"talnurt/internal/domain/submission"
	"talnurt/internal/observability"
)

type SubmissionService struct {
	submissions    submission.Repository
	allocations    allocation.Repository
	directory      actor.Repository
	access         *EmployerAccessPolicy
	notifier       notification.Emitter
	logger         *observability.Logger
	resubmitPolicy string
}

func NewSubmissionService(submissions submission.Repository, allocations allocation.Repository, directory actor.Repository, access *EmployerAccessPolicy, notifier notification.Emitter, logger *observability.Logger, resubmitPolicy string) *SubmissionService {
	return &SubmissionService{submissions: submissions, allocations: allocations, directory: directory, access: access, notifier: notifier, logger: logger, resubmitPolicy: resubmitPolicy}
}

type SubmitCandidateInput struct {
	CandidateID  common.UUID
	AllocationID *common.UUID
	Notes        string
	Tags         []string
}

// Submit upserts a candidate submission on its (recruiter, candidate)
// natural key. A repeated submit updates the existing row instead of
// duplicating it; whether it reopens a rejected submission depends on the
// configured resubmit policy.
func (s *SubmissionService) Submit(ctx context.Context, recruiterID common.UUID, input SubmitCandidateInput) (*submission.CandidateSubmission, error) {
	recruiter, err := s.directory.GetByID(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	if !canSubmitCandidates(recruiter.Role) {
		return nil, common.NewError(common.CodeForbidden, "role may not submit candidates", nil)
	}
	if _, err := s.directory.GetByID(ctx, input.CandidateID); err != nil {
		return nil, err
	}
	if input.AllocationID != nil {
		if _, err := s.allocations.GetByID(ctx, *input.AllocationID); err != nil {
			return nil, err
		}
	}

	existing, err := s.submissions.FindByRecruiterAndCandidate(ctx, recruiterID, input.CandidateID)
	if err != nil {
		if !common.Is(err, common.CodeNotFound) {
			return nil, err
		}
		return s.submissions.Create(ctx, submission.CandidateSubmission{
			RecruiterID:  recruiterID,
			CandidateID:  input.CandidateID,
			AllocationID: input.AllocationID,
			Status:       submission.StatusPending,
			Notes:        input.Notes,
			Tags:         input.Tags,
		})
	}

	existing.Notes = input.Notes
	existing.Tags = input.Tags
	if input.AllocationID != nil {
		existing.AllocationID = input.AllocationID
	}
	if existing.Status == submission.StatusRejected && s.resubmitPolicy == config.ResubmitPolicyReopen {
		existing.Status = submission.StatusPending
		existing.Feedback = nil
	}
	return s.submissions.Update(ctx, *existing)
}

func canSubmitCandidates(role actor.Role) bool {
	switch role {
	case actor.RoleRecruiter, actor.RoleManager, actor.RoleEmployee:
		return true
	default:
		return false
	}
}

// Review settles a pending submission. The transition is guarded by a
// conditional update so concurrent reviews cannot both land.
func (s *SubmissionService) Review(ctx context.Context, submissionID, reviewerID common.UUID, status submission.Status, feedback submission.ReviewFeedback) (*submission.CandidateSubmission, error) {
	if !submission.IsReviewStatus(status) {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be approved or rejected"})
	}
	reviewer, err := s.directory.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if reviewer.Role != actor.RoleEmployer {
		return nil, common.NewError(common.CodeForbidden, "only employers review submissions", nil)
	}
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	recruiter, err := s.directory.GetByID(ctx, sub.RecruiterID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Authorize(ctx, reviewer, recruiter); err != nil {
		return nil, err
	}
	if sub.Status != submission.StatusPending {
		return nil, common.NewError(common.CodeInvalidState, "submission was already reviewed", nil)
	}
	feedback.Version = submission.FeedbackVersion
	if feedback.Decision == "" {
		feedback.Decision = string(status)
	}
	reviewedAt := time.Now().UTC()
	updated, err := s.submissions.Review(ctx, submissionID, status, &feedback, reviewedAt)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, common.NewError(common.CodeConflict, "submission was already reviewed", nil)
	}
	s.emit(ctx, notification.Notification{
		TargetActorID:   sub.RecruiterID,
		Title:           "Candidate submission reviewed",
		Message:         fmt.Sprintf("Your candidate submission was %s", status),
		Type:            notification.TypeSubmissionReviewed,
		RelatedEntityID: sub.ID,
	})
	result := *sub
	result.Status = status
	result.Feedback = &feedback
	result.UpdatedAt = reviewedAt
	return &result, nil
}

func (s *SubmissionService) ListByRecruiter(ctx context.Context, recruiterID common.UUID) ([]submission.CandidateSubmission, error) {
	return s.submissions.ListByRecruiter(ctx, recruiterID)
}

func (s *SubmissionService) emit(ctx context.Context, n notification.Notification) {
	if err := s.notifier.Emit(ctx, n); err != nil && s.logger != nil {
		s.logger.Warn("notification emit failed", "type", string(n.Type), "target", n.TargetActorID.String(), "error", err.Error())
	}
}
