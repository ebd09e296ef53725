package app

import (
	"context"
	"testing"

	"talnurt/internal/common"
	"talnurt/internal/config"
	"talnurt/internal/domain/actor"
	"talnurt/internal/domain/submission"
)

func submissionFixture(t *testing.T, resubmitPolicy string) (*SubmissionService, *fakeDirectory, *fakeAllocationRepo, *fakeSubmissionRepo, *fakeNotifier) {
	t.Helper()
	directory := newFakeDirectory()
	allocations := newFakeAllocationRepo()
	submissions := newFakeSubmissionRepo()
	notifier := &fakeNotifier{}
	service := NewSubmissionService(submissions, allocations, directory, NewEmployerAccessPolicy(submissions), notifier, nil, resubmitPolicy)
	return service, directory, allocations, submissions, notifier
}

func TestSubmitUpsertsOnNaturalKey(t *testing.T) {
	service, directory, _, _, _ := submissionFixture(t, config.ResubmitPolicyManual)
	companyID := common.NewUUID()
	recruiter := directory.add(actor.Actor{Name: "Recruiter", Role: actor.RoleRecruiter, CompanyID: uuidPtr(companyID)})
	candidate := directory.add(actor.Actor{Name: "Candidate", Role: actor.RoleApplicant})

	first, err := service.Submit(context.Background(), recruiter.ID, SubmitCandidateInput{CandidateID: candidate.ID, Notes: "strong"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.Submit(context.Background(), recruiter.ID, SubmitCandidateInput{CandidateID: candidate.ID, Notes: "stronger", Tags: []string{"go"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected upsert, got a new submission %s vs %s", second.ID, first.ID)
	}
	if second.Notes != "stronger" || len(second.Tags) != 1 {
		t.Fatalf("expected fields updated in place: %+v", second)
	}

	items, err := service.ListByRecruiter(context.Background(), recruiter.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected a single submission, got %d", len(items))
	}
}

func TestSubmitRoleCheck(t *testing.T) {
	service, directory, _, _, _ := submissionFixture(t, config.ResubmitPolicyManual)
	applicant := directory.add(actor.Actor{Name: "Applicant", Role: actor.RoleApplicant})

	_, err := service.Submit(context.Background(), applicant.ID, SubmitCandidateInput{CandidateID: common.NewUUID()})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func reviewFixture(t *testing.T, resubmitPolicy string) (*SubmissionService, *fakeNotifier, common.UUID, common.UUID, common.UUID) {
	t.Helper()
	service, directory, allocations, submissions, notifier := submissionFixture(t, resubmitPolicy)
	companyID := common.NewUUID()
	employer := directory.add(actor.Actor{Name: "Employer", Role: actor.RoleEmployer, CompanyID: uuidPtr(companyID)})
	recruiter := directory.add(actor.Actor{Name: "Recruiter", Role: actor.RoleRecruiter, CompanyID: uuidPtr(companyID)})
	candidate := directory.add(actor.Actor{Name: "Candidate", Role: actor.RoleApplicant})
	alloc, err := allocations.Create(context.Background(), allocationOwnedBy(employer.ID), []common.UUID{recruiter.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	submissions.allocationOwners[alloc.ID] = employer.ID
	created, err := service.Submit(context.Background(), recruiter.ID, SubmitCandidateInput{CandidateID: candidate.ID, AllocationID: uuidPtr(alloc.ID)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return service, notifier, created.ID, employer.ID, recruiter.ID
}

func TestReviewApprovesWithStructuredFeedback(t *testing.T) {
	service, notifier, submissionID, employerID, recruiterID := reviewFixture(t, config.ResubmitPolicyManual)

	updated, err := service.Review(context.Background(), submissionID, employerID, submission.StatusApproved, submission.ReviewFeedback{
		Comments:  "solid background",
		Strengths: []string{"golang", "distributed systems"},
		Rating:    4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != submission.StatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}
	if updated.Feedback == nil || updated.Feedback.Version != submission.FeedbackVersion {
		t.Fatalf("expected versioned feedback, got %+v", updated.Feedback)
	}
	if updated.Feedback.Decision != string(submission.StatusApproved) {
		t.Fatalf("decision must mirror the review status, got %q", updated.Feedback.Decision)
	}
	stored, err := service.submissions.GetByID(context.Background(), submissionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Feedback == nil || stored.Feedback.Comments != "solid background" {
		t.Fatalf("feedback must be stored structurally: %+v", stored.Feedback)
	}
	if got := notifier.sentTo(recruiterID); len(got) != 1 {
		t.Fatalf("expected the recruiter to be notified once, got %d", len(got))
	}
}

func TestReviewTerminalState(t *testing.T) {
	service, _, submissionID, employerID, _ := reviewFixture(t, config.ResubmitPolicyManual)

	if _, err := service.Review(context.Background(), submissionID, employerID, submission.StatusRejected, submission.ReviewFeedback{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := service.Review(context.Background(), submissionID, employerID, submission.StatusApproved, submission.ReviewFeedback{})
	if !common.Is(err, common.CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestReviewCrossCompanyNeedsProvenance(t *testing.T) {
	service, directory, allocations, submissions, _ := submissionFixture(t, config.ResubmitPolicyManual)
	companyA := common.NewUUID()
	companyB := common.NewUUID()
	recruiter := directory.add(actor.Actor{Name: "Recruiter", Role: actor.RoleRecruiter, CompanyID: uuidPtr(companyA)})
	candidate := directory.add(actor.Actor{Name: "Candidate", Role: actor.RoleApplicant})
	outsideEmployer := directory.add(actor.Actor{Name: "Outside", Role: actor.RoleEmployer, CompanyID: uuidPtr(companyB)})

	created, err := service.Submit(context.Background(), recruiter.ID, SubmitCandidateInput{CandidateID: candidate.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = service.Review(context.Background(), created.ID, outsideEmployer.ID, submission.StatusApproved, submission.ReviewFeedback{})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden without provenance, got %v", err)
	}

	// Re-submit against the outside employer's allocation: the hand-off now
	// grants review access across the company boundary.
	alloc, err := allocations.Create(context.Background(), allocationOwnedBy(outsideEmployer.ID), []common.UUID{recruiter.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	submissions.allocationOwners[alloc.ID] = outsideEmployer.ID
	if _, err := service.Submit(context.Background(), recruiter.ID, SubmitCandidateInput{CandidateID: candidate.ID, AllocationID: uuidPtr(alloc.ID)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Review(context.Background(), created.ID, outsideEmployer.ID, submission.StatusApproved, submission.ReviewFeedback{}); err != nil {
		t.Fatalf("provenance fallback must grant review access: %v", err)
	}
}

func TestResubmitPolicyManualKeepsRejected(t *testing.T) {
	service, _, submissionID, employerID, recruiterID := reviewFixture(t, config.ResubmitPolicyManual)
	if _, err := service.Review(context.Background(), submissionID, employerID, submission.StatusRejected, submission.ReviewFeedback{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := service.submissions.GetByID(context.Background(), submissionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resubmitted, err := service.Submit(context.Background(), recruiterID, SubmitCandidateInput{CandidateID: stored.CandidateID, Notes: "please reconsider"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resubmitted.Status != submission.StatusRejected {
		t.Fatalf("manual policy must keep the rejected status, got %s", resubmitted.Status)
	}
	if resubmitted.Notes != "please reconsider" {
		t.Fatalf("notes must still update, got %q", resubmitted.Notes)
	}
}

func TestResubmitPolicyReopenResetsToPending(t *testing.T) {
	service, _, submissionID, employerID, recruiterID := reviewFixture(t, config.ResubmitPolicyReopen)
	if _, err := service.Review(context.Background(), submissionID, employerID, submission.StatusRejected, submission.ReviewFeedback{Comments: "not a fit"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := service.submissions.GetByID(context.Background(), submissionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resubmitted, err := service.Submit(context.Background(), recruiterID, SubmitCandidateInput{CandidateID: stored.CandidateID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resubmitted.Status != submission.StatusPending {
		t.Fatalf("reopen policy must reset to pending, got %s", resubmitted.Status)
	}
	if resubmitted.Feedback != nil {
		t.Fatalf("reopen must clear the previous feedback, got %+v", resubmitted.Feedback)
	}
}
