package submission

import (
	"time"

	"talnurt/internal/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func IsReviewStatus(status Status) bool {
	return status == StatusApproved || status == StatusRejected
}

// FeedbackVersion is bumped whenever the ReviewFeedback shape changes, so
// stored documents stay readable without defensive re-parsing.
const FeedbackVersion = 1

// ReviewFeedback is the structured review document attached by the reviewing
// employer. It is persisted as jsonb, never as an opaque string.
type ReviewFeedback struct {
	Version   int      `json:"version"`
	Decision  string   `json:"decision,omitempty"`
	Comments  string   `json:"comments,omitempty"`
	Strengths []string `json:"strengths,omitempty"`
	Concerns  []string `json:"concerns,omitempty"`
	Rating    int      `json:"rating,omitempty"`
}

// CandidateSubmission links a candidate proposed by a staff member to an
// employer review. (RecruiterID, CandidateID) is the natural key.
type CandidateSubmission struct {
	ID           common.UUID     `json:"id"`
	RecruiterID  common.UUID     `json:"recruiter_id"`
	CandidateID  common.UUID     `json:"candidate_id"`
	AllocationID *common.UUID    `json:"allocation_id,omitempty"`
	Status       Status          `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Feedback     *ReviewFeedback `json:"feedback,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
