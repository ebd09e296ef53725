package allocation

import (
	"time"

	"talnurt/internal/common"
)

type AssignmentStatus string

const (
	StatusPending            AssignmentStatus = "pending"
	StatusAccepted           AssignmentStatus = "accepted"
	StatusDeclined           AssignmentStatus = "declined"
	StatusNeedsClarification AssignmentStatus = "needs_clarification"
)

func IsResponseStatus(status AssignmentStatus) bool {
	switch status {
	case StatusAccepted, StatusDeclined, StatusNeedsClarification:
		return true
	default:
		return false
	}
}

// ProfileAllocation is an employer's request that specific staff source
// candidates against the stated criteria.
type ProfileAllocation struct {
	ID          common.UUID `json:"id"`
	CreatedByID common.UUID `json:"created_by_id"`
	JobTitle    string      `json:"job_title"`
	Description string      `json:"description"`
	Skills      []string    `json:"skills"`
	Locations   []string    `json:"locations"`
	Experience  string      `json:"experience"`
	CreatedAt   time.Time   `json:"created_at"`

	Assignments []Assignment `json:"assignments,omitempty"`
}

// Assignment is one staff member's slot on an allocation. Status leaves
// pending exactly once; the first response wins.
type Assignment struct {
	ID           common.UUID      `json:"id"`
	AllocationID common.UUID      `json:"allocation_id"`
	EmployeeID   common.UUID      `json:"employee_id"`
	Status       AssignmentStatus `json:"status"`
	Response     string           `json:"response,omitempty"`
	NotifiedAt   time.Time        `json:"notified_at"`
	ResponseAt   *time.Time       `json:"response_at,omitempty"`
}
