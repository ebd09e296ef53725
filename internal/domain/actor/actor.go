package actor

import (
	"time"

	"talnurt/internal/common"
)

type Role string

const (
	RoleApplicant  Role = "applicant"
	RoleUnassigned Role = "unassigned"
	RoleEmployee   Role = "employee"
	RoleRecruiter  Role = "recruiter"
	RoleManager    Role = "manager"
	RoleEmployer   Role = "employer"
	RoleAdmin      Role = "admin"
)

func IsKnownRole(role Role) bool {
	switch role {
	case RoleApplicant, RoleUnassigned, RoleEmployee, RoleRecruiter, RoleManager, RoleEmployer, RoleAdmin:
		return true
	default:
		return false
	}
}

// Actor is any authenticated user of the portal. CompanyID, DirectManagerID
// and TeamID are optional; an actor has at most one direct manager.
type Actor struct {
	ID              common.UUID  `json:"id"`
	Name            string       `json:"name"`
	Role            Role         `json:"role"`
	CompanyID       *common.UUID `json:"company_id,omitempty"`
	DirectManagerID *common.UUID `json:"direct_manager_id,omitempty"`
	TeamID          *common.UUID `json:"team_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type Team struct {
	ID        common.UUID `json:"id"`
	Name      string      `json:"name"`
	CompanyID common.UUID `json:"company_id"`
	ManagerID common.UUID `json:"manager_id"`
	CreatedAt time.Time   `json:"created_at"`
}
