package actor

import (
	"context"

	"talnurt/internal/common"
)

// Repository is the membership directory. It is the single source of truth
// for roles, company membership, and the direct-manager/team links.
type Repository interface {
	GetByID(ctx context.Context, id common.UUID) (*Actor, error)
	ListByCompanyAndRole(ctx context.Context, companyID common.UUID, roles ...Role) ([]Actor, error)
	ListByRole(ctx context.Context, role Role) ([]Actor, error)
	ListTeamMembers(ctx context.Context, teamID common.UUID) ([]Actor, error)
	GetTeamByManager(ctx context.Context, managerID common.UUID) (*Team, error)
	CreateTeam(ctx context.Context, team Team) (*Team, error)
	UpdateRole(ctx context.Context, id common.UUID, role Role) error
	// DowngradeManager clears team and direct-manager links on every team
	// member, removes the team, and sets the manager's role to employee, all
	// in one transaction.
	DowngradeManager(ctx context.Context, managerID common.UUID) error
}
