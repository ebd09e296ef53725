package app

import (
	"context"

	"talnurt/internal/common"
	"talnurt/internal/domain/actor"
)

// RoleTransition tags a role change by its endpoints. Transitions with side
// effects get their own branch; everything else is a plain role update.
type RoleTransition struct {
	From actor.Role
	To   actor.Role
}

type DirectoryService struct {
	directory actor.Repository
}

func NewDirectoryService(directory actor.Repository) *DirectoryService {
	return &DirectoryService{directory: directory}
}

func (s *DirectoryService) GetActor(ctx context.Context, id common.UUID) (*actor.Actor, error) {
	return s.directory.GetByID(ctx, id)
}

// ChangeRole applies a role transition. Downgrading a manager to employee
// cascades in a single transaction: every team member loses its team and
// direct-manager link, the team is removed, and the role changes, all or
// nothing. A transition into manager creates the manager's team.
func (s *DirectoryService) ChangeRole(ctx context.Context, actorID common.UUID, to actor.Role) (*actor.Actor, error) {
	if !actor.IsKnownRole(to) {
		return nil, common.NewValidationError("invalid role", map[string]string{"role": "unknown role"})
	}
	current, err := s.directory.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if current.Role == to {
		return current, nil
	}

	transition := RoleTransition{From: current.Role, To: to}
	switch {
	case transition == (RoleTransition{From: actor.RoleManager, To: actor.RoleEmployee}):
		err = s.directory.DowngradeManager(ctx, actorID)
	case transition.To == actor.RoleManager:
		err = s.promoteToManager(ctx, current)
	default:
		err = s.directory.UpdateRole(ctx, actorID, to)
	}
	if err != nil {
		return nil, err
	}
	return s.directory.GetByID(ctx, actorID)
}

// promoteToManager sets the role and provisions the team. Companyless actors
// get no team until they join a company; re-promotion reuses an existing one.
func (s *DirectoryService) promoteToManager(ctx context.Context, current *actor.Actor) error {
	if err := s.directory.UpdateRole(ctx, current.ID, actor.RoleManager); err != nil {
		return err
	}
	if current.CompanyID == nil {
		return nil
	}
	if _, err := s.directory.GetTeamByManager(ctx, current.ID); err == nil {
		return nil
	} else if !common.Is(err, common.CodeNotFound) {
		return err
	}
	_, err := s.directory.CreateTeam(ctx, actor.Team{
		Name:      current.Name + "'s team",
		CompanyID: *current.CompanyID,
		ManagerID: current.ID,
	})
	return err
}

// TeamRoster returns the manager's team and its members.
func (s *DirectoryService) TeamRoster(ctx context.Context, managerID common.UUID) (*actor.Team, []actor.Actor, error) {
	manager, err := s.directory.GetByID(ctx, managerID)
	if err != nil {
		return nil, nil, err
	}
	if manager.Role != actor.RoleManager {
		return nil, nil, common.NewError(common.CodeForbidden, "actor is not a manager", nil)
	}
	team, err := s.directory.GetTeamByManager(ctx, managerID)
	if err != nil {
		return nil, nil, err
	}
	members, err := s.directory.ListTeamMembers(ctx, team.ID)
	if err != nil {
		return nil, nil, err
	}
	return team, members, nil
}
