package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"talnurt/internal/common"
	"talnurt/internal/domain/actor"
)

type ActorRepository struct {
	db *sql.DB
}

func NewActorRepository(db *sql.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

const actorColumns = `id, name, role, company_id, direct_manager_id, team_id, created_at, updated_at`

func scanActor(row interface{ Scan(...any) error }) (*actor.Actor, error) {
	var a actor.Actor
	var companyID, managerID, teamID sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &a.Role, &companyID, &managerID, &teamID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.CompanyID = optionalUUID(companyID)
	a.DirectManagerID = optionalUUID(managerID)
	a.TeamID = optionalUUID(teamID)
	return &a, nil
}

func optionalUUID(value sql.NullString) *common.UUID {
	if !value.Valid {
		return nil
	}
	id := common.UUID(value.String)
	return &id
}

func (r *ActorRepository) GetByID(ctx context.Context, id common.UUID) (*actor.Actor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+actorColumns+` FROM actors WHERE id = $1`, id)
	a, err := scanActor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "actor not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load actor", err)
	}
	return a, nil
}

func (r *ActorRepository) ListByCompanyAndRole(ctx context.Context, companyID common.UUID, roles ...actor.Role) ([]actor.Actor, error) {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+actorColumns+` FROM actors WHERE company_id = $1 AND role = ANY($2) ORDER BY name`, companyID, pq.Array(names))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list actors", err)
	}
	defer rows.Close()
	return collectActors(rows)
}

func (r *ActorRepository) ListByRole(ctx context.Context, role actor.Role) ([]actor.Actor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+actorColumns+` FROM actors WHERE role = $1 ORDER BY name`, role)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list actors", err)
	}
	defer rows.Close()
	return collectActors(rows)
}

func (r *ActorRepository) ListTeamMembers(ctx context.Context, teamID common.UUID) ([]actor.Actor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+actorColumns+` FROM actors WHERE team_id = $1 ORDER BY name`, teamID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list team members", err)
	}
	defer rows.Close()
	return collectActors(rows)
}

func collectActors(rows *sql.Rows) ([]actor.Actor, error) {
	var items []actor.Actor
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan actor", err)
		}
		items = append(items, *a)
	}
	return items, nil
}

func (r *ActorRepository) GetTeamByManager(ctx context.Context, managerID common.UUID) (*actor.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, company_id, manager_id, created_at FROM teams WHERE manager_id = $1`, managerID)
	var t actor.Team
	if err := row.Scan(&t.ID, &t.Name, &t.CompanyID, &t.ManagerID, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "team not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load team", err)
	}
	return &t, nil
}

func (r *ActorRepository) CreateTeam(ctx context.Context, team actor.Team) (*actor.Team, error) {
	team.ID = common.NewUUID()
	team.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO teams (id, name, company_id, manager_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		team.ID, team.Name, team.CompanyID, team.ManagerID, team.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create team", err)
	}
	return &team, nil
}

func (r *ActorRepository) UpdateRole(ctx context.Context, id common.UUID, role actor.Role) error {
	result, err := r.db.ExecContext(ctx, `UPDATE actors SET role = $1, updated_at = $2 WHERE id = $3`, role, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update role", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "actor not found", sql.ErrNoRows)
	}
	return nil
}

// DowngradeManager runs the manager -> employee cascade in one transaction:
// detach every member of the manager's team, delete the team, change the
// role. Partial application would corrupt the directory, so any failure
// rolls the whole thing back.
func (r *ActorRepository) DowngradeManager(ctx context.Context, managerID common.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to begin downgrade", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	var teamID sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT id FROM teams WHERE manager_id = $1`, managerID).Scan(&teamID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return common.NewError(common.CodeInternal, "failed to load team", err)
	}
	if teamID.Valid {
		if _, err := tx.ExecContext(ctx, `UPDATE actors SET team_id = NULL, direct_manager_id = NULL, updated_at = $1 WHERE team_id = $2`, now, teamID.String); err != nil {
			return common.NewError(common.CodeInternal, "failed to detach team members", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, teamID.String); err != nil {
			return common.NewError(common.CodeInternal, "failed to delete team", err)
		}
	}
	// Members linked by direct manager but never assigned a team.
	if _, err := tx.ExecContext(ctx, `UPDATE actors SET direct_manager_id = NULL, updated_at = $1 WHERE direct_manager_id = $2`, now, managerID); err != nil {
		return common.NewError(common.CodeInternal, "failed to detach direct reports", err)
	}
	result, err := tx.ExecContext(ctx, `UPDATE actors SET role = $1, team_id = NULL, updated_at = $2 WHERE id = $3`, actor.RoleEmployee, now, managerID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update role", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "actor not found", sql.ErrNoRows)
	}
	if err := tx.Commit(); err != nil {
		return common.NewError(common.CodeInternal, "failed to commit downgrade", err)
	}
	return nil
}
