package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"talnurt/internal/common"
	"talnurt/internal/domain/actor"
	"talnurt/internal/domain/report"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, author_id, recipient_id, title, content, status, created_at`

func (r *ReportRepository) Create(ctx context.Context, rep report.Report) (*report.Report, error) {
	rep.ID = common.NewUUID()
	rep.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO reports (id, author_id, recipient_id, title, content, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rep.ID, rep.AuthorID, rep.RecipientID, rep.Title, rep.Content, rep.Status, rep.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create report", err)
	}
	return &rep, nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id common.UUID) (*report.Report, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	var rep report.Report
	if err := row.Scan(&rep.ID, &rep.AuthorID, &rep.RecipientID, &rep.Title, &rep.Content, &rep.Status, &rep.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "report not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load report", err)
	}
	return &rep, nil
}

func (r *ReportRepository) ListByRecipient(ctx context.Context, recipientID common.UUID) ([]report.Report, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE recipient_id = $1 ORDER BY created_at DESC`, recipientID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list inbox", err)
	}
	defer rows.Close()
	return collectReports(rows)
}

func (r *ReportRepository) ListByAuthor(ctx context.Context, authorID common.UUID) ([]report.Report, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE author_id = $1 ORDER BY created_at DESC`, authorID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list sent reports", err)
	}
	defer rows.Close()
	return collectReports(rows)
}

func (r *ReportRepository) ListAuthoredToRoles(ctx context.Context, authorID common.UUID, roles ...actor.Role) ([]report.Report, error) {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	rows, err := r.db.QueryContext(ctx, `SELECT r.id, r.author_id, r.recipient_id, r.title, r.content, r.status, r.created_at
		FROM reports r
		JOIN actors a ON a.id = r.recipient_id
		WHERE r.author_id = $1 AND a.role = ANY($2)
		ORDER BY r.created_at DESC`, authorID, pq.Array(names))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list sent reports", err)
	}
	defer rows.Close()
	return collectReports(rows)
}

func (r *ReportRepository) ListFromDirectReports(ctx context.Context, managerID common.UUID) ([]report.Report, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT r.id, r.author_id, r.recipient_id, r.title, r.content, r.status, r.created_at
		FROM reports r
		JOIN actors a ON a.id = r.author_id
		WHERE r.recipient_id = $1 AND a.direct_manager_id = $1
		ORDER BY r.created_at DESC`, managerID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list team reports", err)
	}
	defer rows.Close()
	return collectReports(rows)
}

func (r *ReportRepository) MarkRead(ctx context.Context, id common.UUID) (*report.Report, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE reports SET status = $1 WHERE id = $2`, report.StatusRead, id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to mark report read", err)
	}
	return r.GetByID(ctx, id)
}

func collectReports(rows *sql.Rows) ([]report.Report, error) {
	var items []report.Report
	for rows.Next() {
		var rep report.Report
		if err := rows.Scan(&rep.ID, &rep.AuthorID, &rep.RecipientID, &rep.Title, &rep.Content, &rep.Status, &rep.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan report", err)
		}
		items = append(items, rep)
	}
	return items, nil
}
