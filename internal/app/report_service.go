package app

import (
	"context"
	"sort"
	"strings"

	"talnurt/internal/common"
	"talnurt/internal/domain/actor"
	"talnurt/internal/domain/report"
)

type ReportService struct {
	reports    report.Repository
	directory  actor.Repository
	recipients *RecipientService
}

func NewReportService(reports report.Repository, directory actor.Repository, recipients *RecipientService) *ReportService {
	return &ReportService{reports: reports, directory: directory, recipients: recipients}
}

func (s *ReportService) Create(ctx context.Context, authorID, recipientID common.UUID, title, content string) (*report.Report, error) {
	if strings.TrimSpace(title) == "" {
		return nil, common.NewValidationError("invalid report", map[string]string{"title": "title is required"})
	}
	if strings.TrimSpace(content) == "" {
		return nil, common.NewValidationError("invalid report", map[string]string{"content": "content is required"})
	}
	allowed, err := s.recipients.ListRecipients(ctx, authorID)
	if err != nil {
		return nil, err
	}
	permitted := false
	for _, recipient := range allowed {
		if recipient.ID == recipientID {
			permitted = true
			break
		}
	}
	if !permitted {
		// Distinguish an unknown recipient from a known but unreachable one.
		if _, err := s.directory.GetByID(ctx, recipientID); err != nil {
			return nil, err
		}
		return nil, common.NewError(common.CodeForbidden, "recipient is not allowed", nil)
	}
	return s.reports.Create(ctx, report.Report{
		AuthorID:    authorID,
		RecipientID: recipientID,
		Title:       strings.TrimSpace(title),
		Content:     content,
		Status:      report.StatusUnread,
	})
}

// ListInbox returns everything addressed to the actor. A recipient always
// sees their inbox in full, regardless of role.
func (s *ReportService) ListInbox(ctx context.Context, actorID common.UUID) ([]report.Report, error) {
	return s.reports.ListByRecipient(ctx, actorID)
}

// ListSent is the read-time visibility view. For a manager it is narrower
// than what creation permits: only reports they authored to employers or
// admins, plus reports their direct reports sent to them. This asymmetry
// with the write-time check is intentional.
func (s *ReportService) ListSent(ctx context.Context, actorID common.UUID) ([]report.Report, error) {
	sender, err := s.directory.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if sender.Role != actor.RoleManager {
		return s.reports.ListByAuthor(ctx, actorID)
	}
	authored, err := s.reports.ListAuthoredToRoles(ctx, actorID, actor.RoleEmployer, actor.RoleAdmin)
	if err != nil {
		return nil, err
	}
	received, err := s.reports.ListFromDirectReports(ctx, actorID)
	if err != nil {
		return nil, err
	}
	merged := append(authored, received...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged, nil
}

// MarkRead transitions unread -> read. Only the recipient may do it, and
// repeating it on an already read report is a no-op success.
func (s *ReportService) MarkRead(ctx context.Context, reportID, actorID common.UUID) (*report.Report, error) {
	current, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if current.RecipientID != actorID {
		return nil, common.NewError(common.CodeForbidden, "report belongs to another recipient", nil)
	}
	if current.Status == report.StatusRead {
		return current, nil
	}
	return s.reports.MarkRead(ctx, reportID)
}
