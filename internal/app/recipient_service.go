package app

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"talnurt/internal/common"
	"talnurt/internal/domain/actor"
	"talnurt/internal/domain/report"
)

// RecipientService computes the set of actors an actor may address a report
// to. This is the write-time permission check; the sent-view visibility
// filter in ReportService is a separate predicate on purpose.
type RecipientService struct {
	directory actor.Repository
}

func NewRecipientService(directory actor.Repository) *RecipientService {
	return &RecipientService{directory: directory}
}

// legacy display names carry annotation suffixes like "Jane Doe (Admin)".
var nameSuffixPattern = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

func sanitizeName(name string) string {
	return strings.TrimSpace(nameSuffixPattern.ReplaceAllString(name, ""))
}

func (s *RecipientService) ListRecipients(ctx context.Context, actorID common.UUID) ([]report.Recipient, error) {
	sender, err := s.directory.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.resolve(ctx, sender)
	if err != nil {
		return nil, err
	}

	seen := make(map[common.UUID]bool, len(candidates))
	recipients := make([]report.Recipient, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == sender.ID || seen[candidate.ID] {
			continue
		}
		seen[candidate.ID] = true
		recipients = append(recipients, report.Recipient{
			ID:   candidate.ID,
			Name: sanitizeName(candidate.Name),
			Role: string(candidate.Role),
		})
	}
	sort.Slice(recipients, func(i, j int) bool {
		return recipients[i].Name < recipients[j].Name
	})
	return recipients, nil
}

func (s *RecipientService) resolve(ctx context.Context, sender *actor.Actor) ([]actor.Actor, error) {
	// An actor outside any company can only reach the global admins,
	// whatever their role.
	if sender.CompanyID == nil {
		return s.directory.ListByRole(ctx, actor.RoleAdmin)
	}
	companyID := *sender.CompanyID

	switch sender.Role {
	case actor.RoleEmployee:
		// The employee's own direct manager, not the company manager pool.
		var candidates []actor.Actor
		if sender.DirectManagerID != nil {
			manager, err := s.directory.GetByID(ctx, *sender.DirectManagerID)
			if err != nil && !common.Is(err, common.CodeNotFound) {
				return nil, err
			}
			if err == nil {
				candidates = append(candidates, *manager)
			}
		}
		employers, err := s.directory.ListByCompanyAndRole(ctx, companyID, actor.RoleEmployer)
		if err != nil {
			return nil, err
		}
		return append(candidates, employers...), nil
	case actor.RoleManager:
		employers, err := s.directory.ListByCompanyAndRole(ctx, companyID, actor.RoleEmployer)
		if err != nil {
			return nil, err
		}
		admins, err := s.directory.ListByRole(ctx, actor.RoleAdmin)
		if err != nil {
			return nil, err
		}
		return append(employers, admins...), nil
	case actor.RoleRecruiter:
		managers, err := s.directory.ListByCompanyAndRole(ctx, companyID, actor.RoleManager)
		if err != nil {
			return nil, err
		}
		admins, err := s.directory.ListByRole(ctx, actor.RoleAdmin)
		if err != nil {
			return nil, err
		}
		return append(managers, admins...), nil
	case actor.RoleEmployer, actor.RoleAdmin:
		return s.directory.ListByRole(ctx, actor.RoleAdmin)
	default:
		return nil, nil
	}
}
