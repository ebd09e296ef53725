package app

import (
	"context"
	"sync"
	"time"

	"talnurt/internal/common"
	"talnurt/internal/domain/actor"
	"talnurt/internal/domain/allocation"
	"talnurt/internal/domain/notification"
	"talnurt/internal/domain/report"
	"talnurt/internal/domain/submission"
)

type fakeDirectory struct {
	mu     sync.Mutex
	actors map[common.UUID]*actor.Actor
	teams  map[common.UUID]*actor.Team
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		actors: make(map[common.UUID]*actor.Actor),
		teams:  make(map[common.UUID]*actor.Team),
	}
}

func (d *fakeDirectory) add(a actor.Actor) *actor.Actor {
	d.mu.Lock()
	defer d.mu.Unlock()
	if a.ID == "" {
		a.ID = common.NewUUID()
	}
	stored := a
	d.actors[stored.ID] = &stored
	return &stored
}

func (d *fakeDirectory) addTeam(t actor.Team) *actor.Team {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t.ID == "" {
		t.ID = common.NewUUID()
	}
	stored := t
	d.teams[stored.ID] = &stored
	return &stored
}

func (d *fakeDirectory) GetByID(ctx context.Context, id common.UUID) (*actor.Actor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a := d.actors[id]
	if a == nil {
		return nil, common.NewError(common.CodeNotFound, "actor not found", nil)
	}
	clone := *a
	return &clone, nil
}

func (d *fakeDirectory) ListByCompanyAndRole(ctx context.Context, companyID common.UUID, roles ...actor.Role) ([]actor.Actor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var items []actor.Actor
	for _, a := range d.actors {
		if a.CompanyID == nil || *a.CompanyID != companyID {
			continue
		}
		for _, role := range roles {
			if a.Role == role {
				items = append(items, *a)
				break
			}
		}
	}
	return items, nil
}

func (d *fakeDirectory) ListByRole(ctx context.Context, role actor.Role) ([]actor.Actor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var items []actor.Actor
	for _, a := range d.actors {
		if a.Role == role {
			items = append(items, *a)
		}
	}
	return items, nil
}

func (d *fakeDirectory) ListTeamMembers(ctx context.Context, teamID common.UUID) ([]actor.Actor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var items []actor.Actor
	for _, a := range d.actors {
		if a.TeamID != nil && *a.TeamID == teamID {
			items = append(items, *a)
		}
	}
	return items, nil
}

func (d *fakeDirectory) GetTeamByManager(ctx context.Context, managerID common.UUID) (*actor.Team, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range d.teams {
		if t.ManagerID == managerID {
			clone := *t
			return &clone, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "team not found", nil)
}

func (d *fakeDirectory) CreateTeam(ctx context.Context, team actor.Team) (*actor.Team, error) {
	return d.addTeam(team), nil
}

func (d *fakeDirectory) UpdateRole(ctx context.Context, id common.UUID, role actor.Role) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	a := d.actors[id]
	if a == nil {
		return common.NewError(common.CodeNotFound, "actor not found", nil)
	}
	a.Role = role
	return nil
}

func (d *fakeDirectory) DowngradeManager(ctx context.Context, managerID common.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	manager := d.actors[managerID]
	if manager == nil {
		return common.NewError(common.CodeNotFound, "actor not found", nil)
	}
	for id, t := range d.teams {
		if t.ManagerID != managerID {
			continue
		}
		for _, a := range d.actors {
			if a.TeamID != nil && *a.TeamID == id {
				a.TeamID = nil
				a.DirectManagerID = nil
			}
		}
		delete(d.teams, id)
	}
	for _, a := range d.actors {
		if a.DirectManagerID != nil && *a.DirectManagerID == managerID {
			a.DirectManagerID = nil
		}
	}
	manager.Role = actor.RoleEmployee
	manager.TeamID = nil
	return nil
}

type fakeReportRepo struct {
	mu        sync.Mutex
	directory *fakeDirectory
	reports   map[common.UUID]*report.Report
}

func newFakeReportRepo(directory *fakeDirectory) *fakeReportRepo {
	return &fakeReportRepo{directory: directory, reports: make(map[common.UUID]*report.Report)}
}

func (r *fakeReportRepo) Create(ctx context.Context, rep report.Report) (*report.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep.ID = common.NewUUID()
	rep.CreatedAt = time.Now().UTC()
	stored := rep
	r.reports[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeReportRepo) GetByID(ctx context.Context, id common.UUID) (*report.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep := r.reports[id]
	if rep == nil {
		return nil, common.NewError(common.CodeNotFound, "report not found", nil)
	}
	clone := *rep
	return &clone, nil
}

func (r *fakeReportRepo) ListByRecipient(ctx context.Context, recipientID common.UUID) ([]report.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []report.Report
	for _, rep := range r.reports {
		if rep.RecipientID == recipientID {
			items = append(items, *rep)
		}
	}
	return items, nil
}

func (r *fakeReportRepo) ListByAuthor(ctx context.Context, authorID common.UUID) ([]report.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []report.Report
	for _, rep := range r.reports {
		if rep.AuthorID == authorID {
			items = append(items, *rep)
		}
	}
	return items, nil
}

func (r *fakeReportRepo) ListAuthoredToRoles(ctx context.Context, authorID common.UUID, roles ...actor.Role) ([]report.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []report.Report
	for _, rep := range r.reports {
		if rep.AuthorID != authorID {
			continue
		}
		recipient := r.directory.actors[rep.RecipientID]
		if recipient == nil {
			continue
		}
		for _, role := range roles {
			if recipient.Role == role {
				items = append(items, *rep)
				break
			}
		}
	}
	return items, nil
}

func (r *fakeReportRepo) ListFromDirectReports(ctx context.Context, managerID common.UUID) ([]report.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []report.Report
	for _, rep := range r.reports {
		if rep.RecipientID != managerID {
			continue
		}
		author := r.directory.actors[rep.AuthorID]
		if author == nil || author.DirectManagerID == nil || *author.DirectManagerID != managerID {
			continue
		}
		items = append(items, *rep)
	}
	return items, nil
}

func (r *fakeReportRepo) MarkRead(ctx context.Context, id common.UUID) (*report.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep := r.reports[id]
	if rep == nil {
		return nil, common.NewError(common.CodeNotFound, "report not found", nil)
	}
	rep.Status = report.StatusRead
	clone := *rep
	return &clone, nil
}

type fakeAllocationRepo struct {
	mu          sync.Mutex
	allocations map[common.UUID]*allocation.ProfileAllocation
	assignments map[common.UUID][]*allocation.Assignment
}

func newFakeAllocationRepo() *fakeAllocationRepo {
	return &fakeAllocationRepo{
		allocations: make(map[common.UUID]*allocation.ProfileAllocation),
		assignments: make(map[common.UUID][]*allocation.Assignment),
	}
}

func (r *fakeAllocationRepo) Create(ctx context.Context, alloc allocation.ProfileAllocation, employeeIDs []common.UUID) (*allocation.ProfileAllocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	alloc.ID = common.NewUUID()
	alloc.CreatedAt = time.Now().UTC()
	for _, employeeID := range employeeIDs {
		assignment := &allocation.Assignment{
			ID:           common.NewUUID(),
			AllocationID: alloc.ID,
			EmployeeID:   employeeID,
			Status:       allocation.StatusPending,
			NotifiedAt:   alloc.CreatedAt,
		}
		r.assignments[alloc.ID] = append(r.assignments[alloc.ID], assignment)
		alloc.Assignments = append(alloc.Assignments, *assignment)
	}
	stored := alloc
	r.allocations[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeAllocationRepo) GetByID(ctx context.Context, id common.UUID) (*allocation.ProfileAllocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	alloc := r.allocations[id]
	if alloc == nil {
		return nil, common.NewError(common.CodeNotFound, "allocation not found", nil)
	}
	clone := *alloc
	clone.Assignments = nil
	for _, assignment := range r.assignments[id] {
		clone.Assignments = append(clone.Assignments, *assignment)
	}
	return &clone, nil
}

func (r *fakeAllocationRepo) ListByEmployer(ctx context.Context, employerID common.UUID) ([]allocation.ProfileAllocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []allocation.ProfileAllocation
	for _, alloc := range r.allocations {
		if alloc.CreatedByID == employerID {
			items = append(items, *alloc)
		}
	}
	return items, nil
}

func (r *fakeAllocationRepo) GetAssignment(ctx context.Context, allocationID, employeeID common.UUID) (*allocation.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, assignment := range r.assignments[allocationID] {
		if assignment.EmployeeID == employeeID {
			clone := *assignment
			return &clone, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "assignment not found", nil)
}

func (r *fakeAllocationRepo) ListAssignmentsForEmployee(ctx context.Context, employeeID common.UUID) ([]allocation.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []allocation.Assignment
	for _, list := range r.assignments {
		for _, assignment := range list {
			if assignment.EmployeeID == employeeID {
				items = append(items, *assignment)
			}
		}
	}
	return items, nil
}

func (r *fakeAllocationRepo) RespondAssignment(ctx context.Context, allocationID, employeeID common.UUID, status allocation.AssignmentStatus, response string, responseAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, assignment := range r.assignments[allocationID] {
		if assignment.EmployeeID != employeeID {
			continue
		}
		if assignment.Status != allocation.StatusPending {
			return false, nil
		}
		assignment.Status = status
		assignment.Response = response
		at := responseAt
		assignment.ResponseAt = &at
		return true, nil
	}
	return false, nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[common.UUID]*submission.CandidateSubmission
	// allocation id -> owning employer, seeded by tests for the provenance
	// fallback check.
	allocationOwners map[common.UUID]common.UUID
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		submissions:      make(map[common.UUID]*submission.CandidateSubmission),
		allocationOwners: make(map[common.UUID]common.UUID),
	}
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, s submission.CandidateSubmission) (*submission.CandidateSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = common.NewUUID()
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	stored := s
	r.submissions[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeSubmissionRepo) Update(ctx context.Context, s submission.CandidateSubmission) (*submission.CandidateSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.submissions[s.ID] == nil {
		return nil, common.NewError(common.CodeNotFound, "submission not found", nil)
	}
	s.UpdatedAt = time.Now().UTC()
	stored := s
	r.submissions[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeSubmissionRepo) GetByID(ctx context.Context, id common.UUID) (*submission.CandidateSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.submissions[id]
	if s == nil {
		return nil, common.NewError(common.CodeNotFound, "submission not found", nil)
	}
	clone := *s
	return &clone, nil
}

func (r *fakeSubmissionRepo) FindByRecruiterAndCandidate(ctx context.Context, recruiterID, candidateID common.UUID) (*submission.CandidateSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.submissions {
		if s.RecruiterID == recruiterID && s.CandidateID == candidateID {
			clone := *s
			return &clone, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "submission not found", nil)
}

func (r *fakeSubmissionRepo) ListByRecruiter(ctx context.Context, recruiterID common.UUID) ([]submission.CandidateSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []submission.CandidateSubmission
	for _, s := range r.submissions {
		if s.RecruiterID == recruiterID {
			items = append(items, *s)
		}
	}
	return items, nil
}

func (r *fakeSubmissionRepo) Review(ctx context.Context, id common.UUID, status submission.Status, feedback *submission.ReviewFeedback, reviewedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.submissions[id]
	if s == nil || s.Status != submission.StatusPending {
		return false, nil
	}
	s.Status = status
	s.Feedback = feedback
	s.UpdatedAt = reviewedAt
	return true, nil
}

func (r *fakeSubmissionRepo) ExistsLinkingEmployeeToEmployer(ctx context.Context, employeeID, employerID common.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.submissions {
		if s.RecruiterID != employeeID || s.AllocationID == nil {
			continue
		}
		if owner, ok := r.allocationOwners[*s.AllocationID]; ok && owner == employerID {
			return true, nil
		}
	}
	return false, nil
}

type recordedNotification struct {
	notification.Notification
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []recordedNotification
	broken bool
}

func (n *fakeNotifier) Emit(ctx context.Context, notif notification.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.broken {
		return context.DeadlineExceeded
	}
	n.sent = append(n.sent, recordedNotification{notif})
	return nil
}

func (n *fakeNotifier) sentTo(target common.UUID) []recordedNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var items []recordedNotification
	for _, s := range n.sent {
		if s.TargetActorID == target {
			items = append(items, s)
		}
	}
	return items
}

func uuidPtr(id common.UUID) *common.UUID {
	return &id
}

func allocationOwnedBy(employerID common.UUID) allocation.ProfileAllocation {
	return allocation.ProfileAllocation{
		CreatedByID: employerID,
		JobTitle:    "Backend Engineer",
		Skills:      []string{"go"},
	}
}

func submissionFor(recruiterID, allocationID common.UUID) submission.CandidateSubmission {
	return submission.CandidateSubmission{
		RecruiterID:  recruiterID,
		CandidateID:  common.NewUUID(),
		AllocationID: &allocationID,
		Status:       submission.StatusPending,
	}
}
