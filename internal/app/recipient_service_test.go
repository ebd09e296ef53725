package app

import (
	"context"
	"testing"

	"talnurt/internal/common"
	"talnurt/internal/domain/actor"
)

func TestListRecipientsEmployee(t *testing.T) {
	directory := newFakeDirectory()
	companyID := common.NewUUID()
	bob := directory.add(actor.Actor{Name: "Bob", Role: actor.RoleManager, CompanyID: uuidPtr(companyID)})
	// Another manager in the same company must never appear for Alice.
	directory.add(actor.Actor{Name: "Eve", Role: actor.RoleManager, CompanyID: uuidPtr(companyID)})
	employer := directory.add(actor.Actor{Name: "Acme HR (Employer)", Role: actor.RoleEmployer, CompanyID: uuidPtr(companyID)})
	alice := directory.add(actor.Actor{Name: "Alice", Role: actor.RoleEmployee, CompanyID: uuidPtr(companyID), DirectManagerID: uuidPtr(bob.ID)})

	service := NewRecipientService(directory)
	recipients, err := service.ListRecipients(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipients) != 2 {
		t.Fatalf("expected 2 recipients, got %d", len(recipients))
	}
	// Ascending by sanitized name: "Acme HR" before "Bob".
	if recipients[0].ID != employer.ID || recipients[1].ID != bob.ID {
		t.Fatalf("unexpected recipient order: %+v", recipients)
	}
	if recipients[0].Name != "Acme HR" {
		t.Fatalf("expected suffix stripped, got %q", recipients[0].Name)
	}
}

func TestListRecipientsRoleTable(t *testing.T) {
	directory := newFakeDirectory()
	companyID := common.NewUUID()
	admin := directory.add(actor.Actor{Name: "Root", Role: actor.RoleAdmin})
	employer := directory.add(actor.Actor{Name: "Employer", Role: actor.RoleEmployer, CompanyID: uuidPtr(companyID)})
	manager := directory.add(actor.Actor{Name: "Manager", Role: actor.RoleManager, CompanyID: uuidPtr(companyID)})
	recruiter := directory.add(actor.Actor{Name: "Recruiter", Role: actor.RoleRecruiter, CompanyID: uuidPtr(companyID)})
	applicant := directory.add(actor.Actor{Name: "Applicant", Role: actor.RoleApplicant, CompanyID: uuidPtr(companyID)})

	service := NewRecipientService(directory)

	cases := []struct {
		name    string
		actorID common.UUID
		want    map[common.UUID]bool
	}{
		{"manager gets employers and admins", manager.ID, map[common.UUID]bool{employer.ID: true, admin.ID: true}},
		{"recruiter gets managers and admins", recruiter.ID, map[common.UUID]bool{manager.ID: true, admin.ID: true}},
		{"employer gets admins", employer.ID, map[common.UUID]bool{admin.ID: true}},
		{"applicant gets nothing", applicant.ID, map[common.UUID]bool{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recipients, err := service.ListRecipients(context.Background(), tc.actorID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(recipients) != len(tc.want) {
				t.Fatalf("expected %d recipients, got %d: %+v", len(tc.want), len(recipients), recipients)
			}
			for _, recipient := range recipients {
				if !tc.want[recipient.ID] {
					t.Fatalf("unexpected recipient %q", recipient.Name)
				}
			}
		})
	}
}

func TestListRecipientsNoCompanyFallsBackToAdmins(t *testing.T) {
	directory := newFakeDirectory()
	admin := directory.add(actor.Actor{Name: "Root", Role: actor.RoleAdmin})
	lonely := directory.add(actor.Actor{Name: "Lonely", Role: actor.RoleManager})

	service := NewRecipientService(directory)
	recipients, err := service.ListRecipients(context.Background(), lonely.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipients) != 1 || recipients[0].ID != admin.ID {
		t.Fatalf("expected only the global admin, got %+v", recipients)
	}
}

func TestListRecipientsUnknownActor(t *testing.T) {
	service := NewRecipientService(newFakeDirectory())
	_, err := service.ListRecipients(context.Background(), common.NewUUID())
	if !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Jane Doe (Admin)":  "Jane Doe",
		"Jane Doe":          "Jane Doe",
		"Jane (HR) Doe":     "Jane (HR) Doe",
		"Trailing (x) (y)":  "Trailing (x)",
		"  Padded (Admin) ": "Padded",
	}
	for input, want := range cases {
		if got := sanitizeName(input); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", input, got, want)
		}
	}
}
