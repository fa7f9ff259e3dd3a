package domain

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestBeforeSaveAssignsDefaults(t *testing.T) {
	t.Parallel()

	record := &SubmissionRecord{
		Flow:  FlowEmployer,
		Email: "  jane@acme.nl  ",
	}
	record.BeforeSave()

	if record.ID == uuid.Nil {
		t.Fatalf("expected a generated id")
	}
	if record.Status != StatusPending {
		t.Fatalf("expected pending default, got %s", record.Status)
	}
	if record.Email != "jane@acme.nl" {
		t.Fatalf("stored email must be trimmed, got %q", record.Email)
	}
	if record.CreatedAt.IsZero() || record.UpdatedAt.IsZero() {
		t.Fatalf("timestamps must be stamped")
	}
}

func TestAllowedTransitions(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		StatusPending:   {StatusReviewed},
		StatusReviewed:  {StatusContacted},
		StatusContacted: {StatusReviewed},
		"bogus":         nil,
	}
	for status, want := range cases {
		if got := AllowedTransitions(status); !reflect.DeepEqual(got, want) {
			t.Fatalf("AllowedTransitions(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestValidateEmployerRequiredSet(t *testing.T) {
	t.Parallel()

	record := &SubmissionRecord{Flow: FlowEmployer}
	record.BeforeSave()

	err := record.Validate()
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	for _, field := range []string{
		"company_name", "contact_person", "email", "phone",
		"industry", "job_requirements", "workers_needed", "location",
	} {
		if !errs.HasField(field) {
			t.Fatalf("expected an error for %s, got %v", field, errs)
		}
	}
}

func TestEmailPattern(t *testing.T) {
	t.Parallel()

	valid := []string{"jane@acme.nl", "a@b.co", "first.last+tag@sub.domain.org"}
	invalid := []string{"not-an-email", "a b@c.nl", "missing@dot", "@acme.nl", "jane@"}

	for _, email := range valid {
		if !EmailPattern.MatchString(email) {
			t.Fatalf("%q should be accepted", email)
		}
	}
	for _, email := range invalid {
		if EmailPattern.MatchString(email) {
			t.Fatalf("%q should be rejected", email)
		}
	}
}
