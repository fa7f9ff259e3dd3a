package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
	"github.com/glodinasflexwork/flexwork-api/internal/domain/dto"
	"github.com/glodinasflexwork/flexwork-api/internal/repository"
)

func employerRequest() *dto.SubmissionCreateRequest {
	return &dto.SubmissionCreateRequest{
		Flow:            domain.FlowEmployer,
		CompanyName:     "Acme BV",
		ContactPerson:   "Jane Doe",
		Email:           "jane@acme.nl",
		Phone:           "+31600000000",
		Industry:        "Manufacturing",
		JobRequirements: "Forklift operators",
		WorkersNeeded:   3,
		Location:        "Utrecht",
	}
}

func newService() SubmissionService {
	return NewSubmissionService(repository.NewMemorySubmissionRepository(), repository.NewMemoryIdempotencyStore())
}

func TestCreateAssignsPendingStatusAndID(t *testing.T) {
	t.Parallel()

	svc := newService()
	record, err := svc.Create(context.Background(), employerRequest(), "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if record.ID == uuid.Nil {
		t.Fatalf("expected a server-generated id")
	}
	if record.Status != domain.StatusPending {
		t.Fatalf("new submissions must start pending, got %s", record.Status)
	}
	if record.CreatedAt.IsZero() || record.UpdatedAt.IsZero() {
		t.Fatalf("timestamps must be server-generated")
	}
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	t.Parallel()

	svc := newService()
	req := employerRequest()
	req.CompanyName = ""
	req.Industry = "  " // whitespace counts as missing

	_, err := svc.Create(context.Background(), req, "")
	var validationErrs domain.ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if !validationErrs.HasField("company_name") || !validationErrs.HasField("industry") {
		t.Fatalf("expected errors for both missing fields, got %v", validationErrs)
	}
}

func TestCreateRejectsMalformedEmail(t *testing.T) {
	t.Parallel()

	svc := newService()
	req := employerRequest()
	req.Email = "not-an-email"

	_, err := svc.Create(context.Background(), req, "")
	var validationErrs domain.ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if !validationErrs.HasField("email") {
		t.Fatalf("expected an email error, got %v", validationErrs)
	}
}

func TestCreateRejectsHTMLPayloads(t *testing.T) {
	t.Parallel()

	svc := newService()
	req := employerRequest()
	req.JobRequirements = `<script>alert(1)</script>`

	_, err := svc.Create(context.Background(), req, "")
	var validationErrs domain.ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if !validationErrs.HasField("job_requirements") {
		t.Fatalf("expected a job_requirements error, got %v", validationErrs)
	}
}

func TestCreateRoundTripThroughList(t *testing.T) {
	t.Parallel()

	svc := newService()
	created, err := svc.Create(context.Background(), employerRequest(), "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	records, pagination, err := svc.List(context.Background(), "", "", "Acme", 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if pagination.Total != 1 || len(records) != 1 {
		t.Fatalf("expected exactly one matching record, got %d", len(records))
	}

	got := records[0]
	if got.ID != created.ID {
		t.Fatalf("id mismatch: %s vs %s", got.ID, created.ID)
	}
	if got.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %s", got.Status)
	}
	if got.CompanyName != "Acme BV" || got.Email != "jane@acme.nl" || got.WorkersNeeded != 3 {
		t.Fatalf("submitted fields must round-trip unchanged: %+v", got)
	}
}

func TestIdempotencyKeyBlocksReplay(t *testing.T) {
	t.Parallel()

	svc := newService()
	key := uuid.NewString()

	if _, err := svc.Create(context.Background(), employerRequest(), key); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(context.Background(), employerRequest(), key)
	if !errors.Is(err, domain.ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}

	// Only one record reached storage.
	_, pagination, err := svc.List(context.Background(), "", "", "", 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if pagination.Total != 1 {
		t.Fatalf("expected 1 stored record, got %d", pagination.Total)
	}
}

// faultyRepository fails a configurable number of creates before
// delegating to the wrapped repository.
type faultyRepository struct {
	domain.SubmissionRepository
	failures int
}

func (r *faultyRepository) Create(ctx context.Context, record *domain.SubmissionRecord) error {
	if r.failures > 0 {
		r.failures--
		return domain.ErrStorageUnavailable
	}
	return r.SubmissionRepository.Create(ctx, record)
}

func TestFailedPersistReleasesIdempotencyKey(t *testing.T) {
	t.Parallel()

	repo := &faultyRepository{
		SubmissionRepository: repository.NewMemorySubmissionRepository(),
		failures:             1,
	}
	svc := NewSubmissionService(repo, repository.NewMemoryIdempotencyStore())
	key := uuid.NewString()

	if _, err := svc.Create(context.Background(), employerRequest(), key); err == nil {
		t.Fatalf("expected the first create to fail")
	}

	// Nothing was stored, so a retry with the same key must go through
	// instead of being rejected as a duplicate.
	if _, err := svc.Create(context.Background(), employerRequest(), key); err != nil {
		t.Fatalf("retry after a failed persist must succeed, got %v", err)
	}

	_, pagination, err := svc.List(context.Background(), "", "", "", 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if pagination.Total != 1 {
		t.Fatalf("expected exactly 1 stored record, got %d", pagination.Total)
	}
}

func TestListFiltersAreANDed(t *testing.T) {
	t.Parallel()

	svc := newService()
	if _, err := svc.Create(context.Background(), employerRequest(), ""); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	other := employerRequest()
	other.CompanyName = "Bouwbedrijf Jansen"
	other.Email = "info@jansen.nl"
	created, err := svc.Create(context.Background(), other, "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), created.ID, domain.StatusReviewed); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// Search matches both the status filter and the substring; only one
	// record satisfies both.
	records, _, err := svc.List(context.Background(), "", domain.StatusReviewed, "jansen", 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 || records[0].CompanyName != "Bouwbedrijf Jansen" {
		t.Fatalf("unexpected filter result: %+v", records)
	}

	records, _, err = svc.List(context.Background(), "", domain.StatusReviewed, "acme", 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("ANDed filters must exclude non-matching records, got %+v", records)
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	svc := newService()
	_, _, err := svc.List(context.Background(), "", "archived", "", 1, 10)
	var validationErrs domain.ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
}

func TestUpdateStatusAcceptsAnyClosedSetMember(t *testing.T) {
	t.Parallel()

	svc := newService()
	created, err := svc.Create(context.Background(), employerRequest(), "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// The UI would not offer pending→contacted, but the backend takes it.
	if offered := domain.AllowedTransitions(domain.StatusPending); len(offered) != 1 || offered[0] != domain.StatusReviewed {
		t.Fatalf("pending should only suggest reviewed, got %v", offered)
	}
	updated, err := svc.UpdateStatus(context.Background(), created.ID, domain.StatusContacted)
	if err != nil {
		t.Fatalf("direct pending→contacted must succeed server-side: %v", err)
	}
	if updated.Status != domain.StatusContacted {
		t.Fatalf("expected contacted, got %s", updated.Status)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	t.Parallel()

	svc := newService()
	created, err := svc.Create(context.Background(), employerRequest(), "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), created.ID, "archived")
	var validationErrs domain.ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("expected validation errors for a value outside the closed set, got %v", err)
	}
}

func TestDeleteIsHard(t *testing.T) {
	t.Parallel()

	svc := newService()
	created, err := svc.Create(context.Background(), employerRequest(), "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleting twice must report not found, got %v", err)
	}
}

func TestSeekerRequiredFields(t *testing.T) {
	t.Parallel()

	svc := newService()
	req := &dto.SubmissionCreateRequest{
		Flow:  domain.FlowJobSeeker,
		Email: "piotr@example.com",
		Phone: "+48500000000",
	}

	_, err := svc.Create(context.Background(), req, "")
	var validationErrs domain.ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, field := range []string{"first_name", "last_name", "availability", "categories"} {
		if !validationErrs.HasField(field) {
			t.Fatalf("expected an error for %s, got %v", field, validationErrs)
		}
	}
}
