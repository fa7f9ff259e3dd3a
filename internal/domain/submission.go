package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Flow discriminates the two registration funnels.
const (
	FlowEmployer  = "employer"
	FlowJobSeeker = "job_seeker"
)

// Submission statuses form a small closed set. New records always start
// as pending; the admin panel moves them between reviewed and contacted.
const (
	StatusPending   = "pending"
	StatusReviewed  = "reviewed"
	StatusContacted = "contacted"
)

var ValidStatuses = map[string]bool{
	StatusPending:   true,
	StatusReviewed:  true,
	StatusContacted: true,
}

var ValidFlows = map[string]bool{
	FlowEmployer:  true,
	FlowJobSeeker: true,
}

// AllowedTransitions returns the follow-up statuses the admin UI offers
// from the given status. The backend accepts any member of the closed set;
// this map only drives which buttons are rendered.
func AllowedTransitions(status string) []string {
	switch status {
	case StatusPending:
		return []string{StatusReviewed}
	case StatusReviewed:
		return []string{StatusContacted}
	case StatusContacted:
		return []string{StatusReviewed}
	default:
		return nil
	}
}

// SubmissionRecord is the persisted result of a completed registration
// wizard. Employer and job-seeker submissions share one table; the Flow
// column tells the two field sets apart.
type SubmissionRecord struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Flow   string    `json:"flow" db:"flow" validate:"required,oneof=employer job_seeker"`
	Status string    `json:"status" db:"status" validate:"required,oneof=pending reviewed contacted"`

	// Employer fields
	CompanyName     string `json:"company_name,omitempty" db:"company_name"`
	ContactPerson   string `json:"contact_person,omitempty" db:"contact_person"`
	Industry        string `json:"industry,omitempty" db:"industry"`
	JobRequirements string `json:"job_requirements,omitempty" db:"job_requirements"`
	WorkersNeeded   int    `json:"workers_needed,omitempty" db:"workers_needed" validate:"omitempty,min=1,max=500"`

	// Job-seeker fields
	FirstName       string   `json:"first_name,omitempty" db:"first_name"`
	LastName        string   `json:"last_name,omitempty" db:"last_name"`
	Categories      []string `json:"categories,omitempty" db:"categories"`
	ExperienceYears int      `json:"experience_years,omitempty" db:"experience_years" validate:"omitempty,min=0,max=60"`
	Availability    string   `json:"availability,omitempty" db:"availability"`

	// Shared fields
	Email       string `json:"email" db:"email" validate:"required"`
	Phone       string `json:"phone" db:"phone" validate:"required,max=32"`
	Location    string `json:"location,omitempty" db:"location"`
	DocumentURL string `json:"document_url,omitempty" db:"document_url"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BeforeSave normalizes a record before it is written: trims string
// fields, assigns an id for new records and stamps timestamps.
func (s *SubmissionRecord) BeforeSave() {
	s.CompanyName = strings.TrimSpace(s.CompanyName)
	s.ContactPerson = strings.TrimSpace(s.ContactPerson)
	s.Industry = strings.TrimSpace(s.Industry)
	s.JobRequirements = strings.TrimSpace(s.JobRequirements)
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Availability = strings.TrimSpace(s.Availability)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Location = strings.TrimSpace(s.Location)

	if s.Status == "" {
		s.Status = StatusPending
	}

	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
}

// Validate runs the per-flow required-field checks on top of the struct
// tags. Required fields mirror the public create contract: an employer
// submission without company/contact/email/phone/industry/requirements/
// count/location is rejected, analogously for job seekers.
func (s *SubmissionRecord) Validate() error {
	var errs ValidationErrors

	if err := ValidateStruct(s); err != nil {
		if mapped, ok := err.(ValidationErrors); ok {
			errs = append(errs, mapped...)
		} else {
			return err
		}
	}

	for _, field := range requiredFields(s.Flow) {
		if strings.TrimSpace(field.value(s)) == "" {
			errs = append(errs, NewValidationError(field.name, "field is required", ErrRequired))
		}
	}

	switch s.Flow {
	case FlowEmployer:
		if s.WorkersNeeded < 1 {
			errs = append(errs, NewValidationError("workers_needed", "must be at least 1", ErrRequired))
		}
	case FlowJobSeeker:
		if len(s.Categories) == 0 {
			errs = append(errs, NewValidationError("categories", "select at least one category", ErrRequired))
		}
	}

	if s.Email != "" && !EmailPattern.MatchString(strings.TrimSpace(s.Email)) {
		errs = append(errs, NewValidationError("email", "must be a valid email address", ErrInvalidEmail))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type fieldRef struct {
	name  string
	value func(*SubmissionRecord) string
}

func requiredFields(flow string) []fieldRef {
	switch flow {
	case FlowEmployer:
		return []fieldRef{
			{"company_name", func(s *SubmissionRecord) string { return s.CompanyName }},
			{"contact_person", func(s *SubmissionRecord) string { return s.ContactPerson }},
			{"email", func(s *SubmissionRecord) string { return s.Email }},
			{"phone", func(s *SubmissionRecord) string { return s.Phone }},
			{"industry", func(s *SubmissionRecord) string { return s.Industry }},
			{"job_requirements", func(s *SubmissionRecord) string { return s.JobRequirements }},
			{"location", func(s *SubmissionRecord) string { return s.Location }},
		}
	case FlowJobSeeker:
		return []fieldRef{
			{"first_name", func(s *SubmissionRecord) string { return s.FirstName }},
			{"last_name", func(s *SubmissionRecord) string { return s.LastName }},
			{"email", func(s *SubmissionRecord) string { return s.Email }},
			{"phone", func(s *SubmissionRecord) string { return s.Phone }},
			{"availability", func(s *SubmissionRecord) string { return s.Availability }},
		}
	default:
		return nil
	}
}
