package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
)

// SubmissionCreateRequest is the public create body shared by both flows.
// Per-flow required fields are enforced by the service, not by binding
// tags, so that a missing field produces the project's own field-level
// validation errors rather than gin's.
type SubmissionCreateRequest struct {
	Flow string `json:"flow" binding:"required,oneof=employer job_seeker"`

	// Employer fields
	CompanyName     string `json:"company_name"`
	ContactPerson   string `json:"contact_person"`
	Industry        string `json:"industry"`
	JobRequirements string `json:"job_requirements"`
	WorkersNeeded   int    `json:"workers_needed"`

	// Job-seeker fields
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Categories      []string `json:"categories"`
	ExperienceYears int      `json:"experience_years"`
	Availability    string   `json:"availability"`

	// Shared fields
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	DocumentURL string `json:"document_url"`
}

// ToRecord converts the request into a fresh domain record. Status and
// timestamps are never taken from the client.
func (req *SubmissionCreateRequest) ToRecord() *domain.SubmissionRecord {
	return &domain.SubmissionRecord{
		Flow:            req.Flow,
		CompanyName:     req.CompanyName,
		ContactPerson:   req.ContactPerson,
		Industry:        req.Industry,
		JobRequirements: req.JobRequirements,
		WorkersNeeded:   req.WorkersNeeded,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Categories:      append([]string(nil), req.Categories...),
		ExperienceYears: req.ExperienceYears,
		Availability:    req.Availability,
		Email:           req.Email,
		Phone:           req.Phone,
		Location:        req.Location,
		DocumentURL:     req.DocumentURL,
	}
}

// StatusUpdateRequest is the body of PUT /submissions/:id.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required,oneof=pending reviewed contacted"`
}

// SubmissionResponse is the API view of one record.
type SubmissionResponse struct {
	ID                 uuid.UUID `json:"id"`
	Flow               string    `json:"flow"`
	Status             string    `json:"status"`
	CompanyName        string    `json:"company_name,omitempty"`
	ContactPerson      string    `json:"contact_person,omitempty"`
	Industry           string    `json:"industry,omitempty"`
	JobRequirements    string    `json:"job_requirements,omitempty"`
	WorkersNeeded      int       `json:"workers_needed,omitempty"`
	FirstName          string    `json:"first_name,omitempty"`
	LastName           string    `json:"last_name,omitempty"`
	Categories         []string  `json:"categories,omitempty"`
	ExperienceYears    int       `json:"experience_years,omitempty"`
	Availability       string    `json:"availability,omitempty"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Location           string    `json:"location,omitempty"`
	DocumentURL        string    `json:"document_url,omitempty"`
	AllowedTransitions []string  `json:"allowed_transitions"`
	CreatedAt          string    `json:"created_at"`
	UpdatedAt          string    `json:"updated_at"`
}

// FromDomain maps a record into the response shape, including the status
// transitions the admin UI may offer next.
func FromDomain(record *domain.SubmissionRecord) *SubmissionResponse {
	return &SubmissionResponse{
		ID:                 record.ID,
		Flow:               record.Flow,
		Status:             record.Status,
		CompanyName:        record.CompanyName,
		ContactPerson:      record.ContactPerson,
		Industry:           record.Industry,
		JobRequirements:    record.JobRequirements,
		WorkersNeeded:      record.WorkersNeeded,
		FirstName:          record.FirstName,
		LastName:           record.LastName,
		Categories:         record.Categories,
		ExperienceYears:    record.ExperienceYears,
		Availability:       record.Availability,
		Email:              record.Email,
		Phone:              record.Phone,
		Location:           record.Location,
		DocumentURL:        record.DocumentURL,
		AllowedTransitions: domain.AllowedTransitions(record.Status),
		CreatedAt:          record.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          record.UpdatedAt.Format(time.RFC3339),
	}
}

// ListResponse is the envelope of GET /submissions.
type ListResponse struct {
	Data       []*SubmissionResponse `json:"data"`
	Pagination Pagination            `json:"pagination"`
}

// CreateResponse is the 201 body of POST /submissions.
type CreateResponse struct {
	ID uuid.UUID `json:"id"`
}
