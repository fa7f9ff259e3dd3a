package wizard

import (
	"strconv"
	"strings"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
	"github.com/glodinasflexwork/flexwork-api/internal/domain/dto"
	"github.com/glodinasflexwork/flexwork-api/internal/gateway"
	"github.com/glodinasflexwork/flexwork-api/internal/notify"
)

// The employer draft is split into one struct per wizard step, so the
// required-field set of each step is visible in the types instead of a
// runtime string list. Count-like inputs stay strings here because that
// is what the form delivers; conversion happens when the payload is built.

type EmployerCompanyStep struct {
	CompanyName string
	Industry    string
	Location    string
}

type EmployerContactStep struct {
	ContactPerson string
	Email         string
	Phone         string
}

type EmployerNeedStep struct {
	JobRequirements string
	WorkersNeeded   string
	DocumentURL     string
	TermsAccepted   bool
}

// EmployerDraft is the whole in-progress employer registration. It exists
// only in memory and is discarded after a successful submit.
type EmployerDraft struct {
	Company EmployerCompanyStep
	Contact EmployerContactStep
	Need    EmployerNeedStep
}

// EmployerWizard binds the generic engine to the employer draft.
type EmployerWizard struct {
	*Engine
	Draft *EmployerDraft
}

const employerWorkersMax = 500

// NewEmployerWizard builds the three-step employer flow:
// company details, contact person, hiring need.
func NewEmployerWizard(gw gateway.SubmissionGateway, notifier *notify.Store) *EmployerWizard {
	draft := &EmployerDraft{}
	engine := newEngine(gw, notifier)

	engine.steps = []Step{
		{
			Name: "company",
			Validate: func() domain.ValidationErrors {
				var errs domain.ValidationErrors
				requireField(&errs, "company_name", draft.Company.CompanyName)
				requireField(&errs, "industry", draft.Company.Industry)
				requireField(&errs, "location", draft.Company.Location)
				return errs
			},
		},
		{
			Name: "contact",
			Validate: func() domain.ValidationErrors {
				var errs domain.ValidationErrors
				requireField(&errs, "contact_person", draft.Contact.ContactPerson)
				requireEmail(&errs, "email", draft.Contact.Email)
				requireField(&errs, "phone", draft.Contact.Phone)
				return errs
			},
		},
		{
			Name: "need",
			Validate: func() domain.ValidationErrors {
				var errs domain.ValidationErrors
				requireField(&errs, "job_requirements", draft.Need.JobRequirements)
				requireCount(&errs, "workers_needed", draft.Need.WorkersNeeded, 1, employerWorkersMax)
				requireTerms(&errs, "terms_accepted", draft.Need.TermsAccepted)
				return errs
			},
		},
	}

	engine.buildPayload = draft.toPayload
	engine.resetDraft = func() { *draft = EmployerDraft{} }

	return &EmployerWizard{Engine: engine, Draft: draft}
}

// UpdateField merges one field change into the draft. It never validates
// and never fails; unknown names are ignored.
func (w *EmployerWizard) UpdateField(name string, value interface{}) {
	switch name {
	case "company_name":
		w.Draft.Company.CompanyName = asString(value)
	case "industry":
		w.Draft.Company.Industry = asString(value)
	case "location":
		w.Draft.Company.Location = asString(value)
	case "contact_person":
		w.Draft.Contact.ContactPerson = asString(value)
	case "email":
		w.Draft.Contact.Email = asString(value)
	case "phone":
		w.Draft.Contact.Phone = asString(value)
	case "job_requirements":
		w.Draft.Need.JobRequirements = asString(value)
	case "workers_needed":
		w.Draft.Need.WorkersNeeded = asString(value)
	case "document_url":
		w.Draft.Need.DocumentURL = asString(value)
	case "terms_accepted":
		w.Draft.Need.TermsAccepted = asBool(value)
	}
}

// toPayload keeps the untrimmed values: validation trims, submission
// does not.
func (d *EmployerDraft) toPayload() *dto.SubmissionCreateRequest {
	workers, _ := strconv.Atoi(strings.TrimSpace(d.Need.WorkersNeeded))
	return &dto.SubmissionCreateRequest{
		Flow:            domain.FlowEmployer,
		CompanyName:     d.Company.CompanyName,
		Industry:        d.Company.Industry,
		Location:        d.Company.Location,
		ContactPerson:   d.Contact.ContactPerson,
		Email:           d.Contact.Email,
		Phone:           d.Contact.Phone,
		JobRequirements: d.Need.JobRequirements,
		WorkersNeeded:   workers,
		DocumentURL:     d.Need.DocumentURL,
	}
}

func asString(value interface{}) string {
	s, _ := value.(string)
	return s
}

func asBool(value interface{}) bool {
	b, _ := value.(bool)
	return b
}
