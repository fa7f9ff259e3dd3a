package wizard

import (
	"strconv"
	"strings"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
	"github.com/glodinasflexwork/flexwork-api/internal/domain/dto"
	"github.com/glodinasflexwork/flexwork-api/internal/gateway"
	"github.com/glodinasflexwork/flexwork-api/internal/notify"
)

type SeekerPersonalStep struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

type SeekerProfessionalStep struct {
	ExperienceYears string
	Availability    string
	Location        string
}

type SeekerSkillsStep struct {
	Categories    []string
	DocumentURL   string
	TermsAccepted bool
}

// SeekerDraft mirrors the job-seeker wizard, one struct per step.
type SeekerDraft struct {
	Personal     SeekerPersonalStep
	Professional SeekerProfessionalStep
	Skills       SeekerSkillsStep
}

type SeekerWizard struct {
	*Engine
	Draft *SeekerDraft
}

const seekerExperienceMax = 60

// NewSeekerWizard builds the three-step job-seeker flow:
// personal details, professional background, skills and consent.
func NewSeekerWizard(gw gateway.SubmissionGateway, notifier *notify.Store) *SeekerWizard {
	draft := &SeekerDraft{}
	engine := newEngine(gw, notifier)

	engine.steps = []Step{
		{
			Name: "personal",
			Validate: func() domain.ValidationErrors {
				var errs domain.ValidationErrors
				requireField(&errs, "first_name", draft.Personal.FirstName)
				requireField(&errs, "last_name", draft.Personal.LastName)
				requireEmail(&errs, "email", draft.Personal.Email)
				requireField(&errs, "phone", draft.Personal.Phone)
				return errs
			},
		},
		{
			Name: "professional",
			Validate: func() domain.ValidationErrors {
				var errs domain.ValidationErrors
				requireCount(&errs, "experience_years", draft.Professional.ExperienceYears, 0, seekerExperienceMax)
				requireField(&errs, "availability", draft.Professional.Availability)
				requireField(&errs, "location", draft.Professional.Location)
				return errs
			},
		},
		{
			Name: "skills",
			Validate: func() domain.ValidationErrors {
				var errs domain.ValidationErrors
				if len(draft.Skills.Categories) == 0 {
					errs = append(errs, domain.NewValidationError("categories", "select at least one category", domain.ErrRequired))
				}
				requireTerms(&errs, "terms_accepted", draft.Skills.TermsAccepted)
				return errs
			},
		},
	}

	engine.buildPayload = draft.toPayload
	engine.resetDraft = func() { *draft = SeekerDraft{} }

	return &SeekerWizard{Engine: engine, Draft: draft}
}

// UpdateField merges one field change; never validates, never fails.
// Categories replace the whole selection, preserving the caller's order.
func (w *SeekerWizard) UpdateField(name string, value interface{}) {
	switch name {
	case "first_name":
		w.Draft.Personal.FirstName = asString(value)
	case "last_name":
		w.Draft.Personal.LastName = asString(value)
	case "email":
		w.Draft.Personal.Email = asString(value)
	case "phone":
		w.Draft.Personal.Phone = asString(value)
	case "experience_years":
		w.Draft.Professional.ExperienceYears = asString(value)
	case "availability":
		w.Draft.Professional.Availability = asString(value)
	case "location":
		w.Draft.Professional.Location = asString(value)
	case "categories":
		if categories, ok := value.([]string); ok {
			w.Draft.Skills.Categories = append([]string(nil), categories...)
		}
	case "document_url":
		w.Draft.Skills.DocumentURL = asString(value)
	case "terms_accepted":
		w.Draft.Skills.TermsAccepted = asBool(value)
	}
}

// ToggleCategory adds the category at the end of the selection or removes
// it when already selected, keeping insertion order for the rest.
func (w *SeekerWizard) ToggleCategory(category string) {
	for i, existing := range w.Draft.Skills.Categories {
		if existing == category {
			w.Draft.Skills.Categories = append(
				w.Draft.Skills.Categories[:i],
				w.Draft.Skills.Categories[i+1:]...,
			)
			return
		}
	}
	w.Draft.Skills.Categories = append(w.Draft.Skills.Categories, category)
}

func (d *SeekerDraft) toPayload() *dto.SubmissionCreateRequest {
	years, _ := strconv.Atoi(strings.TrimSpace(d.Professional.ExperienceYears))
	return &dto.SubmissionCreateRequest{
		Flow:            domain.FlowJobSeeker,
		FirstName:       d.Personal.FirstName,
		LastName:        d.Personal.LastName,
		Email:           d.Personal.Email,
		Phone:           d.Personal.Phone,
		ExperienceYears: years,
		Availability:    d.Professional.Availability,
		Location:        d.Professional.Location,
		Categories:      append([]string(nil), d.Skills.Categories...),
		DocumentURL:     d.Skills.DocumentURL,
	}
}
