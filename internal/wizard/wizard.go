package wizard

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
	"github.com/glodinasflexwork/flexwork-api/internal/domain/dto"
	"github.com/glodinasflexwork/flexwork-api/internal/gateway"
	"github.com/glodinasflexwork/flexwork-api/internal/notify"
)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submit has not resolved yet. The in-flight call proceeds; the duplicate
// caller gets this error and no second create reaches the gateway.
var ErrSubmitInFlight = errors.New("a submission is already in progress")

// ErrNotOnFinalStep guards Submit against being reached early.
var ErrNotOnFinalStep = errors.New("submit is only available on the final step")

// Step is one page of a wizard: a name and its validation rules.
// Validation is a pure function of the current draft.
type Step struct {
	Name     string
	Validate func() domain.ValidationErrors
}

// Engine drives a multi-step form: per-step validation, gated forward
// navigation, free backward navigation and a guarded final submit.
// The concrete field state lives in the per-flow draft types; the engine
// only sees the steps' validation closures and the payload builder.
type Engine struct {
	steps        []Step
	current      int
	stepErrors   domain.ValidationErrors
	submitting   atomic.Bool
	gw           gateway.SubmissionGateway
	notifier     *notify.Store
	buildPayload func() *dto.SubmissionCreateRequest
	resetDraft   func()
}

func newEngine(gw gateway.SubmissionGateway, notifier *notify.Store) *Engine {
	return &Engine{gw: gw, notifier: notifier}
}

// CurrentStep is 1-based, matching what the progress bar shows.
func (e *Engine) CurrentStep() int {
	return e.current + 1
}

func (e *Engine) StepCount() int {
	return len(e.steps)
}

// Errors returns the inline errors surfaced by the last failed Advance
// or Submit.
func (e *Engine) Errors() domain.ValidationErrors {
	return e.stepErrors
}

// ValidateStep checks one step (1-based) without touching navigation
// state. Out-of-range steps validate to true with no errors.
func (e *Engine) ValidateStep(step int) (bool, domain.ValidationErrors) {
	if step < 1 || step > len(e.steps) {
		return true, nil
	}
	errs := e.steps[step-1].Validate()
	return len(errs) == 0, errs
}

// Advance moves to the next step when the current one validates. On
// failure the step stays put and the errors are surfaced inline. No
// network call happens here.
func (e *Engine) Advance() bool {
	valid, errs := e.ValidateStep(e.CurrentStep())
	if !valid {
		e.stepErrors = errs
		return false
	}

	e.stepErrors = nil
	if e.current < len(e.steps)-1 {
		e.current++
	}
	return true
}

// Retreat moves back unconditionally. The step being left is not
// re-validated and its values are kept.
func (e *Engine) Retreat() {
	if e.current > 0 {
		e.current--
	}
}

// Submit re-validates the final step and performs the one-shot create.
// Only one call can be in flight: the trigger is disabled for the whole
// duration, so rapid double-clicks produce at most one gateway call.
// On failure the user stays on the final step with an error notification;
// there is no automatic retry.
func (e *Engine) Submit(ctx context.Context) (uuid.UUID, error) {
	if e.CurrentStep() != e.StepCount() {
		return uuid.Nil, ErrNotOnFinalStep
	}

	if !e.submitting.CompareAndSwap(false, true) {
		return uuid.Nil, ErrSubmitInFlight
	}
	defer e.submitting.Store(false)

	valid, errs := e.ValidateStep(e.CurrentStep())
	if !valid {
		e.stepErrors = errs
		return uuid.Nil, errs
	}
	e.stepErrors = nil

	id, err := e.gw.CreateSubmission(ctx, e.buildPayload())
	if err != nil {
		if e.notifier != nil {
			e.notifier.Error(submitFailureMessage(err))
		}
		return uuid.Nil, err
	}

	if e.notifier != nil {
		e.notifier.Success("Thank you! We will contact you shortly.")
	}
	if e.resetDraft != nil {
		e.resetDraft()
	}
	return id, nil
}

func submitFailureMessage(err error) string {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return "Something went wrong. Please try again."
}

// Shared field checks used by both flows. All checks run on the trimmed
// value; the untrimmed value stays in the draft and is what gets
// submitted.

func requireField(errs *domain.ValidationErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		*errs = append(*errs, domain.NewValidationError(field, "field is required", domain.ErrRequired))
	}
}

func requireEmail(errs *domain.ValidationErrors, field, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		*errs = append(*errs, domain.NewValidationError(field, "field is required", domain.ErrRequired))
		return
	}
	if !domain.EmailPattern.MatchString(trimmed) {
		*errs = append(*errs, domain.NewValidationError(field, "must be a valid email address", domain.ErrInvalidEmail))
	}
}

func requireCount(errs *domain.ValidationErrors, field, value string, min, max int) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		*errs = append(*errs, domain.NewValidationError(field, "field is required", domain.ErrRequired))
		return
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < min || n > max {
		*errs = append(*errs, domain.NewValidationError(field, "must be a number within range", domain.ErrOutOfRange))
	}
}

func requireTerms(errs *domain.ValidationErrors, field string, accepted bool) {
	if !accepted {
		*errs = append(*errs, domain.NewValidationError(field, "you must accept the terms to continue", domain.ErrRequired))
	}
}
