package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
	"github.com/glodinasflexwork/flexwork-api/internal/domain/dto"
)

// idempotencyTTL bounds how long a submission token blocks replays.
const idempotencyTTL = 24 * time.Hour

// SubmissionService owns the server side of the registration funnel:
// create with per-flow validation, the admin listing, status updates and
// deletes.
type SubmissionService interface {
	Create(ctx context.Context, req *dto.SubmissionCreateRequest, idempotencyKey string) (*domain.SubmissionRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.SubmissionRecord, error)
	List(ctx context.Context, flow, status, search string, page, limit int) ([]*domain.SubmissionRecord, dto.Pagination, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.SubmissionRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type submissionService struct {
	repo        domain.SubmissionRepository
	idempotency domain.IdempotencyStore
	sanitizer   *domain.SecuritySanitizer
}

// NewSubmissionService wires the service. The idempotency store may be nil,
// in which case duplicate tokens are not checked.
func NewSubmissionService(repo domain.SubmissionRepository, idempotency domain.IdempotencyStore) SubmissionService {
	return &submissionService{
		repo:        repo,
		idempotency: idempotency,
		sanitizer:   domain.NewSecuritySanitizer(),
	}
}

func (s *submissionService) Create(ctx context.Context, req *dto.SubmissionCreateRequest, idempotencyKey string) (*domain.SubmissionRecord, error) {
	record := req.ToRecord()
	record.BeforeSave()

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if errs := s.sanitizer.CheckStrings(map[string]string{
		"company_name":     record.CompanyName,
		"contact_person":   record.ContactPerson,
		"job_requirements": record.JobRequirements,
		"first_name":       record.FirstName,
		"last_name":        record.LastName,
		"location":         record.Location,
	}); len(errs) > 0 {
		return nil, errs
	}

	keyReserved := false
	if idempotencyKey != "" && s.idempotency != nil {
		reserved, err := s.idempotency.Reserve(ctx, idempotencyKey, idempotencyTTL)
		if err != nil {
			log.Error().Err(err).Msg("idempotency reservation failed")
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if !reserved {
			return nil, domain.ErrDuplicateRequest
		}
		keyReserved = true
	}

	if err := s.repo.Create(ctx, record); err != nil {
		// Nothing was stored, so the token must not block a retry.
		if keyReserved {
			if releaseErr := s.idempotency.Release(ctx, idempotencyKey); releaseErr != nil {
				log.Error().Err(releaseErr).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}

	log.Info().
		Str("submission_id", record.ID.String()).
		Str("flow", record.Flow).
		Msg("submission created")

	return record, nil
}

func (s *submissionService) Get(ctx context.Context, id uuid.UUID) (*domain.SubmissionRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// List fetches one page. Limit is capped the same way the repositories
// cap it; page clamping happens against the computed page count, which
// requires the total before the page query runs.
func (s *submissionService) List(ctx context.Context, flow, status, search string, page, limit int) ([]*domain.SubmissionRecord, dto.Pagination, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if status != "" && !domain.ValidStatuses[status] {
		return nil, dto.Pagination{}, domain.ValidationErrors{
			domain.NewValidationError("status", "must be one of: pending reviewed contacted", domain.ErrInvalidField),
		}
	}
	if flow != "" && !domain.ValidFlows[flow] {
		return nil, dto.Pagination{}, domain.ValidationErrors{
			domain.NewValidationError("flow", "must be one of: employer job_seeker", domain.ErrInvalidField),
		}
	}

	filter := domain.ListFilter{Flow: flow, Status: status, Search: search, Limit: limit}

	// First pass to learn the total so the requested page can be clamped.
	_, total, err := s.repo.List(ctx, domain.ListFilter{Flow: flow, Status: status, Search: search, Limit: 1})
	if err != nil {
		return nil, dto.Pagination{}, err
	}

	pagination := dto.NewPagination(total, page, limit)
	filter.Offset = pagination.Offset()

	records, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	return records, pagination, nil
}

// UpdateStatus overwrites the status with any member of the closed set.
// Transition restrictions live in the UI only; see AllowedTransitions.
func (s *submissionService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.SubmissionRecord, error) {
	if !domain.ValidStatuses[status] {
		return nil, domain.ValidationErrors{
			domain.NewValidationError("status", "must be one of: pending reviewed contacted", domain.ErrInvalidField),
		}
	}

	record, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update submission status: %w", err)
	}
	return record, nil
}

func (s *submissionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}
