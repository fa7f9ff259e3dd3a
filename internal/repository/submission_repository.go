package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
)

type postgresSubmissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository wires the Postgres-backed submission store.
func NewSubmissionRepository(db *sql.DB) domain.SubmissionRepository {
	return &postgresSubmissionRepository{db: db}
}

var submissionColumns = []string{
	"id", "flow", "status",
	"company_name", "contact_person", "industry", "job_requirements", "workers_needed",
	"first_name", "last_name", "categories", "experience_years", "availability",
	"email", "phone", "location", "document_url",
	"created_at", "updated_at",
}

func (r *postgresSubmissionRepository) Create(ctx context.Context, record *domain.SubmissionRecord) error {
	query := `INSERT INTO submissions (
	              id, flow, status,
	              company_name, contact_person, industry, job_requirements, workers_needed,
	              first_name, last_name, categories, experience_years, availability,
	              email, phone, location, document_url,
	              created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	RETURNING id`

	var returnedID uuid.UUID
	err := r.db.QueryRowContext(ctx, query,
		record.ID, record.Flow, record.Status,
		record.CompanyName, record.ContactPerson, record.Industry, record.JobRequirements, record.WorkersNeeded,
		record.FirstName, record.LastName, pq.StringArray(record.Categories), record.ExperienceYears, record.Availability,
		record.Email, record.Phone, record.Location, record.DocumentURL,
		record.CreatedAt, record.UpdatedAt).Scan(&returnedID)

	if err != nil {
		log.Error().Err(err).Str("flow", record.Flow).Msg("failed to create submission")
		return fmt.Errorf("create submission: %w", err)
	}

	record.ID = returnedID
	return nil
}

func (r *postgresSubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SubmissionRecord, error) {
	query, args, err := sq.Select(submissionColumns...).
		From("submissions").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	record, err := scanSubmission(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return record, nil
}

// List applies the optional status and search filters, ANDed, on top of
// offset pagination. The search is a case-insensitive substring match over
// the human-entered text columns.
func (r *postgresSubmissionRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.SubmissionRecord, int, error) {
	conditions := listConditions(filter)

	countQuery, countArgs, err := sq.Select("COUNT(*)").
		From("submissions").
		Where(conditions).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Error().Err(err).Msg("failed to count submissions")
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	query, args, err := sq.Select(submissionColumns...).
		From("submissions").
		Where(conditions).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Msg("failed to list submissions")
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.SubmissionRecord, 0)
	for rows.Next() {
		record, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan submission: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration: %w", err)
	}

	return records, total, nil
}

func listConditions(filter domain.ListFilter) sq.And {
	conditions := sq.And{}
	if filter.Flow != "" {
		conditions = append(conditions, sq.Eq{"flow": filter.Flow})
	}
	if filter.Status != "" {
		conditions = append(conditions, sq.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conditions = append(conditions, sq.Or{
			sq.ILike{"company_name": pattern},
			sq.ILike{"contact_person": pattern},
			sq.ILike{"first_name": pattern},
			sq.ILike{"last_name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"location": pattern},
		})
	}
	return conditions
}

func (r *postgresSubmissionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.SubmissionRecord, error) {
	query := `UPDATE submissions SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		log.Error().Err(err).Str("submission_id", id.String()).Msg("failed to update submission status")
		return nil, fmt.Errorf("update status: %w", err)
	}
	if err := checkRowsAffected(result); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *postgresSubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Str("submission_id", id.String()).Msg("failed to delete submission")
		return fmt.Errorf("delete submission: %w", err)
	}
	return checkRowsAffected(result)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row rowScanner) (*domain.SubmissionRecord, error) {
	record := &domain.SubmissionRecord{}
	var categories pq.StringArray

	err := row.Scan(
		&record.ID, &record.Flow, &record.Status,
		&record.CompanyName, &record.ContactPerson, &record.Industry, &record.JobRequirements, &record.WorkersNeeded,
		&record.FirstName, &record.LastName, &categories, &record.ExperienceYears, &record.Availability,
		&record.Email, &record.Phone, &record.Location, &record.DocumentURL,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Categories = []string(categories)
	return record, nil
}

func checkRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
