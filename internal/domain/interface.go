package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors shared across the storage and service layers.
var (
	ErrNotFound           = errors.New("record not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDuplicateRequest   = errors.New("duplicate request")
)

// ListFilter carries the admin view's query parameters down to storage.
// Status is an exact match, Search a case-insensitive substring match over
// the text columns; both are optional and combined with AND.
type ListFilter struct {
	Flow   string
	Status string
	Search string
	Limit  int
	Offset int
}

// SubmissionRepository persists completed registrations.
type SubmissionRepository interface {
	Create(ctx context.Context, record *SubmissionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*SubmissionRecord, error)
	List(ctx context.Context, filter ListFilter) ([]*SubmissionRecord, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*SubmissionRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Session is one authenticated admin login, kept server-side in redis.
type Session struct {
	ID         string    `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// SessionRepository stores sessions keyed by id with TTL semantics.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// IdempotencyStore reserves client-generated submission tokens so that a
// duplicate create attempt with the same token is rejected instead of
// producing a second record. Release frees a reservation whose submission
// did not make it to storage, so the client can retry with the same token.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Roles recognized by the session gate.
const (
	RoleAdmin    = "admin"
	RoleEmployer = "employer"
)
