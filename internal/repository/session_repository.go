package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
)

type redisSessionRepository struct {
	client *redis.Client
}

// NewSessionRepository stores admin sessions in redis with a TTL taken
// from each session's expiry.
func NewSessionRepository(client *redis.Client) domain.SessionRepository {
	return &redisSessionRepository{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func userSessionsKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_sessions:%s", userID.String())
}

func (r *redisSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, time.Until(session.ExpiresAt))
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
	pipe.Expire(ctx, userSessionsKey(session.UserID), time.Until(session.ExpiresAt))

	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisSessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	session, err := r.GetByID(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, userSessionsKey(session.UserID), sessionID)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisSessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	sessionIDs, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}
	if len(sessionIDs) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for _, sessionID := range sessionIDs {
		pipe.Del(ctx, sessionKey(sessionID))
	}
	pipe.Del(ctx, userSessionsKey(userID))

	_, err = pipe.Exec(ctx)
	return err
}
