package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/glodinasflexwork/flexwork-api/internal/config"
	"github.com/glodinasflexwork/flexwork-api/internal/domain"
)

// ErrInvalidCredentials is returned for a failed login without revealing
// which part of the credentials was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims carried in the HMAC-signed access token. The session id ties the
// token to a revocable server-side session.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

// AuthService issues and revokes admin sessions.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	cfg      *config.Config
	sessions domain.SessionRepository
}

func NewAuthService(cfg *config.Config, sessions domain.SessionRepository) AuthService {
	return &authService{cfg: cfg, sessions: sessions}
}

// Login checks the configured admin credentials, creates a session and
// returns a signed access token for it.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.AdminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	if !emailOK || !passwordOK {
		log.Warn().Str("email", email).Msg("rejected login attempt")
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	session := &domain.Session{
		ID:         uuid.NewString(),
		UserID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte(email)),
		Email:      email,
		Role:       domain.RoleAdmin,
		CreatedAt:  now,
		LastUsedAt: now,
		ExpiresAt:  now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.signToken(session)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, session, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *authService) signToken(session *domain.Session) (string, error) {
	claims := &Claims{
		UserID:    session.UserID,
		SessionID: session.ID,
		Role:      session.Role,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
