package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
	"github.com/glodinasflexwork/flexwork-api/internal/service"
)

const testSecret = "test-secret"

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func (f *fakeSessionRepo) Create(_ context.Context, s *domain.Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (*domain.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) DeleteByUserID(_ context.Context, _ uuid.UUID) error { return nil }

func signToken(t *testing.T, role, sessionID string, expiresAt time.Time) string {
	t.Helper()
	claims := &service.Claims{
		UserID:    uuid.New(),
		SessionID: sessionID,
		Role:      role,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func gatedRouter(sessions domain.SessionRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin",
		AuthMiddleware(testSecret, sessions),
		RequireRole(domain.RoleAdmin),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return router
}

func request(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func redirectOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("malformed response: %v", err)
	}
	return payload.Redirect
}

func TestMissingTokenRedirectsToLogin(t *testing.T) {
	t.Parallel()

	router := gatedRouter(&fakeSessionRepo{sessions: map[string]*domain.Session{}})
	w := request(router, "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if redirectOf(t, w) != "/login" {
		t.Fatalf("unauthenticated requests must point at /login")
	}
}

func TestWrongRoleRedirectsHome(t *testing.T) {
	t.Parallel()

	sessionID := uuid.NewString()
	repo := &fakeSessionRepo{sessions: map[string]*domain.Session{
		sessionID: {ID: sessionID, Role: domain.RoleEmployer},
	}}
	router := gatedRouter(repo)

	w := request(router, signToken(t, domain.RoleEmployer, sessionID, time.Now().Add(time.Hour)))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if redirectOf(t, w) != "/" {
		t.Fatalf("wrong-role requests must point at /")
	}
}

func TestCorrectRolePasses(t *testing.T) {
	t.Parallel()

	sessionID := uuid.NewString()
	repo := &fakeSessionRepo{sessions: map[string]*domain.Session{
		sessionID: {ID: sessionID, Role: domain.RoleAdmin},
	}}
	router := gatedRouter(repo)

	w := request(router, signToken(t, domain.RoleAdmin, sessionID, time.Now().Add(time.Hour)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRevokedSessionIsRejected(t *testing.T) {
	t.Parallel()

	// The token is valid but its server-side session is gone.
	router := gatedRouter(&fakeSessionRepo{sessions: map[string]*domain.Session{}})
	w := request(router, signToken(t, domain.RoleAdmin, uuid.NewString(), time.Now().Add(time.Hour)))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a revoked session, got %d", w.Code)
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	t.Parallel()

	sessionID := uuid.NewString()
	repo := &fakeSessionRepo{sessions: map[string]*domain.Session{
		sessionID: {ID: sessionID, Role: domain.RoleAdmin},
	}}
	router := gatedRouter(repo)

	w := request(router, signToken(t, domain.RoleAdmin, sessionID, time.Now().Add(-time.Hour)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for an expired token, got %d", w.Code)
	}
}
