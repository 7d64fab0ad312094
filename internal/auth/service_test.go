package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/sakurapacks/oripa-backend/pkg/auth"
	"github.com/sakurapacks/oripa-backend/pkg/auth/session"
	"github.com/sakurapacks/oripa-backend/pkg/config"
	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
	"github.com/sakurapacks/oripa-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "oripa-test",
		ExpirationMinutes: 15,
	}
}

type stubUserRepo struct {
	byEmail map[string]*models.User
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSessionManager struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	next := session.NewAccessID()
	return next, "refresh-" + next, nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func seedCredentials(t *testing.T, email, password string, isAdmin bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Name:         "Rin",
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
}

func newAuthService(t *testing.T, repo userRepository, sessions sessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginSuccess(t *testing.T) {
	user := seedCredentials(t, "rin@example.com", "pass-word-123", true)
	sessions := &stubSessionManager{}
	svc := newAuthService(t, &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Rin@Example.com ", Password: "pass-word-123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("unexpected user in response: %+v", resp.User)
	}
	if resp.RefreshToken == "" || len(sessions.generated) != 1 {
		t.Fatal("a session must be generated")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID || !claims.IsAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID != sessions.generated[0] {
		t.Fatal("jti must match the generated session id")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := seedCredentials(t, "rin@example.com", "pass-word-123", false)
	svc := newAuthService(t, &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	userID := uuid.New()
	cfg := testJWTConfig()
	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now().Add(-time.Hour), pkgAuth.AccessTokenPayload{
		UserID:  userID,
		IsAdmin: true,
		JTI:     accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	svc := newAuthService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, &stubSessionManager{})
	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "refresh-" + accessID,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.UserID != userID || !claims.IsAdmin {
		t.Fatalf("claims must carry over: %+v", claims)
	}
	if claims.ID == accessID {
		t.Fatal("rotation must issue a fresh jti")
	}
}

func TestRefreshInvalidToken(t *testing.T) {
	sessions := &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc := newAuthService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, sessions)

	accessToken, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{AccessToken: accessToken, RefreshToken: "bogus"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessionManager{}
	svc := newAuthService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, sessions)

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	if err := svc.Logout(context.Background(), accessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != accessID {
		t.Fatalf("expected jti revoked, got %v", sessions.revoked)
	}
}
