package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:users_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	ddl := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  points INTEGER NOT NULL DEFAULT 0,
  is_admin INTEGER NOT NULL DEFAULT 0,
  address_line1 TEXT,
  address_line2 TEXT,
  city TEXT,
  state TEXT,
  zip_code TEXT,
  country TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := conn.Exec(ddl).Error; err != nil {
		t.Fatalf("create users table: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Hana",
		Email:        "hana@example.com",
		PasswordHash: "x",
		Points:       250,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func strptr(s string) *string { return &s }

func TestProfileReturnsUser(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	seeded := seedUser(t, conn)

	got, err := svc.Profile(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if got.Email != seeded.Email || got.Points != 250 {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestProfileUnknownUser(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Profile(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	seeded := seedUser(t, conn)

	updated, err := svc.UpdateProfile(context.Background(), seeded.ID, UpdateProfileDTO{
		AddressLine1: strptr("1-2-3 Akihabara"),
		City:         strptr("Tokyo"),
		ZipCode:      strptr("101-0021"),
		Country:      strptr("JP"),
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.AddressLine1 == nil || *updated.AddressLine1 != "1-2-3 Akihabara" {
		t.Fatalf("address not applied: %+v", updated)
	}
	if updated.Name != "Hana" {
		t.Fatalf("untouched fields must survive, got name %q", updated.Name)
	}
	if updated.Points != 250 {
		t.Fatalf("points must never change via profile updates, got %d", updated.Points)
	}
}
