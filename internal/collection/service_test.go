package collection

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	"github.com/sakurapacks/oripa-backend/pkg/enums"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
	"github.com/sakurapacks/oripa-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:collection_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS cards (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  image TEXT NOT NULL,
  rarity TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS user_cards (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  card_id TEXT NOT NULL,
  is_shipped INTEGER NOT NULL DEFAULT 0,
  shipping_request_id TEXT,
  created_at DATETIME
);`,
	} {
		if err := conn.Exec(ddl).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return conn
}

func seedOwned(t *testing.T, conn *gorm.DB, userID uuid.UUID, acquiredAt time.Time) *models.UserCard {
	t.Helper()
	card := &models.Card{
		ID:          uuid.New(),
		Name:        "card",
		Description: "d",
		Image:       "https://img.example.com/c",
		Rarity:      enums.RarityN,
	}
	if err := conn.Create(card).Error; err != nil {
		t.Fatalf("seed card: %v", err)
	}
	owned := &models.UserCard{
		ID:        uuid.New(),
		UserID:    userID,
		CardID:    card.ID,
		CreatedAt: acquiredAt,
	}
	if err := conn.Create(owned).Error; err != nil {
		t.Fatalf("seed owned: %v", err)
	}
	return owned
}

func TestListNewestFirstWithDetails(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc, err := NewService(conn)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	userID := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	older := seedOwned(t, conn, userID, base.Add(-2*time.Hour))
	newer := seedOwned(t, conn, userID, base)
	seedOwned(t, conn, uuid.New(), base) // someone else's card

	result, err := svc.List(context.Background(), userID, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(result.Cards))
	}
	if result.Cards[0].ID != newer.ID || result.Cards[1].ID != older.ID {
		t.Fatal("collection must be newest-first")
	}
	if result.Cards[0].Card == nil || result.Cards[0].Card.Name == "" {
		t.Fatal("card details must be loaded")
	}
	if result.NextCursor != "" {
		t.Fatalf("no further page expected, got cursor %q", result.NextCursor)
	}
}

func TestListPaginates(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc, err := NewService(conn)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	userID := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		seedOwned(t, conn, userID, base.Add(-time.Duration(i)*time.Minute))
	}

	first, err := svc.List(context.Background(), userID, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Cards) != 2 || first.NextCursor == "" {
		t.Fatalf("expected full first page with cursor: %d %q", len(first.Cards), first.NextCursor)
	}

	seen := map[uuid.UUID]struct{}{}
	for _, c := range first.Cards {
		seen[c.ID] = struct{}{}
	}

	second, err := svc.List(context.Background(), userID, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Cards) != 2 {
		t.Fatalf("expected 2 cards on second page, got %d", len(second.Cards))
	}
	for _, c := range second.Cards {
		if _, dup := seen[c.ID]; dup {
			t.Fatalf("card %s repeated across pages", c.ID)
		}
	}
}

func TestListRejectsBadCursor(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc, err := NewService(conn)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.List(context.Background(), uuid.New(), pagination.Params{Cursor: "not-base64!"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
