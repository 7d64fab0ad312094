package gacha

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sakurapacks/oripa-backend/internal/catalog"
	"github.com/sakurapacks/oripa-backend/internal/ledger"
	"github.com/sakurapacks/oripa-backend/pkg/db"
	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	"github.com/sakurapacks/oripa-backend/pkg/enums"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:gacha_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS users (
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
);`,
		`CREATE TABLE IF NOT EXISTS cards (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  image TEXT NOT NULL,
  rarity TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS packs (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  price INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS pack_cards (
  id TEXT PRIMARY KEY,
  pack_id TEXT NOT NULL,
  card_id TEXT NOT NULL,
  created_at DATETIME
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

func newDrawService(t *testing.T, conn *gorm.DB, pick func(n int) int) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:         db.NewFromConn(conn),
		PackRepo:   NewRepository(conn),
		LedgerRepo: ledger.NewRepository(conn),
		Pick:       pick,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, conn *gorm.DB, points int) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Yuki",
		Email:        "yuki_" + uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Points:       points,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedCard(t *testing.T, conn *gorm.DB, name string, rarity enums.Rarity) *models.Card {
	t.Helper()
	card := &models.Card{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " card",
		Image:       "https://img.example.com/" + name,
		Rarity:      rarity,
	}
	if err := conn.Create(card).Error; err != nil {
		t.Fatalf("seed card %s: %v", name, err)
	}
	return card
}

// seedPack registers the pack with the given pool; repeat a card id to give
// it more weight.
func seedPack(t *testing.T, conn *gorm.DB, price int, cardIDs ...uuid.UUID) *models.Pack {
	t.Helper()
	pack := &models.Pack{
		ID:          uuid.New(),
		Name:        "test pack",
		Description: "pool under test",
		Price:       price,
	}
	if err := conn.Create(pack).Error; err != nil {
		t.Fatalf("seed pack: %v", err)
	}
	for _, cardID := range cardIDs {
		link := &models.PackCard{ID: uuid.New(), PackID: pack.ID, CardID: cardID}
		if err := conn.Create(link).Error; err != nil {
			t.Fatalf("seed pack card: %v", err)
		}
	}
	return pack
}

func countUserCards(t *testing.T, conn *gorm.DB, userID uuid.UUID) int64 {
	t.Helper()
	var n int64
	if err := conn.Model(&models.UserCard{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("count user cards: %v", err)
	}
	return n
}

func reloadPoints(t *testing.T, conn *gorm.DB, userID uuid.UUID) int {
	t.Helper()
	var user models.User
	if err := conn.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return user.Points
}

func TestDrawGrantsCardAndDebitsPoints(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	user := seedUser(t, conn, 150)
	card := seedCard(t, conn, "pikachu", enums.RaritySSR)
	pack := seedPack(t, conn, 100, card.ID)
	svc := newDrawService(t, conn, func(n int) int {
		if n != 1 {
			t.Fatalf("expected pool size 1, got %d", n)
		}
		return 0
	})

	result, err := svc.Draw(context.Background(), user.ID, pack.ID)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if result.Card.ID != card.ID {
		t.Fatalf("expected card %s, got %s", card.ID, result.Card.ID)
	}
	if result.Points != 50 {
		t.Fatalf("expected 50 points left, got %d", result.Points)
	}
	if got := reloadPoints(t, conn, user.ID); got != 50 {
		t.Fatalf("expected persisted 50 points, got %d", got)
	}
	if n := countUserCards(t, conn, user.ID); n != 1 {
		t.Fatalf("expected one owned card, got %d", n)
	}
}

func TestDrawInsufficientBalanceLeavesNoTrace(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	user := seedUser(t, conn, 99)
	card := seedCard(t, conn, "eevee", enums.RarityR)
	pack := seedPack(t, conn, 100, card.ID)
	svc := newDrawService(t, conn, nil)

	_, err := svc.Draw(context.Background(), user.ID, pack.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientBalance {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if got := reloadPoints(t, conn, user.ID); got != 99 {
		t.Fatalf("balance must be untouched, got %d", got)
	}
	if n := countUserCards(t, conn, user.ID); n != 0 {
		t.Fatalf("no card may be granted, got %d", n)
	}
}

func TestDrawEmptyPack(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	user := seedUser(t, conn, 500)
	pack := seedPack(t, conn, 100)
	svc := newDrawService(t, conn, nil)

	_, err := svc.Draw(context.Background(), user.ID, pack.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeEmptyPack {
		t.Fatalf("expected empty pack error, got %v", err)
	}
	if got := reloadPoints(t, conn, user.ID); got != 500 {
		t.Fatalf("balance must be untouched, got %d", got)
	}
}

func TestDrawUnknownPack(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	user := seedUser(t, conn, 500)
	svc := newDrawService(t, conn, nil)

	_, err := svc.Draw(context.Background(), user.ID, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDrawExactBalanceThenRejected(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	user := seedUser(t, conn, 100)
	cardA := seedCard(t, conn, "alpha", enums.RarityN)
	cardB := seedCard(t, conn, "beta", enums.RaritySR)
	// alpha twice, beta once: the classic two-thirds pool
	pack := seedPack(t, conn, 100, cardA.ID, cardA.ID, cardB.ID)
	svc := newDrawService(t, conn, nil)

	result, err := svc.Draw(context.Background(), user.ID, pack.ID)
	if err != nil {
		t.Fatalf("first draw: %v", err)
	}
	if result.Card.ID != cardA.ID && result.Card.ID != cardB.ID {
		t.Fatalf("drawn card must come from the pool, got %s", result.Card.ID)
	}
	if result.Points != 0 {
		t.Fatalf("expected zero balance, got %d", result.Points)
	}

	_, err = svc.Draw(context.Background(), user.ID, pack.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientBalance {
		t.Fatalf("expected insufficient balance on second draw, got %v", err)
	}
	if n := countUserCards(t, conn, user.ID); n != 1 {
		t.Fatalf("expected exactly one owned card, got %d", n)
	}
}

func TestDrawWeightConvergence(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	const draws = 3000
	user := seedUser(t, conn, draws)
	cardA := seedCard(t, conn, "common", enums.RarityN)
	cardB := seedCard(t, conn, "rare", enums.RaritySSR)
	pack := seedPack(t, conn, 1, cardA.ID, cardA.ID, cardB.ID)
	svc := newDrawService(t, conn, nil)

	hitsA := 0
	for i := 0; i < draws; i++ {
		result, err := svc.Draw(context.Background(), user.ID, pack.ID)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if result.Card.ID == cardA.ID {
			hitsA++
		}
	}

	ratio := float64(hitsA) / float64(draws)
	if math.Abs(ratio-2.0/3.0) > 0.05 {
		t.Fatalf("expected ratio near 2/3, got %.3f", ratio)
	}
	if got := reloadPoints(t, conn, user.ID); got != 0 {
		t.Fatalf("expected exhausted balance, got %d", got)
	}
	if n := countUserCards(t, conn, user.ID); n != draws {
		t.Fatalf("expected %d owned cards, got %d", draws, n)
	}
}

func TestDrawAfterPoolReplaceOnlyReturnsNewPool(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	user := seedUser(t, conn, 50)
	cardA := seedCard(t, conn, "old-alpha", enums.RarityN)
	cardB := seedCard(t, conn, "old-beta", enums.RarityR)
	cardC := seedCard(t, conn, "new-gamma", enums.RaritySSR)
	pack := seedPack(t, conn, 1, cardA.ID, cardB.ID)
	svc := newDrawService(t, conn, nil)

	admin, err := catalog.NewService(db.NewFromConn(conn), catalog.NewRepository(conn))
	if err != nil {
		t.Fatalf("new catalog service: %v", err)
	}
	pool := []uuid.UUID{cardC.ID}
	if _, err := admin.UpdatePack(context.Background(), pack.ID, catalog.UpdatePackInput{CardIDs: &pool}); err != nil {
		t.Fatalf("replace pool: %v", err)
	}

	for i := 0; i < 50; i++ {
		result, err := svc.Draw(context.Background(), user.ID, pack.ID)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if result.Card.ID != cardC.ID {
			t.Fatalf("draw %d returned %s, want only the replacement card", i, result.Card.Name)
		}
	}
}
