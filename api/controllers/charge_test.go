package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
)

type stubLedgerService struct {
	user *models.User
	err  error

	gotAmount int
}

func (s *stubLedgerService) Charge(ctx context.Context, userID uuid.UUID, amount int) (*models.User, error) {
	s.gotAmount = amount
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func TestChargePointsSuccess(t *testing.T) {
	userID := uuid.New()
	stub := &stubLedgerService{user: &models.User{ID: userID, Points: 1500}}

	rec := httptest.NewRecorder()
	ChargePoints(stub, testLogger()).ServeHTTP(rec, authedJSONRequest(t, http.MethodPost, "/api/v1/charge", `{"amount":500}`, userID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.gotAmount != 500 {
		t.Fatalf("service called with amount %d", stub.gotAmount)
	}

	var body struct {
		Data map[string]int `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data["points"] != 1500 {
		t.Fatalf("expected updated balance, got %v", body.Data)
	}
}

func TestChargePointsRejectsNonPositiveAmount(t *testing.T) {
	for _, payload := range []string{`{"amount":0}`, `{"amount":-100}`, `{}`} {
		stub := &stubLedgerService{}
		rec := httptest.NewRecorder()
		ChargePoints(stub, testLogger()).ServeHTTP(rec, authedJSONRequest(t, http.MethodPost, "/api/v1/charge", payload, uuid.New()))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, rec.Code)
		}
	}
}

func TestChargePointsUnknownUser(t *testing.T) {
	stub := &stubLedgerService{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}

	rec := httptest.NewRecorder()
	ChargePoints(stub, testLogger()).ServeHTTP(rec, authedJSONRequest(t, http.MethodPost, "/api/v1/charge", `{"amount":100}`, uuid.New()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
