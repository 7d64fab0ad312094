package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sakurapacks/oripa-backend/internal/catalog"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
)

type stubPackCatalog struct {
	catalog.Service

	packs   []catalog.PackDTO
	pack    *catalog.PackDTO
	getErr  error
	listErr error
}

func (s *stubPackCatalog) ListPacks(ctx context.Context) ([]catalog.PackDTO, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.packs, nil
}

func (s *stubPackCatalog) GetPack(ctx context.Context, packID uuid.UUID) (*catalog.PackDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.pack, nil
}

func TestPublicListPacks(t *testing.T) {
	stub := &stubPackCatalog{packs: []catalog.PackDTO{
		{ID: uuid.New(), Name: "Starter", Price: 100},
		{ID: uuid.New(), Name: "Premium", Price: 500},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/packs", nil)
	rec := httptest.NewRecorder()
	PublicListPacks(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data []catalog.PackDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 2 || body.Data[0].Name != "Starter" {
		t.Fatalf("unexpected payload: %+v", body.Data)
	}
}

func TestPublicGetPack(t *testing.T) {
	packID := uuid.New()
	stub := &stubPackCatalog{pack: &catalog.PackDTO{ID: packID, Name: "Starter", Price: 100}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/packs/"+packID.String(), nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("packId", packID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	PublicGetPack(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPublicGetPackNotFound(t *testing.T) {
	stub := &stubPackCatalog{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "pack not found")}

	packID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/packs/"+packID, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("packId", packID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	PublicGetPack(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
