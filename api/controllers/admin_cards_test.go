package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sakurapacks/oripa-backend/internal/catalog"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
)

type stubCatalogService struct {
	catalog.Service

	createdCard *catalog.CardDTO
	createErr   error
	gotInput    catalog.CardInput
}

func (s *stubCatalogService) CreateCard(ctx context.Context, input catalog.CardInput) (*catalog.CardDTO, error) {
	s.gotInput = input
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createdCard, nil
}

type stubImageSigner struct {
	bucket    string
	signedURL string
	signErr   error

	gotObject      string
	gotContentType string
}

func (s *stubImageSigner) DefaultBucket() string { return s.bucket }

func (s *stubImageSigner) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	s.gotObject = object
	s.gotContentType = contentType
	if s.signErr != nil {
		return "", s.signErr
	}
	return s.signedURL, nil
}

func (s *stubImageSigner) ObjectURL(bucket, object string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + object
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAdminCreateCardTrimsAndForwards(t *testing.T) {
	stub := &stubCatalogService{
		createdCard: &catalog.CardDTO{ID: uuid.New(), Name: "Charizard"},
	}

	body := `{"name":"  Charizard  ","description":"fire","image":"cards/char.png","rarity":"SSR"}`
	rec := httptest.NewRecorder()
	AdminCreateCard(stub, testLogger()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/admin/v1/cards", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.gotInput.Name != "Charizard" {
		t.Fatalf("name must be trimmed, got %q", stub.gotInput.Name)
	}
	if stub.gotInput.Rarity != "SSR" {
		t.Fatalf("unexpected rarity %q", stub.gotInput.Rarity)
	}
}

func TestAdminCreateCardInvalidRarityPassesThrough(t *testing.T) {
	stub := &stubCatalogService{
		createErr: pkgerrors.New(pkgerrors.CodeValidation, "invalid rarity"),
	}

	body := `{"name":"Charizard","rarity":"LEGENDARY"}`
	rec := httptest.NewRecorder()
	AdminCreateCard(stub, testLogger()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/admin/v1/cards", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminCardImageUpload(t *testing.T) {
	signer := &stubImageSigner{
		bucket:    "oripa-cards",
		signedURL: "https://storage.googleapis.com/oripa-cards/signed",
	}

	body := `{"file_name":"char.png","content_type":"image/png"}`
	rec := httptest.NewRecorder()
	AdminCardImageUpload(signer, testLogger()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/admin/v1/cards/image-upload", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(signer.gotObject, "cards/") || !strings.HasSuffix(signer.gotObject, "_char.png") {
		t.Fatalf("unexpected object key %q", signer.gotObject)
	}
	if signer.gotContentType != "image/png" {
		t.Fatalf("unexpected content type %q", signer.gotContentType)
	}

	var resp struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data["upload_url"] != signer.signedURL {
		t.Fatalf("unexpected upload url %q", resp.Data["upload_url"])
	}
	if !strings.Contains(resp.Data["public_url"], "oripa-cards") {
		t.Fatalf("unexpected public url %q", resp.Data["public_url"])
	}
}

func TestAdminCardImageUploadRejectsNonImage(t *testing.T) {
	signer := &stubImageSigner{bucket: "oripa-cards"}

	body := `{"file_name":"payload.exe","content_type":"application/octet-stream"}`
	rec := httptest.NewRecorder()
	AdminCardImageUpload(signer, testLogger()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/admin/v1/cards/image-upload", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminCardImageUploadStripsPathTraversal(t *testing.T) {
	signer := &stubImageSigner{
		bucket:    "oripa-cards",
		signedURL: "https://storage.googleapis.com/oripa-cards/signed",
	}

	body := `{"file_name":"../../etc/passwd.png","content_type":"image/png"}`
	rec := httptest.NewRecorder()
	AdminCardImageUpload(signer, testLogger()).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/admin/v1/cards/image-upload", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(signer.gotObject, "..") {
		t.Fatalf("object key must not contain traversal: %q", signer.gotObject)
	}
	if !strings.HasSuffix(signer.gotObject, "_passwd.png") {
		t.Fatalf("expected base name only, got %q", signer.gotObject)
	}
}
