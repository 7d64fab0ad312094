package controllers

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sakurapacks/oripa-backend/api/responses"
	"github.com/sakurapacks/oripa-backend/api/validators"
	"github.com/sakurapacks/oripa-backend/internal/catalog"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
	"github.com/sakurapacks/oripa-backend/pkg/logger"
)

const cardImagePrefix = "cards"

type cardRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Image       string `json:"image" validate:"max=500"`
	Rarity      string `json:"rarity" validate:"required"`
}

type imageUploadRequest struct {
	FileName    string `json:"file_name" validate:"required,min=1,max=200"`
	ContentType string `json:"content_type" validate:"required"`
}

// imageSigner is the slice of the GCS client the upload presign needs.
type imageSigner interface {
	DefaultBucket() string
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	ObjectURL(bucket, object string) string
}

func cardIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "cardId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid card id")
	}
	return id, nil
}

func (c cardRequest) toInput() catalog.CardInput {
	return catalog.CardInput{
		Name:        validators.SanitizeString(c.Name, 200),
		Description: validators.SanitizeString(c.Description, 2000),
		Image:       strings.TrimSpace(c.Image),
		Rarity:      strings.TrimSpace(c.Rarity),
	}
}

// AdminListCards lists every catalog card, newest-first.
func AdminListCards(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		cards, err := svc.ListCards(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cards)
	}
}

// AdminCreateCard adds a card to the catalog.
func AdminCreateCard(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body cardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.CreateCard(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, card)
	}
}

// AdminUpdateCard replaces the card's fields wholesale.
func AdminUpdateCard(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		cardID, err := cardIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.UpdateCard(r.Context(), cardID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, card)
	}
}

// AdminDeleteCard removes a card nobody owns yet.
func AdminDeleteCard(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		cardID, err := cardIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCard(r.Context(), cardID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// AdminCardImageUpload hands back a signed PUT URL so the admin console can
// upload card art straight to the bucket.
func AdminCardImageUpload(signer imageSigner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if signer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storage unavailable"))
			return
		}

		var body imageUploadRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		name := path.Base(strings.TrimSpace(body.FileName))
		if name == "." || name == "/" || name == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid file name"))
			return
		}
		if !strings.HasPrefix(strings.ToLower(body.ContentType), "image/") {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "content type must be an image"))
			return
		}

		object := fmt.Sprintf("%s/%s_%s", cardImagePrefix, uuid.NewString(), name)
		bucket := signer.DefaultBucket()

		uploadURL, err := signer.SignedURL(bucket, object, body.ContentType, 15*time.Minute)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url"))
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"upload_url": uploadURL,
			"public_url": signer.ObjectURL(bucket, object),
			"object":     object,
		})
	}
}
