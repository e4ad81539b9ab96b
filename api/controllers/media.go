package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/maisonlumiere/boutique-backend/api/responses"
	"github.com/maisonlumiere/boutique-backend/api/validators"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
	"github.com/maisonlumiere/boutique-backend/pkg/logger"
	"github.com/maisonlumiere/boutique-backend/pkg/storage/cloudinary"
)

const defaultUploadFolder = "boutique/media"

type signMediaRequest struct {
	Folder string `json:"folder"`
}

// MediaSign mints a short-lived signed upload credential so the admin UI can
// push files straight to the media CDN. Requires the media_signature
// capability.
func MediaSign(signer *cloudinary.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if signer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media signing is not configured"))
			return
		}

		folder := defaultUploadFolder
		if r.Body != nil && r.ContentLength != 0 {
			var payload signMediaRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if trimmed := strings.TrimSpace(payload.Folder); trimmed != "" {
				folder = trimmed
			}
		}

		credential, err := signer.UploadCredential(folder, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "could not sign upload"))
			return
		}
		responses.WriteSuccess(w, credential)
	}
}
