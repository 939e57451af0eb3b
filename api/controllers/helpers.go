package controllers

import (
	"net/http"

	"github.com/sitecms/sitecms-backend/api/responses"
	"github.com/sitecms/sitecms-backend/api/validators"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	"github.com/sitecms/sitecms-backend/pkg/logger"
)

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}

// pathID parses {key}; on failure the error response is already written.
func pathID(w http.ResponseWriter, r *http.Request, logg *logger.Logger, key string) (int64, bool) {
	id, err := validators.PathID(r, key)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return 0, false
	}
	return id, true
}

// parseForm opens a multipart form; on failure the error response is already written.
func parseForm(w http.ResponseWriter, r *http.Request, logg *logger.Logger, maxImage int64) (*validators.Form, bool) {
	form, err := validators.ParseMultipartForm(w, r, maxImage)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return form, true
}
