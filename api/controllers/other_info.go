package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sitecms/sitecms-backend/api/responses"
	"github.com/sitecms/sitecms-backend/api/validators"
	"github.com/sitecms/sitecms-backend/internal/otherinfo"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	"github.com/sitecms/sitecms-backend/pkg/logger"
)

func infoName(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]string{"name": "cannot be blank"}))
		return "", false
	}
	return name, true
}

func OtherInfoList(svc otherinfo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "information")
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OtherInfoGet(svc otherinfo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "information")
			return
		}
		name, ok := infoName(w, r, logg)
		if !ok {
			return
		}
		info, err := svc.Get(r.Context(), name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}

// OtherInfoCreate accepts {"name": "...", "value": "..."}.
func OtherInfoCreate(svc otherinfo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "information")
			return
		}
		var input otherinfo.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		info, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, info)
	}
}

// OtherInfoUpdate distinguishes an omitted value (kept) from "value": null (cleared).
func OtherInfoUpdate(svc otherinfo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "information")
			return
		}
		name, ok := infoName(w, r, logg)
		if !ok {
			return
		}
		var input otherinfo.UpdateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		info, err := svc.Update(r.Context(), name, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}

func OtherInfoDelete(svc otherinfo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "information")
			return
		}
		name, ok := infoName(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), name); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
