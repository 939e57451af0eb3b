package controllers

import (
	"net/http"

	"github.com/sitecms/sitecms-backend/api/responses"
	"github.com/sitecms/sitecms-backend/api/validators"
	"github.com/sitecms/sitecms-backend/internal/locations"
	"github.com/sitecms/sitecms-backend/internal/services"
	"github.com/sitecms/sitecms-backend/pkg/logger"
)

// ServiceList returns services newest first, optionally filtered by ?featured=.
func ServiceList(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "service")
			return
		}
		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), services.ListFilter{Featured: featured})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ServiceGet(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "service")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		service, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, service)
	}
}

// ServiceCreate reads heading, description, featured (default false) and image.
func ServiceCreate(svc services.Service, maxImage int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "service")
			return
		}
		form, ok := parseForm(w, r, logg, maxImage)
		if !ok {
			return
		}
		input := services.CreateInput{
			Heading:     form.Required("heading"),
			Description: form.Required("description"),
		}
		if featured := form.Bool("featured"); featured != nil {
			input.Featured = *featured
		}
		image := form.Image(true)
		if err := form.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Image = *image

		service, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, service)
	}
}

func ServiceUpdate(svc services.Service, maxImage int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "service")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		form, ok := parseForm(w, r, logg, maxImage)
		if !ok {
			return
		}
		input := services.UpdateInput{
			Heading:     form.Optional("heading"),
			Description: form.Optional("description"),
			Featured:    form.Bool("featured"),
			Image:       form.Image(false),
		}
		if err := form.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		service, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, service)
	}
}

func ServiceDelete(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "service")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// ServiceLocations lists the locations offering a service.
func ServiceLocations(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "location")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		list, err := svc.ListForService(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
