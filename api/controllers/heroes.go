package controllers

import (
	"net/http"

	"github.com/sitecms/sitecms-backend/api/responses"
	"github.com/sitecms/sitecms-backend/internal/heroes"
	"github.com/sitecms/sitecms-backend/pkg/logger"
)

// HeroList returns every hero, newest first.
func HeroList(svc heroes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "hero")
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

func HeroGet(svc heroes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "hero")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		hero, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, hero)
	}
}

// HeroCreate accepts multipart fields heading, description and the image file.
func HeroCreate(svc heroes.Service, maxImage int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "hero")
			return
		}
		form, ok := parseForm(w, r, logg, maxImage)
		if !ok {
			return
		}
		input := heroes.CreateInput{
			Heading:     form.Required("heading"),
			Description: form.Required("description"),
		}
		image := form.Image(true)
		if err := form.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Image = *image

		hero, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, hero)
	}
}

// HeroUpdate applies the supplied multipart fields; absent fields are kept.
func HeroUpdate(svc heroes.Service, maxImage int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "hero")
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
		input := heroes.UpdateInput{
			Heading:     form.Optional("heading"),
			Description: form.Optional("description"),
			Image:       form.Image(false),
		}
		if err := form.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hero, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, hero)
	}
}

func HeroDelete(svc heroes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "hero")
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
