package controllers

import (
	"net/http"

	"github.com/sitecms/sitecms-backend/api/responses"
	"github.com/sitecms/sitecms-backend/internal/promotions"
	"github.com/sitecms/sitecms-backend/pkg/logger"
)

func PromotionList(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "promotion")
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

func PromotionGet(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "promotion")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		promotion, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promotion)
	}
}

// PromotionCreate reads heading, description, an optional expire date
// (YYYY-MM-DD) and the image.
func PromotionCreate(svc promotions.Service, maxImage int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "promotion")
			return
		}
		form, ok := parseForm(w, r, logg, maxImage)
		if !ok {
			return
		}
		input := promotions.CreateInput{
			Heading:     form.Required("heading"),
			Description: form.Required("description"),
			Expire:      form.NullableDate("expire").Value,
		}
		image := form.Image(true)
		if err := form.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Image = *image

		promotion, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, promotion)
	}
}

// PromotionUpdate clears expire when the field is sent blank.
func PromotionUpdate(svc promotions.Service, maxImage int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "promotion")
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
		input := promotions.UpdateInput{
			Heading:     form.Optional("heading"),
			Description: form.Optional("description"),
			Expire:      form.NullableDate("expire"),
			Image:       form.Image(false),
		}
		if err := form.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promotion, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promotion)
	}
}

func PromotionDelete(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "promotion")
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
