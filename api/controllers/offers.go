package controllers

import (
	"net/http"

	"github.com/sitecms/sitecms-backend/api/responses"
	"github.com/sitecms/sitecms-backend/internal/offers"
	"github.com/sitecms/sitecms-backend/pkg/logger"
)

func OfferList(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "offer")
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

func OfferGet(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "offer")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		offer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

func OfferCreate(svc offers.Service, maxImage int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "offer")
			return
		}
		form, ok := parseForm(w, r, logg, maxImage)
		if !ok {
			return
		}
		input := offers.CreateInput{
			Heading:     form.Required("heading"),
			Description: form.Required("description"),
		}
		image := form.Image(true)
		if err := form.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Image = *image

		offer, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, offer)
	}
}

func OfferUpdate(svc offers.Service, maxImage int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "offer")
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
		input := offers.UpdateInput{
			Heading:     form.Optional("heading"),
			Description: form.Optional("description"),
			Image:       form.Image(false),
		}
		if err := form.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

func OfferDelete(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "offer")
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
