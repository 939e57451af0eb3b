package controllers

import (
	"net/http"

	"github.com/sitecms/sitecms-backend/api/responses"
	"github.com/sitecms/sitecms-backend/api/validators"
	"github.com/sitecms/sitecms-backend/internal/locations"
	"github.com/sitecms/sitecms-backend/pkg/logger"
)

func LocationList(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "location")
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

func LocationGet(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "location")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		location, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, location)
	}
}

// LocationCreate reads heading, address, phones_description, operating_hours,
// an optional google_maps_embed_url and the image.
func LocationCreate(svc locations.Service, maxImage int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "location")
			return
		}
		form, ok := parseForm(w, r, logg, maxImage)
		if !ok {
			return
		}
		input := locations.CreateInput{
			Heading:            form.Required("heading"),
			Address:            form.Required("address"),
			PhonesDescription:  form.Required("phones_description"),
			OperatingHours:     form.Required("operating_hours"),
			GoogleMapsEmbedURL: form.Nullable("google_maps_embed_url").Value,
		}
		image := form.Image(true)
		if err := form.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Image = *image

		location, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, location)
	}
}

// LocationUpdate clears google_maps_embed_url when it is sent blank.
func LocationUpdate(svc locations.Service, maxImage int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "location")
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
		input := locations.UpdateInput{
			Heading:            form.Optional("heading"),
			Address:            form.Optional("address"),
			PhonesDescription:  form.Optional("phones_description"),
			OperatingHours:     form.Optional("operating_hours"),
			GoogleMapsEmbedURL: form.Nullable("google_maps_embed_url"),
			Image:              form.Image(false),
		}
		if err := form.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		location, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, location)
	}
}

func LocationDelete(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "location")
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

func LocationServices(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "location")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		list, err := svc.ListServices(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// LocationAddServices merges a JSON array of service ids into the location's
// set and returns the resulting set. Unknown ids are skipped.
func LocationAddServices(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "location")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		var serviceIDs []int64
		if err := validators.DecodeJSONBody(r, &serviceIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.AddServices(r.Context(), id, serviceIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func LocationRemoveService(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "location")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		serviceID, ok := pathID(w, r, logg, "service_id")
		if !ok {
			return
		}
		if err := svc.RemoveService(r.Context(), id, serviceID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
