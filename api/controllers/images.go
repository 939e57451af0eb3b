package controllers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sitecms/sitecms-backend/api/responses"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	"github.com/sitecms/sitecms-backend/pkg/logger"
	"github.com/sitecms/sitecms-backend/pkg/storage"
)

// ImageOpener retrieves stored image bytes by file id.
type ImageOpener interface {
	Open(ctx context.Context, fileID string) (*storage.Object, error)
}

// ImageGet streams the bytes stored under {file_id}. Stored objects are
// immutable, so responses may be cached indefinitely.
func ImageGet(images ImageOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if images == nil {
			unavailable(w, r, logg, "image")
			return
		}
		fileID := strings.TrimSpace(chi.URLParam(r, "file_id"))
		if fileID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.NotFound("Image"))
			return
		}

		obj, err := images.Open(r.Context(), fileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer obj.Body.Close()

		contentType := obj.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		if obj.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.WriteHeader(http.StatusOK)

		if _, err := io.Copy(w, obj.Body); err != nil && logg != nil {
			logg.Warn(logg.WithField(r.Context(), "file_id", fileID), "image.stream_interrupted")
		}
	}
}
