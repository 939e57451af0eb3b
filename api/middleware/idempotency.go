package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sitecms/sitecms-backend/api/responses"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	"github.com/sitecms/sitecms-backend/pkg/logger"
	pkgredis "github.com/sitecms/sitecms-backend/pkg/redis"
)

const (
	idempotencyHeader     = "Idempotency-Key"
	replayedHeader        = "Idempotent-Replayed"
	defaultIdempotencyTTL = 24 * time.Hour
)

var maxReplayBodyBytes int64 = 32 << 20

// replay is what gets stored for a completed create. Body marshals as base64.
type replay struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	Fingerprint string `json:"fingerprint"`
}

// Idempotency replays the stored response of a create (POST on a collection)
// that carries an Idempotency-Key header. Requests without the header, and
// every other route, pass through untouched. Server errors are not stored so
// the client can retry them.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if store == nil || key == "" || !isCollectionCreate(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxReplayBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "request body too large").
						WithDetails(map[string]any{"limit_bytes": tooLarge.Limit}))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			scope := r.Method + "|" + r.URL.Path
			fingerprint := fingerprintOf(r.Header.Get("Content-Type"), body)

			raw, found, err := store.Lookup(ctx, scope, key)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if found {
				var prior replay
				if err := json.Unmarshal(raw, &prior); err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
					return
				}
				if prior.Fingerprint != fingerprint {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				prior.writeTo(w)
				return
			}

			capture := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(capture, r)
			if capture.status >= http.StatusInternalServerError {
				return
			}

			payload, err := json.Marshal(replay{
				Status:      capture.status,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
				Fingerprint: fingerprint,
			})
			if err == nil {
				_, err = store.Remember(ctx, scope, key, payload, ttl)
			}
			if err != nil && logg != nil {
				logg.Error(logg.WithField(ctx, "idempotency_key", key), "idempotency.persist_failed", err)
			}
		})
	}
}

// isCollectionCreate matches POST /<resource> and POST /<resource>/.
func isCollectionCreate(method, path string) bool {
	if method != http.MethodPost {
		return false
	}
	trimmed := strings.Trim(path, "/")
	return trimmed != "" && !strings.Contains(trimmed, "/")
}

// fingerprintOf hashes the media type together with the request content.
// Multipart bodies are hashed by their parts so a fresh boundary on retry
// yields the same fingerprint. Anything unparsable falls back to raw bytes.
func fingerprintOf(contentType string, body []byte) string {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
		mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	}
	h := sha256.New()
	h.Write([]byte(mediaType))
	if mediaType == "multipart/form-data" {
		if entries, err := multipartEntries(body, params["boundary"]); err == nil {
			for _, entry := range entries {
				h.Write([]byte{0})
				h.Write([]byte(entry))
			}
			return hex.EncodeToString(h.Sum(nil))
		}
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// multipartEntries describes every part as name, filename, content type and
// content digest, sorted.
func multipartEntries(body []byte, boundary string) ([]string, error) {
	if boundary == "" {
		return nil, errors.New("multipart boundary missing")
	}
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	var entries []string
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		digest := sha256.New()
		_, err = io.Copy(digest, part)
		_ = part.Close()
		if err != nil {
			return nil, err
		}
		entries = append(entries, fmt.Sprintf("%q %q %q %x",
			part.FormName(), part.FileName(), part.Header.Get("Content-Type"), digest.Sum(nil)))
	}
	sort.Strings(entries)
	return entries, nil
}

func (p replay) writeTo(w http.ResponseWriter) {
	if p.ContentType != "" {
		w.Header().Set("Content-Type", p.ContentType)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(p.Status)
	_, _ = w.Write(p.Body)
}

type captureWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *captureWriter) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
