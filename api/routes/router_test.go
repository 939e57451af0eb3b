package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitecms/sitecms-backend/api/controllers"
	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/internal/dbtest"
	"github.com/sitecms/sitecms-backend/pkg/config"
	"github.com/sitecms/sitecms-backend/pkg/metrics"
	pkgredis "github.com/sitecms/sitecms-backend/pkg/redis"
	"github.com/sitecms/sitecms-backend/pkg/storage/memstore"
)

var jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00\xff\xd9")

type testServer struct {
	handler http.Handler
	store   *memstore.Store
	reg     *prometheus.Registry
}

func newTestServer(t *testing.T, idem pkgredis.IdempotencyStore) testServer {
	t.Helper()

	client := dbtest.New(t)
	store := memstore.New("assets-bucket")
	images, err := attachments.NewService(store, attachments.Config{PublicHost: "storage.googleapis.com"}, nil)
	require.NoError(t, err)

	svc, err := NewServices(client, images, nil)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	cfg := &config.Config{
		App:  config.AppConfig{Env: "test"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	handler := NewRouter(cfg, nil, svc, Options{
		MaxImageBytes: 1 << 20,
		Readiness:     map[string]controllers.Pinger{"database": client, "storage": images},
		Idempotency:   idem,
		Metrics:       metrics.NewHTTPMetrics(reg),
		Gatherer:      reg,
	})
	return testServer{handler: handler, store: store, reg: reg}
}

func (s testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func multipartBody(t *testing.T, fields map[string]string, withImage bool) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="image"; filename="welcome.jpg"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(jpegBytes)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func formRequest(t *testing.T, method, target string, fields map[string]string, withImage bool) *http.Request {
	t.Helper()
	body, contentType := multipartBody(t, fields, withImage)
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", contentType)
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), rec.Body.String())
	return out
}

type hero struct {
	ID       int64  `json:"id"`
	Heading  string `json:"heading"`
	ImageURL string `json:"image_url"`
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestHeroLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(formRequest(t, http.MethodPost, "/heros/", map[string]string{
		"heading":     "Welcome",
		"description": "Fresh coffee",
	}, true))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[hero](t, rec)
	assert.Equal(t, "Welcome", created.Heading)
	assert.True(t, strings.HasPrefix(created.ImageURL, "https://storage.googleapis.com/assets-bucket/"), created.ImageURL)
	assert.Len(t, srv.store.Keys(), 1)

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/heros/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]hero](t, rec)
	require.NotEmpty(t, list)
	assert.Equal(t, created.ID, list[0].ID)

	rec = srv.do(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/heros/%d", created.ID), nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/heros/%d", created.ID), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Hero not found", decode[apiError](t, rec).Error.Message)

	rec = srv.do(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/heros/%d", created.ID), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeroHeadingsMayRepeat(t *testing.T) {
	srv := newTestServer(t, nil)
	fields := map[string]string{"heading": "Welcome", "description": "x"}

	for i := 0; i < 2; i++ {
		rec := srv.do(formRequest(t, http.MethodPost, "/heros", fields, true))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/heros", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]hero](t, rec), 2)
}

func TestTeamMemberDuplicateHeadingConflict(t *testing.T) {
	srv := newTestServer(t, nil)
	fields := map[string]string{"heading": "Ana", "role": "Owner", "description": "x"}

	rec := srv.do(formRequest(t, http.MethodPost, "/team_members/", fields, true))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(formRequest(t, http.MethodPost, "/team_members/", fields, true))
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, "Team member with heading 'Ana' already exists.", decode[apiError](t, rec).Error.Message)

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/team_members/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestCreateRejectsNonImage(t *testing.T) {
	srv := newTestServer(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("heading", "Welcome"))
	require.NoError(t, mw.WriteField("description", "x"))
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="notes.txt"`)
	header.Set("Content-Type", "text/plain")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, _ = part.Write([]byte("hello"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/heros/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := srv.do(req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_MEDIA_TYPE", decode[apiError](t, rec).Error.Code)
	assert.Empty(t, srv.store.Keys())
}

func TestLocationServiceAssociations(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(formRequest(t, http.MethodPost, "/locations/", map[string]string{
		"heading":            "Downtown",
		"address":            "1 Main St",
		"phones_description": "555-0100",
		"operating_hours":    "9-5",
	}, true))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	location := decode[struct {
		ID int64 `json:"id"`
	}](t, rec)

	var serviceIDs []int64
	for _, heading := range []string{"Repairs", "Installs"} {
		rec = srv.do(formRequest(t, http.MethodPost, "/services/", map[string]string{
			"heading":     heading,
			"description": "x",
			"featured":    "true",
		}, true))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		serviceIDs = append(serviceIDs, decode[struct {
			ID int64 `json:"id"`
		}](t, rec).ID)
	}

	path := fmt.Sprintf("/locations/%d/services", location.ID)
	rec = srv.do(jsonRequest(http.MethodPatch, path, fmt.Sprintf("[%d]", serviceIDs[0])))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(jsonRequest(http.MethodPatch, path, fmt.Sprintf("[%d, 9999]", serviceIDs[1])))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = srv.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/services/%d/locations", serviceIDs[0]), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = srv.do(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("%s/%d", path, serviceIDs[0]), nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = srv.do(jsonRequest(http.MethodPatch, "/locations/424242/services", "[1]"))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/services/?featured=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)
}

func TestOtherInfoNullClearing(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(jsonRequest(http.MethodPost, "/other_info/", `{"name":"tiktok","value":"x"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(jsonRequest(http.MethodPut, "/other_info/tiktok", `{}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	kept := decode[map[string]any](t, rec)
	assert.Equal(t, "x", kept["value"])

	rec = srv.do(jsonRequest(http.MethodPut, "/other_info/tiktok", `{"value": null}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cleared := decode[map[string]any](t, rec)
	assert.Nil(t, cleared["value"])

	rec = srv.do(httptest.NewRequest(http.MethodDelete, "/other_info/tiktok", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(httptest.NewRequest(http.MethodGet, "/other_info/tiktok", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImageRetrieval(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(formRequest(t, http.MethodPost, "/offers/", map[string]string{"heading": "Deal", "description": "x"}, true))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	imageURL := decode[hero](t, rec).ImageURL
	fileID := imageURL[strings.LastIndex(imageURL, "/")+1:]

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/images/"+fileID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, jpegBytes, rec.Body.Bytes())
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/images/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIdempotentCreateReplays(t *testing.T) {
	srv := newTestServer(t, newMemoryIdempotency(t))
	body, contentType := multipartBody(t, map[string]string{"heading": "Once", "description": "x"}, true)
	payload, err := io.ReadAll(body)
	require.NoError(t, err)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/team_members/", bytes.NewReader(payload))
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Idempotency-Key", "member-1")
		return srv.do(req)
	}

	first := send()
	require.Equal(t, http.StatusUnprocessableEntity, first.Code, "role is required")

	body, contentType = multipartBody(t, map[string]string{"heading": "Once", "role": "Owner", "description": "x"}, true)
	payload, err = io.ReadAll(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/team_members/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Idempotency-Key", "member-2")
	created := srv.do(req)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/team_members/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Idempotency-Key", "member-2")
	replayed := srv.do(req)
	require.Equal(t, http.StatusCreated, replayed.Code)
	assert.Equal(t, "true", replayed.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, created.Body.String(), replayed.Body.String())

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/team_members/", nil))
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestIdempotentMultipartRetryWithFreshBoundary(t *testing.T) {
	srv := newTestServer(t, newMemoryIdempotency(t))
	fields := map[string]string{"heading": "Retry", "role": "Owner", "description": "x"}

	send := func() *httptest.ResponseRecorder {
		req := formRequest(t, http.MethodPost, "/team_members/", fields, true)
		req.Header.Set("Idempotency-Key", "retry-1")
		return srv.do(req)
	}

	first := send()
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	retry := send()
	require.Equal(t, http.StatusCreated, retry.Code, retry.Body.String())
	assert.Equal(t, "true", retry.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, first.Body.String(), retry.Body.String())

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/team_members/", nil))
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func newMemoryIdempotency(t *testing.T) *pkgredis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := pkgredis.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sitecms_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/health/ready"`)
}
