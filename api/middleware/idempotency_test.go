package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sitecms/sitecms-backend/pkg/config"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	pkgredis "github.com/sitecms/sitecms-backend/pkg/redis"
)

type fakeStore struct {
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Lookup(_ context.Context, scope, key string) ([]byte, bool, error) {
	v, ok := f.data[scope+":"+key]
	return v, ok, nil
}

func (f *fakeStore) Remember(_ context.Context, scope, key string, record []byte, _ time.Duration) (bool, error) {
	if _, ok := f.data[scope+":"+key]; ok {
		return false, nil
	}
	f.data[scope+":"+key] = record
	return true, nil
}

func createHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(w, `{"id":%d}`, *calls)
	})
}

func TestIsCollectionCreate(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodPost, "/heros/", true},
		{http.MethodPost, "/other_info", true},
		{http.MethodPost, "/locations/1/services", false},
		{http.MethodPatch, "/heros/", false},
		{http.MethodPost, "/", false},
	}
	for _, tt := range tests {
		if got := isCollectionCreate(tt.method, tt.path); got != tt.want {
			t.Fatalf("%s %s: expected %v got %v", tt.method, tt.path, tt.want, got)
		}
	}
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	store := newFakeStore()
	var calls int
	handler := Idempotency(store, time.Hour, nil)(createHandler(&calls))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/heros/", strings.NewReader(`a`))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("expected both requests to run, got %d", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored without a key")
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	var calls int
	handler := Idempotency(store, time.Hour, nil)(createHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/heros/", strings.NewReader(`payload`))
	req.Header.Set("Idempotency-Key", "abc")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", resp.Code)
	}

	replay := httptest.NewRequest(http.MethodPost, "/heros/", strings.NewReader(`payload`))
	replay.Header.Set("Idempotency-Key", "abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, replay)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected replay status 201 got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected content-type header preserved")
	}
	if rec.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay marker")
	}
	if strings.TrimSpace(rec.Body.String()) != `{"id":1}` {
		t.Fatalf("expected stored body got %s", rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
}

func TestIdempotencyDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	var calls int
	handler := Idempotency(store, time.Hour, nil)(createHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/offers/", strings.NewReader(`one`))
	req.Header.Set("Idempotency-Key", "xyz")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	replay := httptest.NewRequest(http.MethodPost, "/offers/", strings.NewReader(`two`))
	replay.Header.Set("Idempotency-Key", "xyz")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, replay)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Error.Code)
	}
}

func TestIdempotencySkipsServerErrors(t *testing.T) {
	store := newFakeStore()
	var calls int
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/heros/", strings.NewReader(`a`))
		req.Header.Set("Idempotency-Key", "retry")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("expected retry to reach handler, got %d calls", calls)
	}
}

func TestIdempotencyWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := pkgredis.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	var calls int
	handler := Idempotency(client, time.Minute, nil)(createHandler(&calls))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/promotions/", strings.NewReader(`same`))
		req.Header.Set("Idempotency-Key", "k1")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 1 {
		t.Fatalf("expected one execution, got %d", calls)
	}
	if !mr.Exists("sitecms:idempotency:POST|/promotions/:k1") {
		t.Fatalf("expected record in redis, keys=%v", mr.Keys())
	}
	if ttl := mr.TTL("sitecms:idempotency:POST|/promotions/:k1"); ttl != time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

type brokenStore struct{}

func (brokenStore) Lookup(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, fmt.Errorf("connection refused")
}

func (brokenStore) Remember(context.Context, string, string, []byte, time.Duration) (bool, error) {
	return false, fmt.Errorf("connection refused")
}

func TestIdempotencyLookupFailure(t *testing.T) {
	var calls int
	handler := Idempotency(brokenStore{}, time.Minute, nil)(createHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/offers", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "k1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run when the store is unreachable, got %d calls", calls)
	}
}

func multipartPayload(t *testing.T, heading string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("heading", heading); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := mw.WriteField("role", "Owner"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	fw, err := mw.CreateFormFile("image", "face.jpg")
	if err != nil {
		t.Fatalf("create file part: %v", err)
	}
	_, _ = fw.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10})
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func TestIdempotencyMultipartRetryWithNewBoundary(t *testing.T) {
	store := newFakeStore()
	var calls int
	handler := Idempotency(store, time.Hour, nil)(createHandler(&calls))

	send := func(heading string) *httptest.ResponseRecorder {
		body, contentType := multipartPayload(t, heading)
		req := httptest.NewRequest(http.MethodPost, "/team_members/", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Idempotency-Key", "retry-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if first := send("Jane"); first.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", first.Code)
	}
	retry := send("Jane")
	if retry.Code != http.StatusCreated {
		t.Fatalf("expected retry 201 got %d: %s", retry.Code, retry.Body.String())
	}
	if retry.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay marker")
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}

	if changed := send("John"); changed.Code != http.StatusConflict {
		t.Fatalf("expected 409 for changed field got %d", changed.Code)
	}
}

func TestFingerprintIgnoresBoundary(t *testing.T) {
	first, firstType := multipartPayload(t, "Jane")
	second, secondType := multipartPayload(t, "Jane")
	if firstType == secondType {
		t.Fatalf("expected distinct boundaries")
	}
	if fingerprintOf(firstType, first.Bytes()) != fingerprintOf(secondType, second.Bytes()) {
		t.Fatalf("expected equal fingerprints across boundaries")
	}
	other, otherType := multipartPayload(t, "John")
	if fingerprintOf(firstType, first.Bytes()) == fingerprintOf(otherType, other.Bytes()) {
		t.Fatalf("expected field change to alter fingerprint")
	}
	if fingerprintOf("multipart/form-data", []byte("junk")) != fingerprintOf("multipart/form-data", []byte("junk")) {
		t.Fatalf("expected stable raw fallback")
	}
}

func TestIdempotencyRejectsOversizedBody(t *testing.T) {
	prev := maxReplayBodyBytes
	maxReplayBodyBytes = 16
	t.Cleanup(func() { maxReplayBodyBytes = prev })

	var calls int
	handler := Idempotency(newFakeStore(), time.Hour, nil)(createHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/offers/", strings.NewReader(strings.Repeat("x", 64)))
	req.Header.Set("Idempotency-Key", "big")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run on a truncated body")
	}
	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeValidation) || payload.Error.Message != "request body too large" {
		t.Fatalf("unexpected error %+v", payload.Error)
	}
	if payload.Error.Details["limit_bytes"] != float64(16) {
		t.Fatalf("expected limit_bytes detail, got %v", payload.Error.Details)
	}
}
