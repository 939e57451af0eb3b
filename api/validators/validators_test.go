package validators

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	"github.com/sitecms/sitecms-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type part struct {
	name, value string
}

func multipartRequest(t *testing.T, fields []part, image []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f.name, f.value))
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="pic.png"`)
		h.Set("Content-Type", "image/png")
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	d, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	return d
}

func TestFormCreateFields(t *testing.T) {
	req := multipartRequest(t, []part{{"heading", "  Welcome "}, {"description", "Hi"}}, []byte("png-bytes"))
	form, err := ParseMultipartForm(httptest.NewRecorder(), req, 1024)
	require.NoError(t, err)

	assert.Equal(t, types.CleanString("Welcome"), form.Required("heading"))
	assert.Equal(t, types.CleanString("Hi"), form.Required("description"))
	img := form.Image(true)
	require.NotNil(t, img)
	assert.Equal(t, "pic.png", img.Filename)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, []byte("png-bytes"), img.Data)
	assert.NoError(t, form.Err())
}

func TestFormCollectsProblems(t *testing.T) {
	req := multipartRequest(t, []part{{"heading", "   "}}, nil)
	form, err := ParseMultipartForm(httptest.NewRecorder(), req, 1024)
	require.NoError(t, err)

	form.Required("heading")
	form.Required("description")
	form.Image(true)

	d := details(t, form.Err())
	assert.Equal(t, "cannot be blank", d["heading"])
	assert.Equal(t, "is required", d["description"])
	assert.Equal(t, "is required", d["image"])
}

func TestFormPartialUpdateSemantics(t *testing.T) {
	req := multipartRequest(t, []part{
		{"heading", "New"},
		{"google_maps_embed_url", ""},
		{"expire", ""},
		{"featured", "true"},
	}, nil)
	form, err := ParseMultipartForm(httptest.NewRecorder(), req, 1024)
	require.NoError(t, err)

	heading := form.Optional("heading")
	require.NotNil(t, heading)
	assert.Equal(t, "New", heading.String())
	assert.Nil(t, form.Optional("description"))

	embed := form.Nullable("google_maps_embed_url")
	assert.True(t, embed.IsNull())
	assert.False(t, form.Nullable("absent").Set)

	assert.True(t, form.NullableDate("expire").IsNull())
	assert.False(t, form.NullableDate("missing").Set)

	featured := form.Bool("featured")
	require.NotNil(t, featured)
	assert.True(t, *featured)

	assert.Nil(t, form.Image(false))
	assert.NoError(t, form.Err())
}

func TestFormBlankNonNullableIsRejected(t *testing.T) {
	req := multipartRequest(t, []part{{"heading", " "}, {"expire", "31/12/2026"}, {"featured", "maybe"}}, nil)
	form, err := ParseMultipartForm(httptest.NewRecorder(), req, 1024)
	require.NoError(t, err)

	assert.Nil(t, form.Optional("heading"))
	form.NullableDate("expire")
	form.Bool("featured")

	d := details(t, form.Err())
	assert.Equal(t, "cannot be blank", d["heading"])
	assert.Contains(t, d["expire"], "YYYY-MM-DD")
	assert.Equal(t, "must be a boolean", d["featured"])
}

func TestFormImageTooLarge(t *testing.T) {
	req := multipartRequest(t, nil, bytes.Repeat([]byte("a"), 64))
	form, err := ParseMultipartForm(httptest.NewRecorder(), req, 16)
	require.NoError(t, err)

	assert.Nil(t, form.Image(true))
	assert.Equal(t, "file is too large", details(t, form.Err())["image"])
}

func TestParseMultipartFormRejectsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	_, err := ParseMultipartForm(httptest.NewRecorder(), req, 1024)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

type infoBody struct {
	Name  string  `json:"name" validate:"required"`
	Value *string `json:"value"`
}

func TestDecodeJSONBody(t *testing.T) {
	var body infoBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"tiktok","value":"@shop"}`))
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.Equal(t, "tiktok", body.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":"x"}`))
	d := details(t, DecodeJSONBody(req, &infoBody{}))
	assert.Equal(t, "is required", d["name"])

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &infoBody{}), pkgerrors.CodeValidation))
}

func TestDecodeJSONBodySlice(t *testing.T) {
	var ids []int64
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`[1, 2, 3]`))
	require.NoError(t, DecodeJSONBody(req, &ids))
	assert.Equal(t, []int64{1, 2, 3}, ids)

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`["a"]`))
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &ids), pkgerrors.CodeValidation))
}

func TestQueryAndPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/services/?featured=true", nil)
	featured, err := ParseQueryBool(req, "featured")
	require.NoError(t, err)
	require.NotNil(t, featured)
	assert.True(t, *featured)

	req = httptest.NewRequest(http.MethodGet, "/services/", nil)
	featured, err = ParseQueryBool(req, "featured")
	require.NoError(t, err)
	assert.Nil(t, featured)

	req = httptest.NewRequest(http.MethodGet, "/services/?featured=sometimes", nil)
	_, err = ParseQueryBool(req, "featured")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	rc := chi.NewRouteContext()
	rc.URLParams.Add("id", "42")
	req = httptest.NewRequest(http.MethodGet, "/heros/42", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	id, err := PathID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	rc.URLParams = chi.RouteParams{}
	rc.URLParams.Add("id", "abc")
	_, err = PathID(req, "id")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
