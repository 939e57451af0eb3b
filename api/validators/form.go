package validators

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sitecms/sitecms-backend/internal/attachments"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	"github.com/sitecms/sitecms-backend/pkg/types"
)

const (
	// ImageField is the multipart part carrying the uploaded file.
	ImageField = "image"

	formMemory  = 1 << 20
	formOverrun = 1 << 20
)

// Form reads a multipart request field by field and gathers every problem
// into one validation error.
//
//	absent field                   -> unset
//	blank value, nullable field    -> explicit null
//	blank value, required field    -> validation error
type Form struct {
	r        *http.Request
	maxImage int64
	problems map[string]string
}

// ParseMultipartForm parses r as multipart/form-data. The body is capped at
// the image limit plus room for the text fields.
func ParseMultipartForm(w http.ResponseWriter, r *http.Request, maxImage int64) (*Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImage+formOverrun)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "request body too large").
				WithDetails(map[string]any{"limit_bytes": tooLarge.Limit})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form").
			WithDetails(map[string]any{"error": err.Error()})
	}
	return &Form{r: r, maxImage: maxImage, problems: map[string]string{}}, nil
}

func (f *Form) value(name string) (string, bool) {
	values, ok := f.r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Required reads a mandatory text field.
func (f *Form) Required(name string) types.CleanString {
	raw, ok := f.value(name)
	if !ok {
		f.problems[name] = "is required"
		return ""
	}
	clean, err := types.NewCleanString(raw)
	if err != nil {
		f.problems[name] = "cannot be blank"
		return ""
	}
	return clean
}

// Optional reads a non-nullable text field for a partial update.
func (f *Form) Optional(name string) *types.CleanString {
	raw, ok := f.value(name)
	if !ok {
		return nil
	}
	clean, err := types.NewCleanString(raw)
	if err != nil {
		f.problems[name] = "cannot be blank"
		return nil
	}
	return &clean
}

// Nullable reads a text field that may be cleared with a blank value.
func (f *Form) Nullable(name string) types.Nullable[types.CleanString] {
	raw, ok := f.value(name)
	if !ok {
		return types.Nullable[types.CleanString]{}
	}
	clean, err := types.NewCleanString(raw)
	if err != nil {
		return types.Null[types.CleanString]()
	}
	return types.Some(clean)
}

// Bool reads an optional boolean field.
func (f *Form) Bool(name string) *bool {
	raw, ok := f.value(name)
	if !ok {
		return nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		f.problems[name] = "must be a boolean"
		return nil
	}
	return &value
}

// NullableDate reads a YYYY-MM-DD field that may be cleared with a blank value.
func (f *Form) NullableDate(name string) types.Nullable[types.Date] {
	raw, ok := f.value(name)
	if !ok {
		return types.Nullable[types.Date]{}
	}
	if strings.TrimSpace(raw) == "" {
		return types.Null[types.Date]()
	}
	date, err := types.ParseDate(raw)
	if err != nil {
		f.problems[name] = "must be a date (YYYY-MM-DD)"
		return types.Nullable[types.Date]{}
	}
	return types.Some(date)
}

// Image reads the uploaded file. A missing file is recorded as a problem when
// required and returns nil otherwise.
func (f *Form) Image(required bool) *attachments.Upload {
	file, header, err := f.r.FormFile(ImageField)
	if err != nil {
		if required {
			f.problems[ImageField] = "is required"
		}
		return nil
	}
	defer file.Close()

	if header.Size > f.maxImage {
		f.problems[ImageField] = "file is too large"
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(file, f.maxImage+1))
	if err != nil {
		f.problems[ImageField] = "could not be read"
		return nil
	}
	if int64(len(data)) > f.maxImage {
		f.problems[ImageField] = "file is too large"
		return nil
	}
	return &attachments.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
}

// Err returns the gathered problems as one validation error, or nil.
func (f *Form) Err() error {
	if len(f.problems) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(f.problems)
}
