package attachments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	"github.com/sitecms/sitecms-backend/pkg/logger"
	"github.com/sitecms/sitecms-backend/pkg/storage"
	"github.com/sitecms/sitecms-backend/pkg/types"
)

const (
	// DefaultPublicHost serves public GCS objects.
	DefaultPublicHost = "storage.googleapis.com"

	defaultMaxUploadBytes = 10 * 1024 * 1024
)

// Upload is an image received from a client, fully buffered.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Config holds the attachment settings.
type Config struct {
	PublicHost     string
	MaxUploadBytes int64
}

// Attacher is the slice of Service used by resource services.
type Attacher interface {
	Attach(ctx context.Context, u Upload) (types.Image, error)
	Orphaned(ctx context.Context, old types.Image)
	PublicURL(img types.Image) string
}

var _ Attacher = (*Service)(nil)

// Service stores image bytes and derives their public URLs.
type Service struct {
	store      storage.Store
	logg       *logger.Logger
	publicHost string
	maxBytes   int64
	newID      func() string
	now        func() time.Time
}

// NewService wires an attachment service over store.
func NewService(store storage.Store, cfg Config, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if store.Bucket() == "" {
		return nil, fmt.Errorf("bucket name required")
	}
	host := strings.TrimSpace(cfg.PublicHost)
	if host == "" {
		host = DefaultPublicHost
	}
	maxBytes := cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &Service{
		store:      store,
		logg:       logg,
		publicHost: host,
		maxBytes:   maxBytes,
		newID:      newFileID,
		now:        time.Now,
	}, nil
}

func newFileID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// MaxUploadBytes is the largest accepted payload.
func (s *Service) MaxUploadBytes() int64 {
	return s.maxBytes
}

// Validate checks size and media type before anything is written. Both the
// declared type and the sniffed content must be an allowed image type.
func (s *Service) Validate(u Upload) error {
	if len(u.Data) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "image is empty").
			WithDetails(map[string]string{"image": "file is empty"})
	}
	if int64(len(u.Data)) > s.maxBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, "image too large").
			WithDetails(map[string]any{"image": fmt.Sprintf("file exceeds %d bytes", s.maxBytes)})
	}

	declared, err := parseDeclaredType(u.ContentType)
	if err != nil || !isAllowed(declared) {
		return invalidMediaType(u.ContentType)
	}

	if sniffed := sniffType(u.Data); !isAllowed(sniffed) {
		return invalidMediaType(sniffed)
	}
	return nil
}

func invalidMediaType(got string) error {
	return pkgerrors.New(
		pkgerrors.CodeInvalidMediaType,
		fmt.Sprintf("image must be %s", allowedDescription()),
	).WithDetails(map[string]any{"content_type": got, "allowed": AllowedTypes()})
}

// Attach validates and stores u under a new opaque id. A storage failure is
// a dependency error so the caller's transaction rolls back.
func (s *Service) Attach(ctx context.Context, u Upload) (types.Image, error) {
	if err := s.Validate(u); err != nil {
		return types.Image{}, err
	}

	declared, _ := parseDeclaredType(u.ContentType)
	img := types.Image{
		FileID:      s.newID(),
		Filename:    path.Base(strings.TrimSpace(u.Filename)),
		ContentType: declared,
		Size:        int64(len(u.Data)),
		UploadedAt:  s.now().UTC(),
	}

	if err := s.store.Put(ctx, img.FileID, img.ContentType, bytes.NewReader(u.Data)); err != nil {
		return types.Image{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to store image")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"file_id":      img.FileID,
			"content_type": img.ContentType,
			"size":         img.Size,
		}), "attachment.stored")
	}
	return img, nil
}

// Orphaned records stored bytes that no row references any more, after a
// replacement, a delete or a rolled back create. Nothing is deleted.
func (s *Service) Orphaned(ctx context.Context, old types.Image) {
	if s.logg == nil || old.IsZero() {
		return
	}
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"file_id": old.FileID,
		"bucket":  s.store.Bucket(),
	}), "attachment.orphaned")
}

// PublicURL derives the image's public address.
func (s *Service) PublicURL(img types.Image) string {
	if img.IsZero() {
		return ""
	}
	return PublicURL(s.publicHost, s.store.Bucket(), img.FileID)
}

// PublicURL builds https://<host>/<bucket>/<file_id>.
func PublicURL(host, bucket, fileID string) string {
	u := url.URL{
		Scheme: "https",
		Host:   host,
		Path:   "/" + bucket + "/" + fileID,
	}
	return u.String()
}

// Open streams the stored bytes for fileID.
func (s *Service) Open(ctx context.Context, fileID string) (*storage.Object, error) {
	obj, err := s.store.Open(ctx, fileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, pkgerrors.NotFound("Image")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to read image")
	}
	return obj, nil
}

// Ping checks the object store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
