package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/sitecms/sitecms-backend/pkg/config"
	"github.com/sitecms/sitecms-backend/pkg/logger"
	pkgstorage "github.com/sitecms/sitecms-backend/pkg/storage"
)

const pingTimeout = 5 * time.Second

// Client stores objects in a single GCS bucket.
type Client struct {
	client *storage.Client
	bucket string
}

var _ pkgstorage.Store = (*Client)(nil)

func NewClient(ctx context.Context, cfg config.StorageConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	client, err := storage.NewClient(ctx, clientOptions(gcp)...)
	if err != nil {
		return nil, fmt.Errorf("creating gcs client: %w", err)
	}

	c := &Client{client: client, bucket: cfg.BucketName}

	if err := c.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.BucketName), "gcs client initialized")
	}

	return c, nil
}

// clientOptions prefers inline JSON, then a credentials file, then ADC.
func clientOptions(gcp config.GCPConfig) []option.ClientOption {
	switch {
	case gcp.CredentialsJSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(gcp.CredentialsJSON))}
	case gcp.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(gcp.CredentialsFile)}
	default:
		return nil
	}
}

func (c *Client) Bucket() string {
	if c == nil {
		return ""
	}
	return c.bucket
}

// Put uploads r under key. Existing objects are never overwritten.
func (c *Client) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	w := c.client.Bucket(c.bucket).
		Object(key).
		If(storage.Conditions{DoesNotExist: true}).
		NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("writing gcs object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing gcs object %s: %w", key, mapError(err))
	}
	return nil
}

func (c *Client) Open(ctx context.Context, key string) (*pkgstorage.Object, error) {
	rc, err := c.client.Bucket(c.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &pkgstorage.Object{
		Body:        rc,
		ContentType: rc.Attrs.ContentType,
		Size:        rc.Attrs.Size,
	}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("gcs client not initialized")
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.client.Bucket(c.bucket).Attrs(pingCtx); err != nil {
		return fmt.Errorf("gcs bucket %s unreachable: %w", c.bucket, err)
	}
	return nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func mapError(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return pkgstorage.ErrNotFound
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed {
		return pkgstorage.ErrExists
	}
	return err
}
