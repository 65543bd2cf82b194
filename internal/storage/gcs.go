package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// GCS serves blobs out of one Cloud Storage bucket.
type GCS struct {
	bucket *gcs.BucketHandle
}

// NewGCS opens a client for the named bucket using ambient credentials.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creando cliente de storage: %w", err)
	}
	return &GCS{bucket: client.Bucket(bucket)}, nil
}

// Download reads the whole object and reports its generation so the caller
// can do a compare-and-swap on Upload.
func (s *GCS) Download(ctx context.Context, key string) ([]byte, int64, error) {
	r, err := s.bucket.Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, 0, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, 0, fmt.Errorf("descargando %s: %w", key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("leyendo %s: %w", key, err)
	}
	return data, r.Attrs.Generation, nil
}

// Upload overwrites the object, optionally guarded by a generation match.
func (s *GCS) Upload(ctx context.Context, key string, data []byte, ifGeneration int64) error {
	obj := s.bucket.Object(key)
	if ifGeneration == 0 {
		obj = obj.If(gcs.Conditions{DoesNotExist: true})
	} else if ifGeneration > 0 {
		obj = obj.If(gcs.Conditions{GenerationMatch: ifGeneration})
	}

	w := obj.NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return uploadErr(key, err)
	}
	if err := w.Close(); err != nil {
		return uploadErr(key, err)
	}
	return nil
}

func uploadErr(key string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("%s: %w", key, ErrPreconditionFailed)
	}
	return fmt.Errorf("subiendo %s: %w", key, err)
}
