package storage

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/interfaces"
	"github.com/seamark-lab/quartermaster/pkg/utils/safe"
)

// GCS is the production document store backed by Google Cloud Storage
type GCS struct {
	client *storage.Client
}

var _ interfaces.StorageClient = &GCS{}

func NewGCS(ctx context.Context) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}
	return &GCS{client: client}, nil
}

// Put writes the object, overwriting any existing content at the path
func (s *GCS) Put(ctx context.Context, bucket, path, contentType string, data []byte) error {
	w := s.client.Bucket(bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object",
			goerr.V("bucket", bucket), goerr.V("path", path))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize object",
			goerr.V("bucket", bucket), goerr.V("path", path))
	}
	return nil
}

// Get reads the whole object
func (s *GCS) Get(ctx context.Context, bucket, path string) ([]byte, error) {
	r, err := s.client.Bucket(bucket).Object(path).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open object",
			goerr.V("bucket", bucket), goerr.V("path", path))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object",
			goerr.V("bucket", bucket), goerr.V("path", path))
	}
	return data, nil
}

func (s *GCS) Close() error {
	return s.client.Close()
}
