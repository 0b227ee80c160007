package storage

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"google.golang.org/api/option"
)

// GCS reads snapshots from a Cloud Storage bucket
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS creates a reader with application default credentials and read-only scope
func NewGCS(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCS, error) {
	opts = append([]option.ClientOption{option.WithScopes(storage.ScopeReadOnly)}, opts...)
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS client")
	}

	return &GCS{client: client, bucket: bucket, prefix: prefix}, nil
}

// Read downloads gs://<bucket>/<prefix>/<key>
func (g *GCS) Read(ctx context.Context, key string) ([]byte, error) {
	objKey := objectKey(g.prefix, key)

	reader, err := g.client.Bucket(g.bucket).Object(objKey).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(model.ErrSnapshotNotFound, "GCS object does not exist",
				goerr.V("bucket", g.bucket), goerr.V("key", objKey))
		}
		return nil, goerr.Wrap(err, "failed to create reader for GCS object",
			goerr.V("bucket", g.bucket), goerr.V("key", objKey))
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read GCS object",
			goerr.V("bucket", g.bucket), goerr.V("key", objKey))
	}

	return data, nil
}

// Close closes the GCS client
func (g *GCS) Close() error {
	return g.client.Close()
}

var (
	_ interfaces.SnapshotReader = (*GCS)(nil)
	_ io.Closer                 = (*GCS)(nil)
)
