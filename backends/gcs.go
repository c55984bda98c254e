package backends

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCS implements Backend using Google Cloud Storage.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
	ctx    context.Context
}

// NewGCS creates a new GCS-based publication backend.
// bucket is the GCS bucket name, prefix an optional object name prefix.
// credentialsFile may be empty to use application default credentials.
func NewGCS(bucket, prefix, credentialsFile string) (*GCS, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	// Test bucket access
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to access GCS bucket %s: %w", bucket, err)
	}

	return &GCS{
		client: client,
		bucket: bucket,
		prefix: prefix,
		ctx:    ctx,
	}, nil
}

// Put uploads an artifact to GCS, overwriting any existing object.
func (g *GCS) Put(key string, body io.Reader, bodySize int64) error {
	w := g.client.Bucket(g.bucket).Object(g.prefix + key).NewWriter(g.ctx)
	w.ObjectAttrs.ContentType = contentType(key)
	w.ObjectAttrs.ContentEncoding = contentEncoding(key)
	w.ObjectAttrs.Metadata = map[string]string{
		"size": strconv.FormatInt(bodySize, 10),
	}

	n, err := io.Copy(w, body)
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to upload %s to GCS: only uploaded %d bytes: %w", key, n, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS upload of %s: %w", key, err)
	}
	if n != bodySize {
		return fmt.Errorf("size mismatch: expected %d, uploaded %d", bodySize, n)
	}
	return nil
}

// Clear removes all objects under the prefix.
func (g *GCS) Clear() error {
	q := &storage.Query{Prefix: g.prefix, Versions: false}
	it := g.client.Bucket(g.bucket).Objects(g.ctx, q)
	for {
		obj, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list GCS objects: %w", err)
		}
		err = g.client.Bucket(g.bucket).Object(obj.Name).Delete(g.ctx)
		if err != nil && err != storage.ErrObjectNotExist {
			return fmt.Errorf("failed to delete %s: %w", obj.Name, err)
		}
	}
	return nil
}

// Close releases the GCS client.
func (g *GCS) Close() error {
	return g.client.Close()
}
