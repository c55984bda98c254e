package backends

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 implements Backend using AWS S3.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
	ctx    context.Context
}

// NewS3 creates a new S3-based publication backend.
// bucket is the S3 bucket name where artifacts will be stored.
// prefix is an optional prefix for all S3 keys (e.g., "assets/" or "").
func NewS3(bucket, prefix string) (*S3, error) {
	ctx := context.Background()

	// Load AWS config from environment/credentials
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	// Test bucket access
	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access S3 bucket %s: %w", bucket, err)
	}

	return &S3{
		client: client,
		bucket: bucket,
		prefix: prefix,
		ctx:    ctx,
	}, nil
}

// Put uploads an artifact to S3.
func (s *S3) Put(key string, body io.Reader, bodySize int64) error {
	// Read the body into a buffer (needed for S3 SDK)
	bodyData := make([]byte, bodySize)
	n, err := io.ReadFull(body, bodyData)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if int64(n) != bodySize {
		return fmt.Errorf("size mismatch: expected %d, read %d", bodySize, n)
	}

	putInput := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(bodyData),
		ContentType: aws.String(contentType(key)),
		Metadata: map[string]string{
			"size": strconv.FormatInt(bodySize, 10),
			"time": strconv.FormatInt(time.Now().Unix(), 10),
		},
	}
	if enc := contentEncoding(key); enc != "" {
		putInput.ContentEncoding = aws.String(enc)
	}

	if _, err := s.client.PutObject(s.ctx, putInput); err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// Close performs cleanup operations.
func (s *S3) Close() error {
	return nil
}

// Clear removes all published artifacts under the prefix.
func (s *S3) Clear() error {
	// List all objects with the prefix
	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, listInput)

	var deleteObjects []types.ObjectIdentifier
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(s.ctx)
		if err != nil {
			return fmt.Errorf("failed to list S3 objects: %w", err)
		}

		for _, obj := range page.Contents {
			deleteObjects = append(deleteObjects, types.ObjectIdentifier{
				Key: obj.Key,
			})
		}
	}

	// Delete objects (S3 allows up to 1000 objects per request)
	for i := 0; i < len(deleteObjects); i += 1000 {
		end := i + 1000
		if end > len(deleteObjects) {
			end = len(deleteObjects)
		}

		deleteInput := &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: deleteObjects[i:end],
				Quiet:   aws.Bool(true),
			},
		}

		if _, err := s.client.DeleteObjects(s.ctx, deleteInput); err != nil {
			return fmt.Errorf("failed to delete S3 objects: %w", err)
		}
	}

	return nil
}

// objectKey converts an artifact key to an S3 key.
func (s *S3) objectKey(key string) string {
	return s.prefix + key
}
