package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps blobs as objects in a single MinIO/S3 bucket.
type MinioStore struct {
	Client *minio.Client
	Bucket string
}

type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// Region skips the bucket location lookup when set.
	Region    string
}

// NewMinioStore connects to the endpoint and creates the bucket when it is missing.
func NewMinioStore(ctx context.Context, opts MinioOptions) (*MinioStore, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("MinIO endpoint is not configured")
	}
	if opts.Bucket == "" {
		return nil, fmt.Errorf("MinIO bucket is not configured")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", opts.Bucket, err)
		}
	}

	return &MinioStore{Client: client, Bucket: opts.Bucket}, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	cleaned, err := CleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.Client.PutObject(ctx, s.Bucket, cleaned, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", cleaned, err)
	}
	return nil
}

func (s *MinioStore) Open(ctx context.Context, key string) (io.ReadCloser, Object, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return nil, Object{}, err
	}
	obj, err := s.Client.GetObject(ctx, s.Bucket, cleaned, minio.GetObjectOptions{})
	if err != nil {
		return nil, Object{}, translateMinioError(cleaned, err)
	}
	// GetObject is lazy; Stat surfaces a missing key.
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, Object{}, translateMinioError(cleaned, err)
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = ContentTypeFor(cleaned)
	}
	return obj, Object{Key: cleaned, Size: info.Size, ContentType: contentType}, nil
}

func (s *MinioStore) DeletePrefix(ctx context.Context, prefix string) error {
	cleaned, err := CleanKey(prefix)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectsCh := make(chan minio.ObjectInfo)
	var listErr error
	go func() {
		defer close(objectsCh)
		for object := range s.Client.ListObjects(ctx, s.Bucket, minio.ListObjectsOptions{
			Prefix:    cleaned,
			Recursive: true,
		}) {
			if object.Err != nil {
				listErr = object.Err
				return
			}
			select {
			case objectsCh <- object:
			case <-ctx.Done():
				return
			}
		}
	}()

	var removeFailure error
	for removeErr := range s.Client.RemoveObjects(ctx, s.Bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if removeErr.Err != nil && removeFailure == nil {
			removeFailure = fmt.Errorf("failed to delete %s: %w", removeErr.ObjectName, removeErr.Err)
		}
	}
	if removeFailure != nil {
		return removeFailure
	}
	if listErr != nil {
		return fmt.Errorf("failed to list %s: %w", cleaned, listErr)
	}
	return nil
}

func translateMinioError(key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
		return ErrObjectNotFound
	}
	return fmt.Errorf("failed to read %s: %w", key, err)
}
