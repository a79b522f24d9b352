package blobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig configures a MinIO bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type minioAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts miniogo.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts miniogo.RemoveObjectOptions) error
}

// openMinioObject fetches an object and forces the first request so that a
// missing key fails here rather than on the first Read.
var openMinioObject = func(ctx context.Context, c *miniogo.Client, bucket, key string) (io.ReadCloser, error) {
	obj, err := c.GetObject(ctx, bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, err
	}
	return obj, nil
}

// MinioStore keeps bytes in a MinIO bucket.
type MinioStore struct {
	client minioAPI
	raw    *miniogo.Client
	bucket string
}

// NewMinioStore connects to MinIO and creates the bucket when missing.
func NewMinioStore(ctx context.Context, c MinioConfig) (*MinioStore, error) {
	client, err := miniogo.New(c.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
		Region: c.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	s := &MinioStore{client: client, raw: client, bucket: c.Bucket}
	if err := s.ensureBucket(ctx, c.Region); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context, region string) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return unavailable("bucket", s.bucket, err)
	}
	if ok {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, miniogo.MakeBucketOptions{Region: region}); err != nil {
		return unavailable("bucket", s.bucket, err)
	}
	return nil
}

func (s *MinioStore) Write(ctx context.Context, ownerID, key string, r io.Reader) (int64, error) {
	if err := checkOwnerKey(ownerID, key); err != nil {
		return 0, err
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, r, -1, miniogo.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return 0, unavailable("write", key, mapMinioError(err))
	}
	return info.Size, nil
}

func (s *MinioStore) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	rc, err := openMinioObject(ctx, s.raw, s.bucket, key)
	if err != nil {
		return nil, unavailable("read", key, mapMinioError(err))
	}
	return rc, nil
}

func (s *MinioStore) Remove(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	err := s.client.RemoveObject(ctx, s.bucket, key, miniogo.RemoveObjectOptions{})
	if err != nil {
		if IsMissing(mapMinioError(err)) {
			return nil
		}
		return unavailable("remove", key, err)
	}
	return nil
}

// mapMinioError marks S3-protocol "no such key" responses as fs.ErrNotExist.
func mapMinioError(err error) error {
	var resp miniogo.ErrorResponse
	if errors.As(err, &resp) {
		if resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" {
			return fmt.Errorf("%w: %w", fs.ErrNotExist, err)
		}
	}
	return err
}
