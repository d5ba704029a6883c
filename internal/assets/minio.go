// Package assets stores profile photos in S3-compatible object storage.
package assets

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store keeps one photo object per document under photos/<documentID>.
type Store struct {
	client *minio.Client
	bucket string
}

// New connects to the object store and ensures the bucket exists.
func New(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return &Store{client: client, bucket: bucket}, nil
}

func photoKey(documentID string) string {
	return "photos/" + documentID
}

// PutPhoto uploads or replaces the document's photo.
func (s *Store) PutPhoto(ctx context.Context, documentID string, r io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, photoKey(documentID), r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put photo for %s: %w", documentID, err)
	}
	return nil
}

// GetPhoto streams the document's photo and reports its content type.
func (s *Store) GetPhoto(ctx context.Context, documentID string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, photoKey(documentID), minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("get photo for %s: %w", documentID, err)
	}
	// GetObject is lazy; Stat performs the request and surfaces missing keys.
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, "", fmt.Errorf("stat photo for %s: %w", documentID, err)
	}
	return obj, info.ContentType, nil
}

// RemovePhoto deletes the document's photo. Removing a photo that was never
// uploaded is not an error.
func (s *Store) RemovePhoto(ctx context.Context, documentID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, photoKey(documentID), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove photo for %s: %w", documentID, err)
	}
	return nil
}
