package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// AttachmentStorage persists message attachments and returns the URL they
// can be fetched from.
type AttachmentStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

type minioAttachmentStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioAttachmentStorage(client *minio.Client, bucket, publicURL string) AttachmentStorage {
	return &minioAttachmentStorage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *minioAttachmentStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s in bucket %s: %w", key, s.bucket, err)
	}

	return s.objectURL(key), nil
}

func (s *minioAttachmentStorage) objectURL(key string) string {
	base := s.publicURL
	if base == "" {
		base = s.client.EndpointURL().String()
	}
	return fmt.Sprintf("%s/%s/%s", base, s.bucket, key)
}
