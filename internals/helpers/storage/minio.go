package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"eduarchive_backend/internals/configs"
)

type MinIOStore struct {
	Client     *minio.Client
	BucketName string
	BaseURL    string
}

func NewMinIOStore(ctx context.Context, cfg configs.StorageConfig, log *zap.Logger) (*MinIOStore, error) {
	if cfg.MinIOEndpoint == "" || cfg.MinIOBucket == "" {
		return nil, fmt.Errorf("missing env: MINIO_ENDPOINT/MINIO_BUCKET")
	}
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio.New: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, fmt.Errorf("cek bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("buat bucket: %w", err)
		}
		log.Info("[MINIO] bucket dibuat", zap.String("bucket", cfg.MinIOBucket))
	}

	base := cfg.PublicBase
	if !strings.HasPrefix(base, "http") {
		scheme := "http"
		if cfg.MinIOUseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinIOEndpoint, cfg.MinIOBucket)
	}
	return &MinIOStore{Client: client, BucketName: cfg.MinIOBucket, BaseURL: strings.TrimRight(base, "/")}, nil
}

func (s *MinIOStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.Client.PutObject(ctx, s.BucketName, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	return err
}

func (s *MinIOStore) Delete(ctx context.Context, key string) error {
	return s.Client.RemoveObject(ctx, s.BucketName, key, minio.RemoveObjectOptions{})
}

func (s *MinIOStore) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return s.BaseURL + "/" + key
}

func (s *MinIOStore) KeyFromURL(publicURL string) (string, error) {
	return keyFromBase(s.BaseURL, publicURL)
}
