package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"travelers/internal/config"
)

type Storage interface {
	UploadAvatar(ctx context.Context, userID, extension, contentType string, file io.Reader, size int64) (string, string, error)
	DeleteObject(ctx context.Context, objectName string) error
}

type MinIOClient struct {
	client *minio.Client
	config config.MinIO
	now    func() time.Time
}

func NewMinIOClient(cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOClient{client: client, config: cfg, now: time.Now}, nil
}

// EnsureBucket creates the avatar bucket on first start.
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.config.BucketName)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.config.BucketName, err)
	}
	if exists {
		return nil
	}

	err = m.client.MakeBucket(ctx, m.config.BucketName, minio.MakeBucketOptions{Region: m.config.Region})
	if err != nil {
		return fmt.Errorf("create bucket %s: %w", m.config.BucketName, err)
	}
	return nil
}

// UploadAvatar stores the file and returns its object name and public URL.
func (m *MinIOClient) UploadAvatar(ctx context.Context, userID, extension, contentType string, file io.Reader, size int64) (string, string, error) {
	now := m.now()
	objectName := AvatarObjectName(userID, extension, now)

	_, err := m.client.PutObject(ctx, m.config.BucketName, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"user-id":     userID,
				"uploaded-at": now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("upload avatar: %w", err)
	}

	return objectName, PublicURL(m.config, objectName), nil
}

func (m *MinIOClient) DeleteObject(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.BucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", objectName, err)
	}
	return nil
}

// AvatarObjectName lays avatars out as avatars/<userId>/<yyyy>/<mm>/<uuid><ext>.
func AvatarObjectName(userID, extension string, at time.Time) string {
	if extension == "" {
		extension = ".jpg"
	}
	return fmt.Sprintf("avatars/%s/%d/%02d/%s%s",
		userID,
		at.Year(),
		at.Month(),
		uuid.New().String(),
		extension)
}

func PublicURL(cfg config.MinIO, objectName string) string {
	base := cfg.PublicURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return fmt.Sprintf("%s/%s/%s", base, cfg.BucketName, objectName)
}
