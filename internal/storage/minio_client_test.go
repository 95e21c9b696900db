package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelers/internal/config"
)

func TestAvatarObjectName(t *testing.T) {
	at := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)

	t.Run("keeps the sniffed extension", func(t *testing.T) {
		name := AvatarObjectName("u1", ".png", at)

		assert.True(t, strings.HasPrefix(name, "avatars/u1/2025/03/"))
		assert.True(t, strings.HasSuffix(name, ".png"))
	})

	t.Run("falls back to jpg", func(t *testing.T) {
		assert.True(t, strings.HasSuffix(AvatarObjectName("u1", "", at), ".jpg"))
	})

	t.Run("names are unique", func(t *testing.T) {
		assert.NotEqual(t, AvatarObjectName("u1", ".png", at), AvatarObjectName("u1", ".png", at))
	})
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIO
		want string
	}{
		{
			name: "public url configured",
			cfg:  config.MinIO{PublicURL: "https://cdn.example.com", BucketName: "avatars"},
			want: "https://cdn.example.com/avatars/avatars/u1/a.png",
		},
		{
			name: "derived from endpoint",
			cfg:  config.MinIO{Endpoint: "localhost:9000", BucketName: "avatars"},
			want: "http://localhost:9000/avatars/avatars/u1/a.png",
		},
		{
			name: "derived with tls",
			cfg:  config.MinIO{Endpoint: "s3.example.com", BucketName: "media", UseSSL: true},
			want: "https://s3.example.com/media/avatars/u1/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicURL(tt.cfg, "avatars/u1/a.png"))
		})
	}
}

func TestNewMinIOClient(t *testing.T) {
	client, err := NewMinIOClient(config.MinIO{
		Endpoint:   "localhost:9000",
		AccessKey:  "minioadmin",
		SecretKey:  "minioadmin",
		BucketName: "avatars",
		Region:     "us-east-1",
	})

	require.NoError(t, err)
	assert.NotNil(t, client)
}
