package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gardenlog/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskClient_Lifecycle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	ctx := context.Background()

	s, err := New(ctx, config.UploadConfig{Backend: config.UploadBackendDisk, Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, s.Bucket())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, s.Put(ctx, "image-1-2.png", strings.NewReader("png-bytes"), 9, "image/png"))

	rc, err := s.Get(ctx, "image-1-2.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "png-bytes", string(data))

	err = s.Put(ctx, "image-1-2.png", strings.NewReader("again"), 5, "image/png")
	assert.Error(t, err, "existing files are not overwritten")

	require.NoError(t, s.Delete(ctx, "image-1-2.png"))
	assert.ErrorIs(t, s.Delete(ctx, "image-1-2.png"), ErrObjectNotFound)

	_, err = s.Get(ctx, "image-1-2.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestDiskClient_RejectsTraversal(t *testing.T) {
	d, err := NewDiskClient(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../etc/passwd", "a/b.png", `a\b.png`} {
		err := d.Put(context.Background(), key, strings.NewReader("x"), 1, "")
		assert.Error(t, err, key)
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), config.UploadConfig{Backend: "ftp"})
	assert.Error(t, err)
}

func TestNewS3Client_RequiresBucket(t *testing.T) {
	_, err := NewS3Client(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestNewMinioClient_RequiresSettings(t *testing.T) {
	_, err := NewMinioClient(config.MinioConfig{Endpoint: "localhost:9000", Bucket: "b"})
	assert.Error(t, err)
}
