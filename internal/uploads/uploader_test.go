package uploads

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/gardenlog/apiserver/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func fileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func newTestUploader(t *testing.T) (*ImageUploader, *storage.Storage) {
	t.Helper()
	disk, err := storage.NewDiskClient(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	store := storage.NewStorage(disk)
	require.NoError(t, store.EnsureBucket(context.Background()))

	u := NewImageUploader(store, "localhost:3000/static/assets/uploads/")
	u.now = func() time.Time { return time.UnixMilli(1700000000123) }
	u.random = func() int64 { return 42 }
	return u, store
}

func TestFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	tests := []struct {
		original string
		want     string
	}{
		{"rose.png", "image-1700000000123-7.png"},
		{"rose.final.jpeg", "image-1700000000123-7.final"},
		{"rose", "image-1700000000123-7"},
		{"ro se.p/ng", "image-1700000000123-7.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileName("image", tt.original, now, 7), tt.original)
	}
}

func TestImageUploader_Validate(t *testing.T) {
	u, _ := newTestUploader(t)

	assert.NoError(t, u.Validate(fileHeader(t, "rose.png", "image/png", pngBytes)))
	assert.NoError(t, u.Validate(fileHeader(t, "rose.png", "IMAGE/JPEG; q=1", pngBytes)))
	assert.NoError(t, u.Validate(fileHeader(t, "rose.png", "application/octet-stream", pngBytes)), "sniffed as png")
	assert.NoError(t, u.Validate(fileHeader(t, "rose", "", pngBytes)), "no declared type")
	assert.ErrorIs(t, u.Validate(fileHeader(t, "notes.txt", "text/plain", []byte("hello"))), ErrNotImage)
	assert.ErrorIs(t, u.Validate(fileHeader(t, "notes.png", "application/octet-stream", []byte("hello"))), ErrNotImage)
}

func TestImageUploader_Store(t *testing.T) {
	u, store := newTestUploader(t)

	stored, err := u.Store(context.Background(), "image", fileHeader(t, "rose.png", "image/png", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "image-1700000000123-42.png", stored.Key)
	assert.Equal(t, "localhost:3000/static/assets/uploads/image-1700000000123-42.png", stored.URL)
	assert.Equal(t, "image/png", stored.ContentType)
	assert.Equal(t, "rose.png", stored.OriginalName)

	rc, err := store.Get(context.Background(), stored.Key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestImageUploader_StoreRejectsNonImage(t *testing.T) {
	u, _ := newTestUploader(t)

	_, err := u.Store(context.Background(), "image", fileHeader(t, "a.txt", "text/plain", []byte("x")))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestKeyFromURL(t *testing.T) {
	prefix := "localhost:3000/static/assets/uploads/"
	assert.Equal(t, "image-1-2.png", KeyFromURL(prefix, prefix+"image-1-2.png"))
	assert.Equal(t, "image-1-2.png", KeyFromURL("https://cdn.example.com/", "localhost:3000/static/assets/uploads/image-1-2.png"))
	assert.Equal(t, "bare", KeyFromURL("", "bare"))
}

func TestStoredFileContext(t *testing.T) {
	_, ok := StoredFileFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithStoredFile(context.Background(), StoredFile{Key: "k"})
	file, ok := StoredFileFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "k", file.Key)
}
