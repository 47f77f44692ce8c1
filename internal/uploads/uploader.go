// Package uploads validates and persists image files attached to requests.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"mime"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gardenlog/apiserver/internal/storage"
)

var (
	// ErrNotImage is returned for files whose media type is not image/*.
	ErrNotImage = errors.New("please upload only images")
	// ErrMissingFile is returned when a handler requires a file that was not sent.
	ErrMissingFile = errors.New("image file is required")
	// ErrTooLarge is returned when a request body exceeds the upload limit.
	ErrTooLarge = errors.New("upload too large")
)

const maxRandomSuffix = 1_000_000_000

// StoredFile describes a persisted upload.
type StoredFile struct {
	Field        string
	OriginalName string
	Key          string
	URL          string
	ContentType  string
	Size         int64
}

// Uploader decides whether a file is acceptable and persists accepted files.
type Uploader interface {
	Validate(header *multipart.FileHeader) error
	Store(ctx context.Context, field string, header *multipart.FileHeader) (StoredFile, error)
}

// ImageUploader accepts image/* files and writes them to object storage under
// a randomized name.
type ImageUploader struct {
	storage   *storage.Storage
	urlPrefix string
	now       func() time.Time
	random    func() int64
}

// NewImageUploader returns an uploader writing to store. Public URLs are
// urlPrefix followed by the object key.
func NewImageUploader(store *storage.Storage, urlPrefix string) *ImageUploader {
	return &ImageUploader{
		storage:   store,
		urlPrefix: urlPrefix,
		now:       time.Now,
		random:    func() int64 { return rand.Int64N(maxRandomSuffix + 1) },
	}
}

// Validate returns ErrNotImage unless the file is an image/* media type.
func (u *ImageUploader) Validate(header *multipart.FileHeader) error {
	_, err := detectContentType(header)
	return err
}

// Store validates the file and writes it under a generated key.
func (u *ImageUploader) Store(ctx context.Context, field string, header *multipart.FileHeader) (StoredFile, error) {
	contentType, err := detectContentType(header)
	if err != nil {
		return StoredFile{}, err
	}

	file, err := header.Open()
	if err != nil {
		return StoredFile{}, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	key := FileName(field, header.Filename, u.now(), u.random())
	if err := u.storage.Put(ctx, key, file, header.Size, contentType); err != nil {
		return StoredFile{}, fmt.Errorf("store upload %s: %w", key, err)
	}

	return StoredFile{
		Field:        field,
		OriginalName: header.Filename,
		Key:          key,
		URL:          u.URL(key),
		ContentType:  contentType,
		Size:         header.Size,
	}, nil
}

// URL returns the public URL for a stored key.
func (u *ImageUploader) URL(key string) string {
	return u.urlPrefix + key
}

// KeyFromURL recovers the object key from a URL produced with prefix.
func KeyFromURL(prefix, url string) string {
	if prefix != "" && strings.HasPrefix(url, prefix) {
		return strings.TrimPrefix(url, prefix)
	}
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// FileName builds "{field}-{unix_ms}-{random}.{ext}". The extension is the
// segment between the first and second dot of the original name, so
// "photo.tar.gz" yields "tar". Names without a dot get no extension.
func FileName(field, original string, now time.Time, random int64) string {
	name := fmt.Sprintf("%s-%d-%d", field, now.UnixMilli(), random)
	parts := strings.Split(original, ".")
	if len(parts) < 2 {
		return name
	}
	return name + "." + sanitizeExt(parts[1])
}

func sanitizeExt(ext string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, ext)
}

func detectContentType(header *multipart.FileHeader) (string, error) {
	declared := strings.TrimSpace(header.Header.Get("Content-Type"))
	mediaType := ""
	if declared != "" {
		if parsed, _, err := mime.ParseMediaType(declared); err == nil {
			mediaType = strings.ToLower(parsed)
		}
	}

	if mediaType == "" || mediaType == "application/octet-stream" {
		file, err := header.Open()
		if err != nil {
			return "", fmt.Errorf("open upload: %w", err)
		}
		detected, err := mimetype.DetectReader(file)
		_ = file.Close()
		if err != nil {
			return "", fmt.Errorf("sniff upload: %w", err)
		}
		mediaType, _, _ = strings.Cut(detected.String(), ";")
	}

	primary, _, _ := strings.Cut(mediaType, "/")
	if primary != "image" {
		return "", ErrNotImage
	}
	return mediaType, nil
}
