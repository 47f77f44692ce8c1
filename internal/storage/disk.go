package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiskClient stores objects as flat files in a single directory. The
// directory plays the role of the bucket.
type DiskClient struct {
	dir string
}

// NewDiskClient constructs a disk backend rooted at dir.
func NewDiskClient(dir string) (*DiskClient, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("upload directory is required")
	}
	return &DiskClient{dir: filepath.Clean(dir)}, nil
}

// EnsureBucket creates the upload directory if needed.
func (d *DiskClient) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(d.dir, 0o755)
}

// Put writes r to a new file named key. Existing files are never overwritten.
func (d *DiskClient) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	path, err := d.path(key)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// Get opens the file stored under key.
func (d *DiskClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := d.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete removes the file stored under key.
func (d *DiskClient) Delete(ctx context.Context, key string) error {
	path, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrObjectNotFound
		}
		return err
	}
	return nil
}

// Bucket returns the upload directory.
func (d *DiskClient) Bucket() string {
	return d.dir
}

func (d *DiskClient) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(d.dir, key), nil
}
