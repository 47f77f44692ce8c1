package handlers

import (
	"io/fs"
	"net/http"
	"path"
)

// Static serves files under dir. Directories are only served through their
// index.html; anything else answers 404 so upload names cannot be listed.
func Static(dir string) http.Handler {
	return http.FileServer(noListingFS{root: http.Dir(dir)})
}

type noListingFS struct {
	root http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.root.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !info.IsDir() {
		return f, nil
	}

	index, err := n.root.Open(path.Join(name, "index.html"))
	if err != nil {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	_ = index.Close()
	return f, nil
}
