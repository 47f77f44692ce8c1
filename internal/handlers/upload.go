package handlers

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gardenlog/apiserver/internal/uploads"
	"github.com/rs/zerolog/hlog"
)

const (
	formFieldImage     = "image"
	maxMultipartMemory = 8 << 20
)

// RequireUpload parses a multipart body, validates and stores its single
// "image" file and attaches the stored file to the request context. Requests
// that are not multipart, or carry no image part, pass through untouched.
func RequireUpload(uploader uploads.Uploader, maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMultipart(r) {
				next.ServeHTTP(w, r)
				return
			}

			if err := uploads.ParseForm(w, r, maxBytes, maxMultipartMemory); err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("upload rejected")
				if errors.Is(err, uploads.ErrTooLarge) {
					writeError(w, http.StatusRequestEntityTooLarge, "Upload is too large.")
					return
				}
				writeError(w, http.StatusBadRequest, "invalid multipart form")
				return
			}

			files := r.MultipartForm.File[formFieldImage]
			if len(files) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if len(files) > 1 {
				writeError(w, http.StatusBadRequest, "Only one image may be uploaded.")
				return
			}

			if err := uploader.Validate(files[0]); err != nil {
				writeUploadError(w, r, err)
				return
			}

			stored, err := uploader.Store(r.Context(), formFieldImage, files[0])
			if err != nil {
				writeUploadError(w, r, err)
				return
			}

			hlog.FromRequest(r).Debug().
				Str("key", stored.Key).
				Str("content_type", stored.ContentType).
				Int64("size", stored.Size).
				Msg("upload stored")

			next.ServeHTTP(w, r.WithContext(uploads.WithStoredFile(r.Context(), stored)))
		})
	}
}

func writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, uploads.ErrNotImage) {
		writeError(w, http.StatusBadRequest, "Please upload only images.")
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("store upload")
	writeError(w, http.StatusInternalServerError, "failed to store upload")
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
