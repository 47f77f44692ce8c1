package handlers

import (
	"errors"
	"net/http"

	"github.com/gardenlog/apiserver/internal/services"
	"github.com/gardenlog/apiserver/internal/store"
	"github.com/gardenlog/apiserver/internal/uploads"
	"github.com/gardenlog/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

const (
	formFieldImageDate   = "image_date"
	formFieldZone        = "zone"
	formFieldState       = "state"
	formFieldCountry     = "country"
	formFieldSunExposure = "sun_exposure"
	formFieldSoilType    = "soil_type"
	formFieldFertilizer  = "fertilizer_schedule"
)

// ImageHandler provides HTTP handlers for images.
type ImageHandler struct {
	imageService *services.ImageService
}

// NewImageHandler constructs a handler backed by the image service.
func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// ImageRouter registers image routes. Writes that carry a file run the upload
// gate before the auth gate.
func ImageRouter(
	r chi.Router,
	imageService *services.ImageService,
	authMiddleware func(http.Handler) http.Handler,
	uploadMiddleware func(http.Handler) http.Handler,
) {
	handler := NewImageHandler(imageService)

	r.Get("/", handler.ListImages)
	r.With(uploadMiddleware, authMiddleware).Post("/", handler.CreateImage)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.GetImage)
		r.With(uploadMiddleware, authMiddleware).Put("/", handler.UpdateImage)
		r.With(authMiddleware).Delete("/", handler.DeleteImage)
	})
}

// parseImageForm reads the submitted form fields together with the file the
// upload gate stored.
func parseImageForm(r *http.Request) (types.Image, error) {
	zone := formValue(r, formFieldZone)
	if zone == nil {
		return types.Image{}, errors.New("Zone is required")
	}

	stored, err := uploads.RequireStoredFile(r.Context())
	if err != nil {
		return types.Image{}, errors.New("Image file is required.")
	}

	return types.Image{
		ImageURL:           stored.URL,
		ImageDate:          formValue(r, formFieldImageDate),
		Zone:               *zone,
		State:              formValue(r, formFieldState),
		Country:            formValue(r, formFieldCountry),
		SunExposure:        formValue(r, formFieldSunExposure),
		SoilType:           formValue(r, formFieldSoilType),
		FertilizerSchedule: formValue(r, formFieldFertilizer),
	}, nil
}

func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.imageService.List(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list images")
		writeError(w, http.StatusInternalServerError, "failed to list images")
		return
	}
	writeJSON(w, http.StatusOK, images)
}

func (h *ImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	image, err := h.imageService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Int("image_id", id).Msg("get image")
		writeError(w, http.StatusInternalServerError, "failed to fetch image")
		return
	}

	writeJSON(w, http.StatusOK, []types.Image{image})
}

func (h *ImageHandler) CreateImage(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	image, err := parseImageForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := identity.ID
	image.UserID = &userID

	created, err := h.imageService.Create(r.Context(), image)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("image_url", image.ImageURL).Msg("create image")
		writeError(w, http.StatusInternalServerError, "failed to create image")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ImageHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	image, err := parseImageForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	image.ID = id

	if err := h.imageService.Update(r.Context(), image); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Int("image_id", id).Msg("update image")
		writeError(w, http.StatusInternalServerError, "failed to update image")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	if err := h.imageService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Int("image_id", id).Msg("delete image")
		writeError(w, http.StatusInternalServerError, "failed to delete image")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
