package handlers

import (
	"errors"
	"net/http"

	"github.com/gardenlog/apiserver/internal/services"
	"github.com/gardenlog/apiserver/internal/store"
	"github.com/gardenlog/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

// PlantHandler provides HTTP handlers for plants.
type PlantHandler struct {
	plantService *services.PlantService
}

// NewPlantHandler constructs a handler backed by the plant service.
func NewPlantHandler(plantService *services.PlantService) *PlantHandler {
	return &PlantHandler{plantService: plantService}
}

// PlantRouter registers plant routes on the given router. Only create is
// guarded; update and delete are open.
func PlantRouter(r chi.Router, plantService *services.PlantService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewPlantHandler(plantService)

	r.Get("/", handler.ListPlants)
	r.With(authMiddleware).Post("/", handler.CreatePlant)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.GetPlant)
		r.Put("/", handler.UpdatePlant)
		r.Delete("/", handler.DeletePlant)
	})
}

type PlantRequest struct {
	CommonName    *textValue `json:"common_name"`
	BotanicalName *textValue `json:"botanical_name"`
	Zone          *textValue `json:"zone"`
	SunExposure   *textValue `json:"sun_exposure"`
	Height        *textValue `json:"height"`
	Width         *textValue `json:"width"`
}

func (req PlantRequest) validate() error {
	switch {
	case req.CommonName == nil:
		return errors.New("Common name is required")
	case req.Zone == nil:
		return errors.New("Zone is required")
	case req.SunExposure == nil:
		return errors.New("Sun exposure is required")
	}
	return nil
}

func (req PlantRequest) plant(id int) types.Plant {
	return types.Plant{
		ID:            id,
		CommonName:    string(*req.CommonName),
		BotanicalName: req.BotanicalName.ptr(),
		Zone:          string(*req.Zone),
		SunExposure:   string(*req.SunExposure),
		Height:        req.Height.ptr(),
		Width:         req.Width.ptr(),
	}
}

func parsePlantRequest(r *http.Request) (PlantRequest, error) {
	var req PlantRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, errors.New("invalid request")
	}
	return req, req.validate()
}

func (h *PlantHandler) ListPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := h.plantService.List(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list plants")
		writeError(w, http.StatusInternalServerError, "failed to list plants")
		return
	}
	writeJSON(w, http.StatusOK, plants)
}

func (h *PlantHandler) GetPlant(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "plant not found")
		return
	}

	plant, err := h.plantService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "plant not found")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Int("plant_id", id).Msg("get plant")
		writeError(w, http.StatusInternalServerError, "failed to fetch plant")
		return
	}

	writeJSON(w, http.StatusOK, []types.Plant{plant})
}

func (h *PlantHandler) CreatePlant(w http.ResponseWriter, r *http.Request) {
	req, err := parsePlantRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.plantService.Create(r.Context(), req.plant(0))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create plant")
		writeError(w, http.StatusInternalServerError, "failed to create plant")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *PlantHandler) UpdatePlant(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "plant not found")
		return
	}

	req, err := parsePlantRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.plantService.Update(r.Context(), req.plant(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "plant not found")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Int("plant_id", id).Msg("update plant")
		writeError(w, http.StatusInternalServerError, "failed to update plant")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PlantHandler) DeletePlant(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "plant not found")
		return
	}

	if err := h.plantService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "plant not found")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Int("plant_id", id).Msg("delete plant")
		writeError(w, http.StatusInternalServerError, "failed to delete plant")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
