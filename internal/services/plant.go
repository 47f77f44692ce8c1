package services

import (
	"context"

	"github.com/gardenlog/apiserver/types"
)

// PlantRepository defines persistence operations for plants.
type PlantRepository interface {
	List(ctx context.Context) ([]types.Plant, error)
	Get(ctx context.Context, id int) (types.Plant, error)
	Create(ctx context.Context, plant types.Plant) (types.Plant, error)
	Update(ctx context.Context, plant types.Plant) (types.Plant, error)
	Delete(ctx context.Context, id int) error
}

// PlantService encapsulates plant use-cases.
type PlantService struct {
	repo PlantRepository
}

func NewPlantService(repo PlantRepository) *PlantService {
	return &PlantService{repo: repo}
}

func (s *PlantService) List(ctx context.Context) ([]types.Plant, error) {
	return s.repo.List(ctx)
}

func (s *PlantService) Get(ctx context.Context, id int) (types.Plant, error) {
	return s.repo.Get(ctx, id)
}

func (s *PlantService) Create(ctx context.Context, plant types.Plant) (types.Plant, error) {
	return s.repo.Create(ctx, plant)
}

func (s *PlantService) Update(ctx context.Context, plant types.Plant) (types.Plant, error) {
	return s.repo.Update(ctx, plant)
}

func (s *PlantService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
