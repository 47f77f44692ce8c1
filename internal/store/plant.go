package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gardenlog/apiserver/types"
)

// PlantRepository handles persistence for plants.
type PlantRepository struct {
	db *sql.DB
}

// NewPlantRepository constructs a repository over db.
func NewPlantRepository(db *sql.DB) *PlantRepository {
	return &PlantRepository{db: db}
}

func (r *PlantRepository) List(ctx context.Context) ([]types.Plant, error) {
	const query = `
		SELECT id, common_name, botanical_name, zone, sun_exposure, height, width
		FROM plants
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plants := make([]types.Plant, 0)
	for rows.Next() {
		var plant types.Plant
		if err := rows.Scan(
			&plant.ID,
			&plant.CommonName,
			&plant.BotanicalName,
			&plant.Zone,
			&plant.SunExposure,
			&plant.Height,
			&plant.Width,
		); err != nil {
			return nil, err
		}
		plants = append(plants, plant)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plants, nil
}

func (r *PlantRepository) Get(ctx context.Context, id int) (types.Plant, error) {
	const query = `
		SELECT id, common_name, botanical_name, zone, sun_exposure, height, width
		FROM plants
		WHERE id = $1`
	var plant types.Plant
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&plant.ID,
		&plant.CommonName,
		&plant.BotanicalName,
		&plant.Zone,
		&plant.SunExposure,
		&plant.Height,
		&plant.Width,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Plant{}, ErrNotFound
		}
		return types.Plant{}, err
	}
	return plant, nil
}

func (r *PlantRepository) Create(ctx context.Context, plant types.Plant) (types.Plant, error) {
	const query = `
		INSERT INTO plants (common_name, botanical_name, zone, sun_exposure, height, width)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		plant.CommonName,
		plant.BotanicalName,
		plant.Zone,
		plant.SunExposure,
		plant.Height,
		plant.Width,
	).Scan(&plant.ID); err != nil {
		return types.Plant{}, err
	}
	return plant, nil
}

func (r *PlantRepository) Update(ctx context.Context, plant types.Plant) (types.Plant, error) {
	const query = `
		UPDATE plants
		SET common_name = $1,
			botanical_name = $2,
			zone = $3,
			sun_exposure = $4,
			height = $5,
			width = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		plant.CommonName,
		plant.BotanicalName,
		plant.Zone,
		plant.SunExposure,
		plant.Height,
		plant.Width,
		plant.ID,
	)
	if err != nil {
		return types.Plant{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Plant{}, err
	}
	if affected == 0 {
		return types.Plant{}, ErrNotFound
	}
	return plant, nil
}

func (r *PlantRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM plants WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
