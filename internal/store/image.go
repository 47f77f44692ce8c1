package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gardenlog/apiserver/types"
)

// ImageRepository handles persistence for images.
type ImageRepository struct {
	db *sql.DB
}

// NewImageRepository constructs a repository over db.
func NewImageRepository(db *sql.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

const imageColumns = `id, user_id, image_url, submit_date, image_date, zone, state, country,
		       sun_exposure, soil_type, fertilizer_schedule`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (types.Image, error) {
	var image types.Image
	err := row.Scan(
		&image.ID,
		&image.UserID,
		&image.ImageURL,
		&image.SubmitDate,
		&image.ImageDate,
		&image.Zone,
		&image.State,
		&image.Country,
		&image.SunExposure,
		&image.SoilType,
		&image.FertilizerSchedule,
	)
	return image, err
}

func (r *ImageRepository) List(ctx context.Context) ([]types.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make([]types.Image, 0)
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return images, nil
}

func (r *ImageRepository) Get(ctx context.Context, id int) (types.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1`
	image, err := scanImage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Image{}, ErrNotFound
		}
		return types.Image{}, err
	}
	return image, nil
}

func (r *ImageRepository) Create(ctx context.Context, image types.Image) (types.Image, error) {
	if image.SubmitDate.IsZero() {
		image.SubmitDate = time.Now().UTC()
	}

	const query = `
		INSERT INTO images (
			user_id, image_url, submit_date, image_date, zone, state,
			country, sun_exposure, soil_type, fertilizer_schedule
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		image.UserID,
		image.ImageURL,
		image.SubmitDate,
		image.ImageDate,
		image.Zone,
		image.State,
		image.Country,
		image.SunExposure,
		image.SoilType,
		image.FertilizerSchedule,
	).Scan(&image.ID); err != nil {
		return types.Image{}, err
	}
	return image, nil
}

// Update overwrites the mutable columns of an image and returns the image_url
// the row held before the update.
func (r *ImageRepository) Update(ctx context.Context, image types.Image) (string, error) {
	const query = `
		WITH previous AS (
			SELECT id, image_url FROM images WHERE id = $9
		)
		UPDATE images
		SET image_url = $1,
			image_date = $2,
			zone = $3,
			state = $4,
			country = $5,
			sun_exposure = $6,
			soil_type = $7,
			fertilizer_schedule = $8
		FROM previous
		WHERE images.id = previous.id
		RETURNING previous.image_url`
	var previousURL string
	err := r.db.QueryRowContext(
		ctx,
		query,
		image.ImageURL,
		image.ImageDate,
		image.Zone,
		image.State,
		image.Country,
		image.SunExposure,
		image.SoilType,
		image.FertilizerSchedule,
		image.ID,
	).Scan(&previousURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return previousURL, nil
}

// Delete removes an image and returns the image_url of the deleted row.
func (r *ImageRepository) Delete(ctx context.Context, id int) (string, error) {
	const query = `DELETE FROM images WHERE id = $1 RETURNING image_url`
	var imageURL string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&imageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return imageURL, nil
}
