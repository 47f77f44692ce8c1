package services

import (
	"context"

	"github.com/gardenlog/apiserver/internal/uploads"
	"github.com/gardenlog/apiserver/types"
	"github.com/rs/zerolog"
)

// ImageRepository defines persistence operations for images.
type ImageRepository interface {
	List(ctx context.Context) ([]types.Image, error)
	Get(ctx context.Context, id int) (types.Image, error)
	Create(ctx context.Context, image types.Image) (types.Image, error)
	Update(ctx context.Context, image types.Image) (string, error)
	Delete(ctx context.Context, id int) (string, error)
}

// ImageService encapsulates image use-cases. When a publisher is configured
// it announces uploads released by updates and deletes.
type ImageService struct {
	repo      ImageRepository
	publisher EventPublisher
	channel   string
	urlPrefix string
}

func NewImageService(repo ImageRepository, publisher EventPublisher, channel, urlPrefix string) *ImageService {
	return &ImageService{
		repo:      repo,
		publisher: publisher,
		channel:   channel,
		urlPrefix: urlPrefix,
	}
}

func (s *ImageService) List(ctx context.Context) ([]types.Image, error) {
	return s.repo.List(ctx)
}

func (s *ImageService) Get(ctx context.Context, id int) (types.Image, error) {
	return s.repo.Get(ctx, id)
}

func (s *ImageService) Create(ctx context.Context, image types.Image) (types.Image, error) {
	return s.repo.Create(ctx, image)
}

func (s *ImageService) Update(ctx context.Context, image types.Image) error {
	previousURL, err := s.repo.Update(ctx, image)
	if err != nil {
		return err
	}
	if previousURL != "" && previousURL != image.ImageURL {
		s.announce(ctx, ImageEvent{
			Type:      EventImageReplaced,
			ImageID:   image.ID,
			ObjectKey: uploads.KeyFromURL(s.urlPrefix, previousURL),
		})
	}
	return nil
}

func (s *ImageService) Delete(ctx context.Context, id int) error {
	imageURL, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if imageURL != "" {
		s.announce(ctx, ImageEvent{
			Type:      EventImageDeleted,
			ImageID:   id,
			ObjectKey: uploads.KeyFromURL(s.urlPrefix, imageURL),
		})
	}
	return nil
}

// announce never fails the caller: the database change has already happened.
func (s *ImageService) announce(ctx context.Context, event ImageEvent) {
	if s.publisher == nil {
		return
	}
	if err := publishImageEvent(ctx, s.publisher, s.channel, event); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Int("image_id", event.ImageID).
			Str("object_key", event.ObjectKey).
			Msg("image event not published")
	}
}
