package types

// Plant is a catalog entry describing a plant and its growing conditions.
type Plant struct {
	// ID is the unique identifier of the plant.
	ID int `json:"id" db:"id"`

	// CommonName is the everyday name of the plant (e.g., "Rose").
	CommonName string `json:"common_name" db:"common_name"`

	// BotanicalName is the optional scientific name of the plant.
	BotanicalName *string `json:"botanical_name" db:"botanical_name"`

	// Zone is the hardiness zone the plant grows in.
	Zone string `json:"zone" db:"zone"`

	// SunExposure describes the light the plant needs (e.g., "full", "partial").
	SunExposure string `json:"sun_exposure" db:"sun_exposure"`

	// Height is the optional mature height, stored as free text.
	Height *string `json:"height" db:"height"`

	// Width is the optional mature width, stored as free text.
	Width *string `json:"width" db:"width"`
}
