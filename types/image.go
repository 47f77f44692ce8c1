package types

import "time"

// Image is a user-submitted garden photo together with the conditions it was
// taken in.
type Image struct {
	// ID is the unique identifier of the image record.
	ID int `json:"id" db:"id"`

	// UserID references the user whose token was used to submit the image.
	UserID *int `json:"user_id" db:"user_id"`

	// ImageURL is the public URL of the uploaded file. It is computed by the
	// server from the stored file name and never supplied by clients.
	ImageURL string `json:"image_url" db:"image_url"`

	// SubmitDate is the server timestamp taken when the record was created.
	SubmitDate time.Time `json:"submit_date" db:"submit_date"`

	// ImageDate is the client-reported date the photo was taken.
	ImageDate *string `json:"image_date" db:"image_date"`

	Zone               string  `json:"zone" db:"zone"`
	State              *string `json:"state" db:"state"`
	Country            *string `json:"country" db:"country"`
	SunExposure        *string `json:"sun_exposure" db:"sun_exposure"`
	SoilType           *string `json:"soil_type" db:"soil_type"`
	FertilizerSchedule *string `json:"fertilizer_schedule" db:"fertilizer_schedule"`
}
