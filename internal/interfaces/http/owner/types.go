package owner

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/townlist/townlist-services/api/internal/catalog/domain"
)

// storeForm is the multipart payload shared by create and update.
type storeForm struct {
	Name        string
	Description string
	Address     string
	Longitude   float64
	Latitude    float64
	Tags        []string
	Photo       *photoPart
}

type photoPart struct {
	Data        []byte
	ContentType string
}

func (f storeForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Description, validation.Length(0, 2000)),
		validation.Field(&f.Longitude, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&f.Latitude, validation.Min(-90.0), validation.Max(90.0)),
	)
}

type storeResponse struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	Location    location `json:"location"`
	Photo       string   `json:"photo"`
}

type location struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
	Address     string     `json:"address,omitempty"`
}

func buildStoreResponse(store domain.Store) storeResponse {
	tags := store.Tags
	if tags == nil {
		tags = []string{}
	}
	return storeResponse{
		ID:          store.ID,
		Slug:        store.Slug,
		Name:        store.Name,
		Description: store.Description,
		Tags:        tags,
		Location: location{
			Type:        store.Location.Type,
			Coordinates: store.Location.Coordinates,
			Address:     store.Location.Address,
		},
		Photo: store.Photo,
	}
}
