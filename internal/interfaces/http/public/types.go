package public

import (
	"time"

	"github.com/townlist/townlist-services/api/internal/catalog/domain"
)

type locationResponse struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
	Address     string     `json:"address,omitempty"`
}

type authorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type storeResponse struct {
	ID          string           `json:"id,omitempty"`
	Slug        string           `json:"slug"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Tags        []string         `json:"tags"`
	Location    locationResponse `json:"location"`
	Photo       string           `json:"photo"`
	Author      *authorResponse  `json:"author,omitempty"`
	CreatedAt   *time.Time       `json:"createdAt,omitempty"`
}

type tagListingResponse struct {
	Tag    string            `json:"tag,omitempty"`
	Tags   []domain.TagCount `json:"tags"`
	Stores []storeResponse   `json:"stores"`
}

type authResponse struct {
	Token string         `json:"token"`
	User  authorResponse `json:"user"`
}

func buildStoreResponse(store domain.Store) storeResponse {
	resp := storeResponse{
		ID:          store.ID,
		Slug:        store.Slug,
		Name:        store.Name,
		Description: store.Description,
		Tags:        store.Tags,
		Location: locationResponse{
			Type:        store.Location.Type,
			Coordinates: store.Location.Coordinates,
			Address:     store.Location.Address,
		},
		Photo: store.Photo,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if store.Author != nil {
		resp.Author = &authorResponse{ID: store.Author.ID, Name: store.Author.Name}
	}
	if !store.CreatedAt.IsZero() {
		createdAt := store.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

func buildStoreResponses(stores []domain.Store) []storeResponse {
	items := make([]storeResponse, 0, len(stores))
	for _, store := range stores {
		items = append(items, buildStoreResponse(store))
	}
	return items
}
