package mongo

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/townlist/townlist-services/api/internal/catalog/domain"
)

// geoPointDocument is the GeoJSON shape the 2dsphere index requires.
type geoPointDocument struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"`
	Address     string     `bson:"address,omitempty"`
}

// storeDocument is the MongoDB schema of a store.
type storeDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Slug        string             `bson:"slug"`
	Description string             `bson:"description,omitempty"`
	Tags        []string           `bson:"tags,omitempty"`
	Location    geoPointDocument   `bson:"location"`
	Photo       string             `bson:"photo"`
	Author      primitive.ObjectID `bson:"author"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// userDocument is the MongoDB schema of a registered owner.
type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name"`
	PasswordHash []byte             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

// tagCountDocument decodes one group of the unwind/group tag aggregation.
type tagCountDocument struct {
	Tag   string `bson:"_id"`
	Count int    `bson:"count"`
}

func newGeoPointDocument(point domain.GeoPoint) geoPointDocument {
	return geoPointDocument{
		Type:        point.Type,
		Coordinates: point.Coordinates,
		Address:     point.Address,
	}
}

func newStoreDocument(store *domain.Store) (storeDocument, error) {
	author, err := primitive.ObjectIDFromHex(strings.TrimSpace(store.AuthorID))
	if err != nil {
		return storeDocument{}, fmt.Errorf("%w: author id %q is not a valid object id", domain.ErrValidation, store.AuthorID)
	}
	return storeDocument{
		Name:        store.Name,
		Slug:        store.Slug,
		Description: store.Description,
		Tags:        store.Tags,
		Location:    newGeoPointDocument(store.Location),
		Photo:       store.Photo,
		Author:      author,
		CreatedAt:   store.CreatedAt,
		UpdatedAt:   store.UpdatedAt,
	}, nil
}

func mapStoreDocument(doc storeDocument) domain.Store {
	return domain.Store{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Slug:        doc.Slug,
		Description: doc.Description,
		Tags:        append([]string{}, doc.Tags...),
		Location: domain.GeoPoint{
			Type:        doc.Location.Type,
			Coordinates: doc.Location.Coordinates,
			Address:     doc.Location.Address,
		},
		Photo:     doc.Photo,
		AuthorID:  doc.Author.Hex(),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func mapUserDocument(doc userDocument) domain.User {
	return domain.User{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}
}
