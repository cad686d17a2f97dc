package domain

import (
	"fmt"
	"strings"
	"time"
)

// PhotoPlaceholder is the photo filename recorded for stores without an upload.
// The web layer serves it as a static asset.
const PhotoPlaceholder = "store.png"

// GeoPoint is a GeoJSON point with the human-readable address it was
// geocoded from. Coordinates are ordered [longitude, latitude].
type GeoPoint struct {
	Type        string
	Coordinates [2]float64
	Address     string
}

// NewGeoPoint validates coordinate ranges and returns a well-formed point.
func NewGeoPoint(lng, lat float64, address string) (GeoPoint, error) {
	if lng < -180 || lng > 180 {
		return GeoPoint{}, fmt.Errorf("%w: longitude %v out of range", ErrValidation, lng)
	}
	if lat < -90 || lat > 90 {
		return GeoPoint{}, fmt.Errorf("%w: latitude %v out of range", ErrValidation, lat)
	}
	return GeoPoint{
		Type:        "Point",
		Coordinates: [2]float64{lng, lat},
		Address:     strings.TrimSpace(address),
	}, nil
}

func (p GeoPoint) Longitude() float64 { return p.Coordinates[0] }
func (p GeoPoint) Latitude() float64  { return p.Coordinates[1] }

// Store is the catalog aggregate. Slug and AuthorID are assigned once at
// creation and never change afterwards.
type Store struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Tags        []string
	Location    GeoPoint
	Photo       string
	AuthorID    string
	Author      *User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TagCount is one row of the catalog-wide tag aggregation.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// NormalizeTags trims whitespace, drops empty values and removes duplicates
// while preserving the order tags were submitted in.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	return normalized
}
