package capture

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rwcarlsen/goexif/exif"
)

// GeolocateTimeout bounds every position query. Cached positions are
// never reused; a capture either gets a fresh fix or no coordinates.
const GeolocateTimeout = 10 * time.Second

// Coords is a geolocation tag for a photo.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geolocator produces the device's current position. Implementations
// are platform collaborators (GPS receiver, browser bridge); tests use
// fakes.
type Geolocator interface {
	Current(ctx context.Context) (Coords, error)
}

// ResolveCoords queries the geolocator under GeolocateTimeout and falls
// back to the image's EXIF GPS tags when the fix fails. Both failing is
// routine: coordinates stay optional metadata and never block a save.
func ResolveCoords(ctx context.Context, geo Geolocator, imageData []byte) *Coords {
	if geo != nil {
		ctx, cancel := context.WithTimeout(ctx, GeolocateTimeout)
		defer cancel()
		if c, err := geo.Current(ctx); err == nil {
			return &c
		} else {
			log.Warn(fmt.Sprintf("[Capture] geolocation failed, trying EXIF: %v", err))
		}
	}

	if c, err := CoordsFromEXIF(imageData); err == nil {
		return c
	}
	return nil
}

// CoordsFromEXIF extracts GPS coordinates from the image's EXIF data.
// Images without EXIF are common and not an error worth surfacing.
func CoordsFromEXIF(imageData []byte) (*Coords, error) {
	x, err := exif.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("no EXIF data: %w", err)
	}
	lat, lng, err := x.LatLong()
	if err != nil {
		return nil, fmt.Errorf("no GPS tags: %w", err)
	}
	return &Coords{Lat: lat, Lng: lng}, nil
}
