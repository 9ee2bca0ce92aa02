// Package wizard creates plants from a photo with the help of an AI provider.
package wizard

import "context"

type Image struct {
	Data        []byte
	ContentType string
}

type Identification struct {
	Name           string  `json:"name"`
	ScientificName string  `json:"scientificName"`
	Confidence     float64 `json:"confidence"`
}

type CareInstructions struct {
	WateringFrequencyDays int    `json:"wateringFrequencyDays"`
	Watering              string `json:"watering"`
	Light                 string `json:"light"`
	Humidity              string `json:"humidity"`
	Temperature           string `json:"temperature"`
	Notes                 string `json:"notes"`
}

// Provider identifies plants and writes care instructions for them. Every
// successful call pair is one AI generation.
type Provider interface {
	Name() string
	Identify(ctx context.Context, img Image) (Identification, error)
	GenerateCare(ctx context.Context, plantName string) (CareInstructions, error)
}
