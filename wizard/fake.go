package wizard

import (
	"context"
	"hash/fnv"
	"sync"
)

type catalogEntry struct {
	Identification
	Care CareInstructions
}

var catalog = []catalogEntry{
	{
		Identification: Identification{Name: "Monstera", ScientificName: "Monstera deliciosa", Confidence: 0.92},
		Care: CareInstructions{
			WateringFrequencyDays: 7,
			Watering:              "Water when the top 5 cm of soil are dry.",
			Light:                 "Bright, indirect light.",
			Humidity:              "Prefers 60% or more.",
			Temperature:           "18 to 27 °C.",
		},
	},
	{
		Identification: Identification{Name: "Snake Plant", ScientificName: "Dracaena trifasciata", Confidence: 0.88},
		Care: CareInstructions{
			WateringFrequencyDays: 21,
			Watering:              "Let the soil dry out completely between waterings.",
			Light:                 "Low to bright indirect light.",
			Humidity:              "Average room humidity is fine.",
			Temperature:           "15 to 29 °C.",
		},
	},
	{
		Identification: Identification{Name: "Boston Fern", ScientificName: "Nephrolepis exaltata", Confidence: 0.85},
		Care: CareInstructions{
			WateringFrequencyDays: 3,
			Watering:              "Keep the soil evenly moist.",
			Light:                 "Indirect light, no direct sun.",
			Humidity:              "High, mist regularly.",
			Temperature:           "16 to 24 °C.",
		},
	},
	{
		Identification: Identification{Name: "Aloe Vera", ScientificName: "Aloe barbadensis miller", Confidence: 0.9},
		Care: CareInstructions{
			WateringFrequencyDays: 14,
			Watering:              "Water deeply but rarely.",
			Light:                 "Bright light, some direct sun.",
			Humidity:              "Low.",
			Temperature:           "13 to 27 °C.",
		},
	},
	{
		Identification: Identification{Name: "Golden Pothos", ScientificName: "Epipremnum aureum", Confidence: 0.87},
		Care: CareInstructions{
			WateringFrequencyDays: 7,
			Watering:              "Water when the top third of the soil is dry.",
			Light:                 "Medium indirect light.",
			Humidity:              "Average.",
			Temperature:           "15 to 30 °C.",
		},
	},
}

// FakeProvider answers from a small built-in catalog. The same photo always
// yields the same plant.
type FakeProvider struct {
	mutex sync.Mutex
	err   error
	calls int
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{}
}

func (p *FakeProvider) Name() string {
	return "fake"
}

// SetError makes every following call fail with err. A nil err restores
// normal answers.
func (p *FakeProvider) SetError(err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.err = err
}

// Calls returns how often Identify and GenerateCare were invoked.
func (p *FakeProvider) Calls() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.calls
}

func (p *FakeProvider) Identify(_ context.Context, img Image) (Identification, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.calls++
	if p.err != nil {
		return Identification{}, p.err
	}

	h := fnv.New32a()
	_, _ = h.Write(img.Data)
	return catalog[h.Sum32()%uint32(len(catalog))].Identification, nil
}

func (p *FakeProvider) GenerateCare(_ context.Context, plantName string) (CareInstructions, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.calls++
	if p.err != nil {
		return CareInstructions{}, p.err
	}

	for _, e := range catalog {
		if e.Name == plantName {
			return e.Care, nil
		}
	}

	return CareInstructions{
		WateringFrequencyDays: 7,
		Watering:              "Water when the top of the soil feels dry.",
		Light:                 "Bright, indirect light.",
		Notes:                 "Generic instructions, " + plantName + " is not in the catalog.",
	}, nil
}
