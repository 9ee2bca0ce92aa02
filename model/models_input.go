package model

import "time"

type PlantInput struct {
	Name                  string  `json:"name" validate:"required,max=100"`
	ScientificName        string  `json:"scientificName" validate:"max=200"`
	WateringFrequencyDays int     `json:"wateringFrequencyDays" validate:"min=1,max=365"`
	RoomID                *uint64 `json:"roomID"`
	PhotoURL              string  `json:"photoURL" validate:"omitempty,url"`
	CareWatering          string  `json:"careWatering"`
	CareLight             string  `json:"careLight"`
	CareHumidity          string  `json:"careHumidity"`
	CareTemperature       string  `json:"careTemperature"`
	CareNotes             string  `json:"careNotes"`
}

type RoomInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

type WateringInput struct {
	WateredAt *time.Time `json:"wateredAt"`
}
