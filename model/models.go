package model

import "time"

const (
	MaxPlantsPerUser                  = 1000
	FreeAIGenerationsPerMonth         = 5
	MinWateringFrequencyDays          = 1
	MaxWateringFrequencyDays          = 365
	DefaultPlantsDueSoonThresholdDays = 2
	DefaultPlantsOverdueThresholdDays = -1
	MaxRoomNameLength                 = 50
	MaxPlantNameLength                = 100
)

type Plant struct {
	ID                    uint64    `json:"id" gorm:"primaryKey"`
	UserID                string    `json:"userID" gorm:"index;not null"`
	Name                  string    `json:"name" gorm:"not null"`
	ScientificName        string    `json:"scientificName"`
	WateringFrequencyDays int       `json:"wateringFrequencyDays" gorm:"not null"`
	RoomID                *uint64   `json:"roomID" gorm:"index"`
	Room                  *Room     `json:"room,omitempty" gorm:"foreignKey:RoomID;references:ID;constraint:OnDelete:SET NULL"`
	PhotoURL              string    `json:"photoURL"`
	CareWatering          string    `json:"careWatering"`
	CareLight             string    `json:"careLight"`
	CareHumidity          string    `json:"careHumidity"`
	CareTemperature       string    `json:"careTemperature"`
	CareNotes             string    `json:"careNotes"`
	CreatedByAI           bool      `json:"createdByAI"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

type WateringEvent struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	PlantID   uint64    `json:"plantID" gorm:"index:idx_watering_plant_time,priority:1;not null"`
	Plant     *Plant    `json:"-" gorm:"foreignKey:PlantID;references:ID;constraint:OnDelete:CASCADE"`
	WateredAt time.Time `json:"wateredAt" gorm:"index:idx_watering_plant_time,priority:2;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

type Room struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userID" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"size:50;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UsageRecord struct {
	ID                     uint64    `json:"id" gorm:"primaryKey"`
	UserID                 string    `json:"userID" gorm:"uniqueIndex:idx_usage_user_month,priority:1;not null"`
	MonthYear              string    `json:"monthYear" gorm:"uniqueIndex:idx_usage_user_month,priority:2;size:7;not null"`
	AIGenerationsThisMonth int       `json:"aiGenerationsThisMonth" gorm:"not null;default:0"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// ScheduleStatus is derived from a plant and its latest watering. It is never
// persisted.
type ScheduleStatus struct {
	NextWateringDate  *time.Time `json:"nextWateringDate"`
	LastWateredDate   *time.Time `json:"lastWateredDate"`
	DaysUntilWatering *int       `json:"daysUntilWatering"`
	IsOverdue         bool       `json:"isOverdue"`
}

type PlantWithStatus struct {
	Plant
	Schedule ScheduleStatus `json:"schedule"`
}
