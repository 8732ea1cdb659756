package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Mode values accepted for an event.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeHybrid  = "hybrid"
)

type Event struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Slug        string                      `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Title       string                      `json:"title" gorm:"type:varchar(255);not null"`
	Description string                      `json:"description" gorm:"type:text"`
	Overview    string                      `json:"overview" gorm:"type:text"`
	Image       string                      `json:"image" gorm:"type:varchar(512)"`
	ImagePath   string                      `json:"-" gorm:"type:varchar(512)"`
	Venue       string                      `json:"venue" gorm:"type:varchar(255)"`
	Location    string                      `json:"location" gorm:"type:varchar(255)"`
	Date        time.Time                   `json:"date" gorm:"type:date;not null"`
	Time        string                      `json:"time" gorm:"type:varchar(5);not null"`
	Mode        string                      `json:"mode" gorm:"type:varchar(20);not null"`
	Audience    string                      `json:"audience" gorm:"type:varchar(255)"`
	Organizer   string                      `json:"organizer" gorm:"type:varchar(255)"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Agenda      datatypes.JSONSlice[string] `json:"agenda"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// EventWithBookings decorates an event with its derived booking count.
// The count is never persisted; it is recomputed per request.
type EventWithBookings struct {
	Event
	BookedSpots int64 `json:"bookedSpots"`
}
