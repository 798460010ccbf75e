package models

import (
	"time"

	"gorm.io/gorm"
)

type AccommodationType string

const (
	GuestRoom AccommodationType = "Guest room"
	Suite     AccommodationType = "Suite"
	Apartment AccommodationType = "Apartment"
)

type Location struct {
	Floor  int    `gorm:"column:floor;not null" json:"floor"`
	Letter string `gorm:"column:letter;size:2;not null" json:"letter"`
}

type Accommodation struct {
	ID      string `gorm:"type:char(36);primaryKey" json:"id"`
	HotelID string `gorm:"type:char(36);index;not null" json:"hotelId"`
	Hotel   *Hotel `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`

	Type     AccommodationType `gorm:"size:20;not null" json:"type"`
	Price    float64           `gorm:"not null" json:"price"`
	NRooms   int               `gorm:"column:n_rooms;not null" json:"nRooms"`
	Location Location          `gorm:"embedded;embeddedPrefix:location_" json:"location"`

	Available     bool `gorm:"not null" json:"available"`
	OnMaintenance bool `gorm:"not null" json:"onMaintenance"`

	// BookedByID is the user currently holding the accommodation.
	BookedByID *string `gorm:"type:char(36);index" json:"bookedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Accommodation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	return nil
}

func (a *Accommodation) IsBooked() bool {
	return a.BookedByID != nil
}

// ApplyMaintenance keeps available and onMaintenance mutually exclusive.
// available is only consulted when maintenance is off.
func (a *Accommodation) ApplyMaintenance(onMaintenance bool, available bool) {
	if onMaintenance {
		a.OnMaintenance = true
		a.Available = false
		return
	}
	a.OnMaintenance = false
	a.Available = available
}

// Book marks the accommodation as held by userID.
func (a *Accommodation) Book(userID string) {
	a.Available = false
	a.BookedByID = &userID
}

// Release returns a booked accommodation to the available pool.
func (a *Accommodation) Release() {
	a.BookedByID = nil
	a.Available = !a.OnMaintenance
}
