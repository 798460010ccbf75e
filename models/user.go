package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID           string `gorm:"type:char(36);primaryKey" json:"id"`
	Username     string `gorm:"size:50;uniqueIndex;not null" json:"userName"`
	PasswordHash string `gorm:"column:password;size:255;not null" json:"-"` // bcrypt hash, never serialized
	Role         Role   `gorm:"size:20;not null" json:"role"`

	ManagedHotelID *string `gorm:"type:char(36);index" json:"managedHotelId"`
	ManagedHotel   *Hotel  `gorm:"foreignKey:ManagedHotelID" json:"managedHotel,omitempty"`

	BookedAccommodations datatypes.JSONSlice[string] `gorm:"column:booked_accommodations;not null" json:"bookedAccommodations"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.BookedAccommodations == nil {
		u.BookedAccommodations = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (u *User) HasBooked(accommodationID string) bool {
	return containsID(u.BookedAccommodations, accommodationID)
}

func (u *User) AddBooking(accommodationID string) {
	if !u.HasBooked(accommodationID) {
		u.BookedAccommodations = append(u.BookedAccommodations, accommodationID)
	}
}

func (u *User) RemoveBooking(accommodationID string) {
	u.BookedAccommodations = withoutID(u.BookedAccommodations, accommodationID)
}

func (u *User) Manages(hotelID string) bool {
	return u.ManagedHotelID != nil && *u.ManagedHotelID == hotelID
}

// Sanitized returns a copy safe to attach to a request: no password hash.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
