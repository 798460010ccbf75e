package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Hotel struct {
	ID      string `gorm:"type:char(36);primaryKey" json:"id"`
	Name    string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Address string `gorm:"size:255" json:"address"`

	// AccommodationIDs and NAvailableAccommodations are derived from the
	// hotel's accommodations and are never taken from client input.
	AccommodationIDs         datatypes.JSONSlice[string] `gorm:"column:accommodation_ids;not null" json:"accommodationIds"`
	NAvailableAccommodations int                         `gorm:"column:n_available_accommodations;not null" json:"nAvailableAccommodations"`

	// read-only, filled by preload for listings
	Accommodations []Accommodation `gorm:"foreignKey:HotelID" json:"accommodations,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (h *Hotel) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = newID()
	}
	if h.AccommodationIDs == nil {
		h.AccommodationIDs = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (h *Hotel) HasAccommodation(id string) bool {
	return containsID(h.AccommodationIDs, id)
}

// AttachAccommodation adds acc to the hotel's set and counts it when available.
func (h *Hotel) AttachAccommodation(acc *Accommodation) {
	if !h.HasAccommodation(acc.ID) {
		h.AccommodationIDs = append(h.AccommodationIDs, acc.ID)
	}
	if acc.Available {
		h.NAvailableAccommodations++
	}
}

// DetachAccommodation is the inverse of AttachAccommodation.
func (h *Hotel) DetachAccommodation(acc *Accommodation) {
	h.AccommodationIDs = withoutID(h.AccommodationIDs, acc.ID)
	if acc.Available && h.NAvailableAccommodations > 0 {
		h.NAvailableAccommodations--
	}
}

// AdjustAvailable applies the counter change for an availability flip.
func (h *Hotel) AdjustAvailable(wasAvailable, isAvailable bool) {
	switch {
	case !wasAvailable && isAvailable:
		h.NAvailableAccommodations++
	case wasAvailable && !isAvailable && h.NAvailableAccommodations > 0:
		h.NAvailableAccommodations--
	}
}
