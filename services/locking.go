package services

import (
	"context"

	"hotel-booking-api/apperror"
	"hotel-booking-api/models"
	"hotel-booking-api/repository"
)

// Rows are always locked hotel first, then accommodation, then user.
// Anything that needs an accommodation lock peeks at the row to learn its
// hotel, locks the hotel, and only then locks the accommodation.

// lockAccommodation returns the accommodation and its owning hotel, both locked.
// A missing hotel is an integrity violation and surfaces as HotelNotFound.
func lockAccommodation(ctx context.Context, tx repository.Repositories, id string) (*models.Accommodation, *models.Hotel, error) {
	peek, err := tx.Accommodations.FindByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, apperror.ErrAccommodationNotFound, "Accommodation %s not found", id)
	}
	hotel, err := tx.Hotels.FindByIDForUpdate(ctx, peek.HotelID)
	if err != nil {
		return nil, nil, notFound(err, apperror.ErrHotelNotFound, "Hotel %s not found", peek.HotelID)
	}
	acc, err := tx.Accommodations.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, apperror.ErrAccommodationNotFound, "Accommodation %s not found", id)
	}
	return acc, hotel, nil
}

// canManageHotel reports whether actor may mutate the hotel and its
// accommodations. Admins are unscoped; hotel managers only reach their own hotel.
func canManageHotel(actor models.User, hotelID string) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleHotelManager:
		return actor.Manages(hotelID)
	default:
		return false
	}
}

// claimManagement fails when a user other than userID already manages hotelID.
func claimManagement(ctx context.Context, tx repository.Repositories, userID, hotelID string) error {
	managers, err := tx.Users.FindByManagedHotelForUpdate(ctx, hotelID)
	if err != nil {
		return storeError(err)
	}
	for _, m := range managers {
		if m.ID != userID {
			return apperror.Wrap(apperror.ErrHotelAlreadyManaged, "Hotel %s is already managed by user %s", hotelID, m.ID)
		}
	}
	return nil
}
