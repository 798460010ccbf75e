package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"hotel-booking-api/apperror"
	"hotel-booking-api/models"
	"hotel-booking-api/repository"
)

type LocationInput struct {
	Floor  *int   `json:"floor" validate:"required,min=0"`
	Letter string `json:"letter" validate:"required,min=1,max=2"`
}

type CreateAccommodationInput struct {
	Hotel         string                   `json:"hotel" validate:"required"`
	Type          models.AccommodationType `json:"type" validate:"required,oneof='Guest room' Suite Apartment"`
	Price         float64                  `json:"price" validate:"gt=0"`
	NRooms        int                      `json:"nRooms" validate:"min=1,max=4"`
	Location      LocationInput            `json:"location"`
	Available     *bool                    `json:"available"`
	OnMaintenance *bool                    `json:"onMaintenance"`
}

func (in *CreateAccommodationInput) normalize() {
	in.Hotel = strings.TrimSpace(in.Hotel)
	in.Type = models.AccommodationType(strings.TrimSpace(string(in.Type)))
	in.Location.Letter = strings.TrimSpace(in.Location.Letter)
}

// UpdateAccommodationInput is a patch, except for OnMaintenance, which is
// false when omitted. The owning hotel and the location are fixed at
// creation, so they are not part of it.
type UpdateAccommodationInput struct {
	Type          *models.AccommodationType `json:"type" validate:"omitempty,oneof='Guest room' Suite Apartment"`
	Price         *float64                  `json:"price" validate:"omitempty,gt=0"`
	NRooms        *int                      `json:"nRooms" validate:"omitempty,min=1,max=4"`
	Available     *bool                     `json:"available"`
	OnMaintenance *bool                     `json:"onMaintenance"`
}

func (in *UpdateAccommodationInput) normalize() {
	if in.Type != nil {
		t := models.AccommodationType(strings.TrimSpace(string(*in.Type)))
		in.Type = &t
	}
}

type AccommodationService struct {
	Store  repository.Store
	Logger *slog.Logger
}

func NewAccommodationService(store repository.Store, logger *slog.Logger) *AccommodationService {
	return &AccommodationService{Store: store, Logger: logger}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Create adds an accommodation to an existing hotel and registers it in the
// hotel's set and available counter.
func (s *AccommodationService) Create(ctx context.Context, actor models.User, in CreateAccommodationInput) (*models.Accommodation, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return nil, err
	}
	hotelID, ok := models.NormalizeID(in.Hotel)
	if !ok {
		return nil, apperror.Wrap(apperror.ErrInvalidIDFormat, "Invalid ID format: %s", in.Hotel)
	}
	if !canManageHotel(actor, hotelID) {
		return nil, apperror.Wrap(apperror.ErrForbidden, "User %s cannot add accommodations to hotel %s", actor.ID, hotelID)
	}

	var created *models.Accommodation
	err := s.Store.Transaction(ctx, func(tx repository.Repositories) error {
		hotel, err := tx.Hotels.FindByIDForUpdate(ctx, hotelID)
		if err != nil {
			return notFound(err, apperror.ErrHotelNotFound, "Hotel %s not found", hotelID)
		}

		acc := &models.Accommodation{
			HotelID:  hotel.ID,
			Type:     in.Type,
			Price:    in.Price,
			NRooms:   in.NRooms,
			Location: models.Location{Floor: *in.Location.Floor, Letter: in.Location.Letter},
		}
		acc.ApplyMaintenance(boolOr(in.OnMaintenance, false), boolOr(in.Available, true))
		if err := tx.Accommodations.Create(ctx, acc); err != nil {
			return storeError(err)
		}

		hotel.AttachAccommodation(acc)
		if err := tx.Hotels.Save(ctx, hotel); err != nil {
			return storeError(err)
		}
		created = acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	resolveLogger(s.Logger).Info("accommodation created",
		"accommodation_id", created.ID,
		"hotel_id", created.HotelID,
		"available", created.Available,
	)
	return created, nil
}

func (s *AccommodationService) Get(ctx context.Context, id string) (*models.Accommodation, error) {
	acc, err := s.Store.Repositories().Accommodations.GetWithHotel(ctx, id)
	if err != nil {
		return nil, notFound(err, apperror.ErrAccommodationNotFound, "Accommodation %s not found", id)
	}
	return acc, nil
}

func (s *AccommodationService) List(ctx context.Context) ([]models.Accommodation, error) {
	accs, err := s.Store.Repositories().Accommodations.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return accs, nil
}

// Update patches an accommodation. Availability and maintenance stay mutually
// exclusive and the hotel counter follows any availability change. A booked
// accommodation keeps its flags until the booking is released.
func (s *AccommodationService) Update(ctx context.Context, actor models.User, id string, in UpdateAccommodationInput) (*models.Accommodation, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var updated *models.Accommodation
	err := s.Store.Transaction(ctx, func(tx repository.Repositories) error {
		acc, hotel, err := lockAccommodation(ctx, tx, id)
		if err != nil {
			return err
		}
		if !canManageHotel(actor, acc.HotelID) {
			return apperror.Wrap(apperror.ErrForbidden, "User %s cannot modify accommodation %s", actor.ID, id)
		}

		next := *acc
		next.ApplyMaintenance(boolOr(in.OnMaintenance, false), boolOr(in.Available, acc.Available))
		flagsChanged := next.Available != acc.Available || next.OnMaintenance != acc.OnMaintenance
		if flagsChanged && acc.IsBooked() {
			return apperror.Wrap(apperror.ErrAccommodationBooked, "Accommodation %s is booked by user %s", id, *acc.BookedByID)
		}

		if in.Type != nil {
			acc.Type = *in.Type
		}
		if in.Price != nil {
			acc.Price = *in.Price
		}
		if in.NRooms != nil {
			acc.NRooms = *in.NRooms
		}

		if flagsChanged {
			hotel.AdjustAvailable(acc.Available, next.Available)
			acc.Available, acc.OnMaintenance = next.Available, next.OnMaintenance
			if err := tx.Hotels.Save(ctx, hotel); err != nil {
				return storeError(err)
			}
		}
		if err := tx.Accommodations.Save(ctx, acc); err != nil {
			return storeError(err)
		}
		updated = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the accommodation from its hotel and from the booked set of
// the user holding it, then deletes the record.
func (s *AccommodationService) Delete(ctx context.Context, actor models.User, id string) (*models.Accommodation, error) {
	logger := resolveLogger(s.Logger)

	var removed *models.Accommodation
	err := s.Store.Transaction(ctx, func(tx repository.Repositories) error {
		acc, hotel, err := lockAccommodation(ctx, tx, id)
		if err != nil {
			if errors.Is(err, apperror.ErrHotelNotFound) {
				logger.Error("accommodation without owning hotel", "accommodation_id", id)
			}
			return err
		}
		if !canManageHotel(actor, acc.HotelID) {
			return apperror.Wrap(apperror.ErrForbidden, "User %s cannot delete accommodation %s", actor.ID, id)
		}

		hotel.DetachAccommodation(acc)
		if err := tx.Hotels.Save(ctx, hotel); err != nil {
			return storeError(err)
		}
		if acc.IsBooked() {
			if err := dropBooking(ctx, tx, logger, acc); err != nil {
				return err
			}
		}
		if err := tx.Accommodations.Delete(ctx, id); err != nil {
			return notFound(err, apperror.ErrAccommodationNotFound, "Accommodation %s not found", id)
		}
		removed = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("accommodation deleted", "accommodation_id", id, "hotel_id", removed.HotelID)
	return removed, nil
}
