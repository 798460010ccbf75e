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

type CreateHotelInput struct {
	Name    string `json:"name" validate:"required,min=3,max=50"`
	Address string `json:"address" validate:"required"`
}

func (in *CreateHotelInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
}

// UpdateHotelInput is a patch. The accommodation set and the counter are
// derived and cannot be set by a caller.
type UpdateHotelInput struct {
	Name    *string `json:"name" validate:"omitempty,min=3,max=50"`
	Address *string `json:"address" validate:"omitempty,min=1"`
}

func (in *UpdateHotelInput) normalize() {
	trimPtr(in.Name)
	trimPtr(in.Address)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

type HotelService struct {
	Store  repository.Store
	Logger *slog.Logger
}

func NewHotelService(store repository.Store, logger *slog.Logger) *HotelService {
	return &HotelService{Store: store, Logger: logger}
}

func duplicateName(name string) error {
	return apperror.Wrap(apperror.ErrDuplicateName, "Hotel with name %q already exists", name)
}

func (s *HotelService) Create(ctx context.Context, in CreateHotelInput) (*models.Hotel, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return nil, err
	}

	repos := s.Store.Repositories()
	if _, err := repos.Hotels.FindByName(ctx, in.Name); err == nil {
		return nil, duplicateName(in.Name)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err)
	}

	hotel := &models.Hotel{Name: in.Name, Address: in.Address}
	if err := repos.Hotels.Create(ctx, hotel); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, duplicateName(in.Name)
		}
		return nil, storeError(err)
	}

	resolveLogger(s.Logger).Info("hotel created", "hotel_id", hotel.ID, "name", hotel.Name)
	return hotel, nil
}

func (s *HotelService) Get(ctx context.Context, id string) (*models.Hotel, error) {
	hotel, err := s.Store.Repositories().Hotels.GetWithSummaries(ctx, id)
	if err != nil {
		return nil, notFound(err, apperror.ErrHotelNotFound, "Hotel %s not found", id)
	}
	return hotel, nil
}

func (s *HotelService) List(ctx context.Context) ([]models.Hotel, error) {
	hotels, err := s.Store.Repositories().Hotels.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return hotels, nil
}

// Update renames or re-addresses a hotel. Hotel managers may only touch the
// hotel they manage.
func (s *HotelService) Update(ctx context.Context, actor models.User, id string, in UpdateHotelInput) (*models.Hotel, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !canManageHotel(actor, id) {
		return nil, apperror.Wrap(apperror.ErrForbidden, "User %s cannot modify hotel %s", actor.ID, id)
	}

	var updated *models.Hotel
	err := s.Store.Transaction(ctx, func(tx repository.Repositories) error {
		hotel, err := tx.Hotels.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, apperror.ErrHotelNotFound, "Hotel %s not found", id)
		}

		if in.Name != nil && *in.Name != hotel.Name {
			other, err := tx.Hotels.FindByName(ctx, *in.Name)
			switch {
			case err == nil && other.ID != hotel.ID:
				return duplicateName(*in.Name)
			case err != nil && !errors.Is(err, repository.ErrNotFound):
				return storeError(err)
			}
			hotel.Name = *in.Name
		}
		if in.Address != nil {
			hotel.Address = *in.Address
		}

		if err := tx.Hotels.Save(ctx, hotel); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return duplicateName(hotel.Name)
			}
			return storeError(err)
		}
		updated = hotel
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the hotel with every accommodation it owns. Bookings of those
// accommodations are dropped from their users and the hotel's manager goes
// back to a plain user.
func (s *HotelService) Delete(ctx context.Context, id string) (*models.Hotel, error) {
	logger := resolveLogger(s.Logger)

	var removed *models.Hotel
	err := s.Store.Transaction(ctx, func(tx repository.Repositories) error {
		hotel, err := tx.Hotels.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, apperror.ErrHotelNotFound, "Hotel %s not found", id)
		}

		accs, err := tx.Accommodations.FindByHotelForUpdate(ctx, id)
		if err != nil {
			return storeError(err)
		}
		for i := range accs {
			acc := &accs[i]
			if acc.IsBooked() {
				if err := dropBooking(ctx, tx, logger, acc); err != nil {
					return err
				}
			}
			if err := tx.Accommodations.Delete(ctx, acc.ID); err != nil {
				return notFound(err, apperror.ErrAccommodationNotFound, "Accommodation %s not found", acc.ID)
			}
		}

		managers, err := tx.Users.FindByManagedHotelForUpdate(ctx, id)
		if err != nil {
			return storeError(err)
		}
		for i := range managers {
			m := &managers[i]
			m.ManagedHotelID = nil
			if m.Role == models.RoleHotelManager {
				m.Role = models.RoleUser
			}
			if err := tx.Users.Save(ctx, m); err != nil {
				return storeError(err)
			}
		}

		if err := tx.Hotels.Delete(ctx, id); err != nil {
			return notFound(err, apperror.ErrHotelNotFound, "Hotel %s not found", id)
		}
		removed = hotel
		logger.Info("hotel deleted",
			"hotel_id", id,
			"accommodations", len(accs),
			"managers_cleared", len(managers),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// dropBooking removes acc from the booked set of the user holding it.
// A holder that no longer exists is logged and otherwise ignored.
func dropBooking(ctx context.Context, tx repository.Repositories, logger *slog.Logger, acc *models.Accommodation) error {
	holderID := *acc.BookedByID
	holder, err := tx.Users.FindByIDForUpdate(ctx, holderID)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Warn("booking holder missing", "accommodation_id", acc.ID, "user_id", holderID)
		return nil
	}
	if err != nil {
		return storeError(err)
	}
	holder.RemoveBooking(acc.ID)
	if err := tx.Users.Save(ctx, holder); err != nil {
		return storeError(err)
	}
	return nil
}
