package services

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/datatypes"

	"hotel-booking-api/apperror"
	"hotel-booking-api/models"
	"hotel-booking-api/repository"
)

// BookingService owns the rules that move accommodations between users and
// the ones that escalate user roles.
type BookingService struct {
	Store  repository.Store
	Logger *slog.Logger
}

func NewBookingService(store repository.Store, logger *slog.Logger) *BookingService {
	return &BookingService{Store: store, Logger: logger}
}

type BookingResult struct {
	User          models.User          `json:"user"`
	Accommodation models.Accommodation `json:"accommodation"`
}

// Book claims an available accommodation for userID. Callers book for
// themselves; admins may book on behalf of anyone.
func (s *BookingService) Book(ctx context.Context, actor models.User, userID, accommodationID string) (*BookingResult, error) {
	if actor.ID != userID && actor.Role != models.RoleAdmin {
		return nil, apperror.Wrap(apperror.ErrForbidden, "User %s cannot book for user %s", actor.ID, userID)
	}

	var result *BookingResult
	err := s.Store.Transaction(ctx, func(tx repository.Repositories) error {
		if _, err := tx.Users.FindByID(ctx, userID); err != nil {
			return notFound(err, apperror.ErrUserNotFound, "User %s not found", userID)
		}
		acc, hotel, err := lockAccommodation(ctx, tx, accommodationID)
		if err != nil {
			return err
		}
		user, err := tx.Users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return notFound(err, apperror.ErrUserNotFound, "User %s not found", userID)
		}

		if user.HasBooked(acc.ID) {
			return apperror.Wrap(apperror.ErrAlreadyBooked, "User %s already has booked accommodation %s", userID, acc.ID)
		}
		if !acc.Available {
			return apperror.Wrap(apperror.ErrNotAvailable, "Accommodation %s is not available at the moment", acc.ID)
		}

		acc.Book(user.ID)
		user.AddBooking(acc.ID)
		hotel.AdjustAvailable(true, false)

		if err := tx.Hotels.Save(ctx, hotel); err != nil {
			return storeError(err)
		}
		if err := tx.Accommodations.Save(ctx, acc); err != nil {
			return storeError(err)
		}
		if err := tx.Users.Save(ctx, user); err != nil {
			return storeError(err)
		}
		result = &BookingResult{User: user.Sanitized(), Accommodation: *acc}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resolveLogger(s.Logger).Info("accommodation booked",
		"accommodation_id", accommodationID,
		"user_id", userID,
		"actor_id", actor.ID,
	)
	return result, nil
}

// releaseAll returns every accommodation booked by userID to the pool and
// leaves the user, locked and with an empty booked set, for the caller to
// persist or delete. A booked id whose accommodation is gone aborts the
// whole operation.
func (s *BookingService) releaseAll(ctx context.Context, tx repository.Repositories, userID string) (*models.User, error) {
	logger := resolveLogger(s.Logger)

	user, err := tx.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, apperror.ErrUserNotFound, "User %s not found", userID)
	}

	released := make(map[string]bool)
	for {
		var pending []string
		for _, id := range user.BookedAccommodations {
			if !released[id] {
				pending = append(pending, id)
			}
		}
		if len(pending) == 0 {
			break
		}
		for _, id := range pending {
			if err := s.releaseOne(ctx, tx, logger, userID, id); err != nil {
				return nil, err
			}
			released[id] = true
		}
		// the booked set may have grown while the accommodations were being locked
		user, err = tx.Users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return nil, notFound(err, apperror.ErrUserNotFound, "User %s not found", userID)
		}
	}

	user.BookedAccommodations = datatypes.JSONSlice[string]{}
	if len(released) > 0 {
		logger.Info("bookings released", "user_id", userID, "count", len(released))
	}
	return user, nil
}

func (s *BookingService) releaseOne(ctx context.Context, tx repository.Repositories, logger *slog.Logger, userID, accommodationID string) error {
	acc, hotel, err := lockAccommodation(ctx, tx, accommodationID)
	if err != nil {
		if errors.Is(err, apperror.ErrAccommodationNotFound) || errors.Is(err, apperror.ErrHotelNotFound) {
			logger.Error("booked accommodation missing",
				"user_id", userID,
				"accommodation_id", accommodationID,
				"error", err.Error(),
			)
		}
		return err
	}
	if acc.IsBooked() && *acc.BookedByID != userID {
		logger.Warn("booked set references an accommodation held by another user",
			"user_id", userID,
			"accommodation_id", accommodationID,
			"holder_id", *acc.BookedByID,
		)
		return nil
	}

	wasAvailable := acc.Available
	acc.Release()
	if wasAvailable != acc.Available {
		hotel.AdjustAvailable(wasAvailable, acc.Available)
		if err := tx.Hotels.Save(ctx, hotel); err != nil {
			return storeError(err)
		}
	}
	if err := tx.Accommodations.Save(ctx, acc); err != nil {
		return storeError(err)
	}
	return nil
}

// ConvertToManager makes userID the manager of hotelID whatever its previous
// role. A hotel has at most one manager.
func (s *BookingService) ConvertToManager(ctx context.Context, userID, hotelID string) (*models.User, error) {
	var promoted *models.User
	err := s.Store.Transaction(ctx, func(tx repository.Repositories) error {
		if _, err := tx.Users.FindByID(ctx, userID); err != nil {
			return notFound(err, apperror.ErrUserNotFound, "User %s not found", userID)
		}
		if _, err := tx.Hotels.FindByIDForUpdate(ctx, hotelID); err != nil {
			return notFound(err, apperror.ErrHotelNotFound, "Hotel %s not found", hotelID)
		}
		if err := claimManagement(ctx, tx, userID, hotelID); err != nil {
			return err
		}
		user, err := tx.Users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return notFound(err, apperror.ErrUserNotFound, "User %s not found", userID)
		}

		user.Role = models.RoleHotelManager
		user.ManagedHotelID = &hotelID
		if err := tx.Users.Save(ctx, user); err != nil {
			return storeError(err)
		}
		promoted = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	resolveLogger(s.Logger).Info("user converted to hotel manager", "user_id", userID, "hotel_id", hotelID)
	clean := promoted.Sanitized()
	return &clean, nil
}

// ConvertToAdmin grants the admin role. The managed hotel is left as is.
func (s *BookingService) ConvertToAdmin(ctx context.Context, userID string) (*models.User, error) {
	var promoted *models.User
	err := s.Store.Transaction(ctx, func(tx repository.Repositories) error {
		user, err := tx.Users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return notFound(err, apperror.ErrUserNotFound, "User %s not found", userID)
		}
		user.Role = models.RoleAdmin
		if err := tx.Users.Save(ctx, user); err != nil {
			return storeError(err)
		}
		promoted = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	resolveLogger(s.Logger).Info("user converted to admin", "user_id", userID)
	clean := promoted.Sanitized()
	return &clean, nil
}
