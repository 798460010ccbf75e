package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"hotel-booking-api/apperror"
	"hotel-booking-api/auth"
	"hotel-booking-api/models"
	"hotel-booking-api/repository"
)

type RegisterInput struct {
	Username string `json:"userName" validate:"required,max=50"`
	Password string `json:"password" validate:"required,bcrypt_max"`
}

func (in *RegisterInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
}

type LoginInput struct {
	Username string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserInput is a patch. Role and booked accommodations are never taken
// from a caller; ManagedHotel is honoured only for hotel managers.
type UpdateUserInput struct {
	Username     *string `json:"userName" validate:"omitempty,min=1,max=50"`
	Password     *string `json:"password" validate:"omitempty,min=1,bcrypt_max"`
	ManagedHotel *string `json:"managedHotel"`
}

func (in *UpdateUserInput) normalize() {
	trimPtr(in.Username)
	trimPtr(in.ManagedHotel)
}

// TokenSigner issues bearer credentials for a user id.
type TokenSigner interface {
	Sign(userID string) (string, error)
}

type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// UserProfile is a user together with summaries of the accommodations it holds.
type UserProfile struct {
	User   models.User
	Booked []models.Accommodation
}

type UserService struct {
	Store    repository.Store
	Tokens   TokenSigner
	Bookings *BookingService
	Logger   *slog.Logger
}

func NewUserService(store repository.Store, tokens TokenSigner, bookings *BookingService, logger *slog.Logger) *UserService {
	return &UserService{Store: store, Tokens: tokens, Bookings: bookings, Logger: logger}
}

func duplicateUsername(username string) error {
	return apperror.Wrap(apperror.ErrDuplicateUsername, "User %q already exists", username)
}

// Register creates a plain user. Registration never grants a higher role.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return nil, err
	}
	user, err := s.createUser(ctx, in.Username, in.Password, models.RoleUser)
	if err != nil {
		return nil, err
	}
	resolveLogger(s.Logger).Info("user registered", "user_id", user.ID, "username", user.Username)
	clean := user.Sanitized()
	return &clean, nil
}

func (s *UserService) createUser(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	repos := s.Store.Repositories()
	if _, err := repos.Users.FindByUsername(ctx, username); err == nil {
		return nil, duplicateUsername(username)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperror.WithCause(apperror.ErrInternal, err)
	}
	user := &models.User{Username: username, PasswordHash: hash, Role: role}
	if err := repos.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, duplicateUsername(username)
		}
		return nil, storeError(err)
	}
	return user, nil
}

// Login checks the credentials and issues a bearer token. Unknown users and
// wrong passwords fail identically.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.Store.Repositories().Users.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, storeError(err)
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		resolveLogger(s.Logger).Warn("login rejected", "username", in.Username)
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.Tokens.Sign(user.ID)
	if err != nil {
		return nil, apperror.WithCause(apperror.ErrInternal, err)
	}
	return &LoginResult{Token: token, User: user.Sanitized()}, nil
}

// Authenticate resolves the user a verified token was issued for.
func (s *UserService) Authenticate(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Store.Repositories().Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Wrap(apperror.ErrUnauthenticated, "User no longer exists")
		}
		return nil, storeError(err)
	}
	clean := user.Sanitized()
	return &clean, nil
}

func (s *UserService) List(ctx context.Context) ([]UserProfile, error) {
	repos := s.Store.Repositories()
	users, err := repos.Users.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	var ids []string
	for _, u := range users {
		ids = append(ids, u.BookedAccommodations...)
	}
	accs, err := repos.Accommodations.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err)
	}
	byID := make(map[string]models.Accommodation, len(accs))
	for _, a := range accs {
		byID[a.ID] = a
	}

	profiles := make([]UserProfile, 0, len(users))
	for _, u := range users {
		p := UserProfile{User: u.Sanitized(), Booked: []models.Accommodation{}}
		for _, id := range u.BookedAccommodations {
			if a, ok := byID[id]; ok {
				p.Booked = append(p.Booked, a)
			}
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*UserProfile, error) {
	repos := s.Store.Repositories()
	user, err := repos.Users.GetWithHotel(ctx, id)
	if err != nil {
		return nil, notFound(err, apperror.ErrUserNotFound, "User %s not found", id)
	}
	booked, err := repos.Accommodations.FindByIDs(ctx, user.BookedAccommodations)
	if err != nil {
		return nil, storeError(err)
	}
	return &UserProfile{User: user.Sanitized(), Booked: booked}, nil
}

// Update changes the caller's own record. Nobody, admins included, may edit
// another user through it.
func (s *UserService) Update(ctx context.Context, actor models.User, id string, in UpdateUserInput) (*models.User, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if actor.ID != id {
		return nil, apperror.Wrap(apperror.ErrForbidden, "A user can only modify their own record")
	}

	var updated *models.User
	err := s.Store.Transaction(ctx, func(tx repository.Repositories) error {
		peek, err := tx.Users.FindByID(ctx, id)
		if err != nil {
			return notFound(err, apperror.ErrUserNotFound, "User %s not found", id)
		}

		var managedHotelID string
		claim := in.ManagedHotel != nil && peek.Role == models.RoleHotelManager
		if claim {
			hotelID, ok := models.NormalizeID(*in.ManagedHotel)
			if !ok {
				return apperror.Wrap(apperror.ErrInvalidIDFormat, "Invalid ID format: %s", *in.ManagedHotel)
			}
			if _, err := tx.Hotels.FindByIDForUpdate(ctx, hotelID); err != nil {
				return notFound(err, apperror.ErrHotelNotFound, "Hotel %s does not exist", hotelID)
			}
			if err := claimManagement(ctx, tx, id, hotelID); err != nil {
				return err
			}
			managedHotelID = hotelID
		}

		user, err := tx.Users.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, apperror.ErrUserNotFound, "User %s not found", id)
		}

		if in.Username != nil && *in.Username != user.Username {
			other, err := tx.Users.FindByUsername(ctx, *in.Username)
			switch {
			case err == nil && other.ID != user.ID:
				return duplicateUsername(*in.Username)
			case err != nil && !errors.Is(err, repository.ErrNotFound):
				return storeError(err)
			}
			user.Username = *in.Username
		}

		if in.Password != nil {
			hash, err := auth.HashPassword(*in.Password)
			if err != nil {
				return apperror.WithCause(apperror.ErrInternal, err)
			}
			user.PasswordHash = hash
		}

		if claim && user.Role == models.RoleHotelManager {
			user.ManagedHotelID = &managedHotelID
		}

		if err := tx.Users.Save(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return duplicateUsername(user.Username)
			}
			return storeError(err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	clean := updated.Sanitized()
	return &clean, nil
}

// Delete removes a user after releasing every accommodation it holds. Users
// delete themselves; admins may delete anyone.
func (s *UserService) Delete(ctx context.Context, actor models.User, id string) (*models.User, error) {
	if actor.ID != id && actor.Role != models.RoleAdmin {
		return nil, apperror.Wrap(apperror.ErrForbidden, "A user can only delete their own record")
	}

	var removed *models.User
	err := s.Store.Transaction(ctx, func(tx repository.Repositories) error {
		user, err := s.Bookings.releaseAll(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.Users.Delete(ctx, id); err != nil {
			return notFound(err, apperror.ErrUserNotFound, "User %s not found", id)
		}
		removed = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	resolveLogger(s.Logger).Info("user deleted", "user_id", id, "actor_id", actor.ID)
	clean := removed.Sanitized()
	return &clean, nil
}
