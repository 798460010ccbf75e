package services

import (
	"context"
	"errors"
	"log/slog"

	"hotel-booking-api/models"
	"hotel-booking-api/repository"
)

// AdminService bootstraps administrators. Registration only ever creates
// plain users, so the first admin comes from here.
type AdminService struct {
	Users  *UserService
	Logger *slog.Logger
}

func NewAdminService(users *UserService, logger *slog.Logger) *AdminService {
	return &AdminService{Users: users, Logger: logger}
}

// EnsureAdmin creates username as an admin, or promotes the existing user of
// that name. An existing user's password is left unchanged.
func (s *AdminService) EnsureAdmin(ctx context.Context, username, password string) (*models.User, bool, error) {
	in := RegisterInput{Username: username, Password: password}
	in.normalize()
	if err := validateInput(in); err != nil {
		return nil, false, err
	}
	logger := resolveLogger(s.Logger)

	var promoted *models.User
	err := s.Users.Store.Transaction(ctx, func(tx repository.Repositories) error {
		user, err := tx.Users.FindByUsername(ctx, in.Username)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return storeError(err)
		}
		user.Role = models.RoleAdmin
		if err := tx.Users.Save(ctx, user); err != nil {
			return storeError(err)
		}
		promoted = user
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if promoted != nil {
		logger.Info("existing user promoted to admin", "user_id", promoted.ID, "username", promoted.Username)
		clean := promoted.Sanitized()
		return &clean, false, nil
	}

	user, err := s.Users.createUser(ctx, in.Username, in.Password, models.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	logger.Info("admin created", "user_id", user.ID, "username", user.Username)
	clean := user.Sanitized()
	return &clean, true, nil
}

// SeedAdmin creates the configured admin when the database has none yet.
// Empty credentials disable seeding.
func (s *AdminService) SeedAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	n, err := s.Users.Store.Repositories().Users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return storeError(err)
	}
	if n > 0 {
		return nil
	}
	_, _, err = s.EnsureAdmin(ctx, username, password)
	return err
}
