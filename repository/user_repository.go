package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking-api/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByManagedHotelForUpdate(ctx context.Context, hotelID string) ([]models.User, error)
	// GetWithHotel loads the user with the managed hotel summary.
	GetWithHotel(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type gormUserRepository struct {
	db *gorm.DB
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

func (r *gormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := forUpdate(r.db.WithContext(ctx)).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByManagedHotelForUpdate(ctx context.Context, hotelID string) ([]models.User, error) {
	var users []models.User
	err := forUpdate(r.db.WithContext(ctx)).
		Where("managed_hotel_id = ?", hotelID).
		Find(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (r *gormUserRepository) GetWithHotel(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("ManagedHotel", hotelSummary).
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Preload("ManagedHotel", hotelSummary).
		Order("created_at, id").
		Find(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (r *gormUserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *gormUserRepository) Save(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

func (r *gormUserRepository) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id))
}
