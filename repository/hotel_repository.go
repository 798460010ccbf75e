package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking-api/models"
)

type HotelRepository interface {
	Create(ctx context.Context, hotel *models.Hotel) error
	FindByID(ctx context.Context, id string) (*models.Hotel, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Hotel, error)
	FindByName(ctx context.Context, name string) (*models.Hotel, error)
	// GetWithSummaries loads the hotel with short accommodation summaries.
	GetWithSummaries(ctx context.Context, id string) (*models.Hotel, error)
	List(ctx context.Context) ([]models.Hotel, error)
	Save(ctx context.Context, hotel *models.Hotel) error
	Delete(ctx context.Context, id string) error
}

type gormHotelRepository struct {
	db *gorm.DB
}

func accommodationSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "hotel_id", "type", "n_rooms", "available").Order("created_at, id")
}

func (r *gormHotelRepository) Create(ctx context.Context, hotel *models.Hotel) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(hotel).Error)
}

func (r *gormHotelRepository) FindByID(ctx context.Context, id string) (*models.Hotel, error) {
	var hotel models.Hotel
	if err := r.db.WithContext(ctx).First(&hotel, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &hotel, nil
}

func (r *gormHotelRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Hotel, error) {
	var hotel models.Hotel
	if err := forUpdate(r.db.WithContext(ctx)).First(&hotel, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &hotel, nil
}

func (r *gormHotelRepository) FindByName(ctx context.Context, name string) (*models.Hotel, error) {
	var hotel models.Hotel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&hotel).Error; err != nil {
		return nil, translate(err)
	}
	return &hotel, nil
}

func (r *gormHotelRepository) GetWithSummaries(ctx context.Context, id string) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.db.WithContext(ctx).
		Preload("Accommodations", accommodationSummary).
		First(&hotel, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &hotel, nil
}

func (r *gormHotelRepository) List(ctx context.Context) ([]models.Hotel, error) {
	var hotels []models.Hotel
	err := r.db.WithContext(ctx).
		Preload("Accommodations", accommodationSummary).
		Order("created_at, id").
		Find(&hotels).Error
	if err != nil {
		return nil, translate(err)
	}
	return hotels, nil
}

func (r *gormHotelRepository) Save(ctx context.Context, hotel *models.Hotel) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(hotel).Error)
}

func (r *gormHotelRepository) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Hotel{}, "id = ?", id))
}
