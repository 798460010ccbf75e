package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking-api/models"
)

type AccommodationRepository interface {
	Create(ctx context.Context, acc *models.Accommodation) error
	FindByID(ctx context.Context, id string) (*models.Accommodation, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Accommodation, error)
	FindByHotelForUpdate(ctx context.Context, hotelID string) ([]models.Accommodation, error)
	// FindByIDs loads the listed accommodations with their hotel summary.
	// Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]models.Accommodation, error)
	GetWithHotel(ctx context.Context, id string) (*models.Accommodation, error)
	List(ctx context.Context) ([]models.Accommodation, error)
	Save(ctx context.Context, acc *models.Accommodation) error
	Delete(ctx context.Context, id string) error
}

type gormAccommodationRepository struct {
	db *gorm.DB
}

func hotelSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "address")
}

func (r *gormAccommodationRepository) Create(ctx context.Context, acc *models.Accommodation) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(acc).Error)
}

func (r *gormAccommodationRepository) FindByID(ctx context.Context, id string) (*models.Accommodation, error) {
	var acc models.Accommodation
	if err := r.db.WithContext(ctx).First(&acc, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

func (r *gormAccommodationRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Accommodation, error) {
	var acc models.Accommodation
	if err := forUpdate(r.db.WithContext(ctx)).First(&acc, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

func (r *gormAccommodationRepository) FindByHotelForUpdate(ctx context.Context, hotelID string) ([]models.Accommodation, error) {
	var accs []models.Accommodation
	err := forUpdate(r.db.WithContext(ctx)).
		Where("hotel_id = ?", hotelID).
		Order("created_at, id").
		Find(&accs).Error
	if err != nil {
		return nil, translate(err)
	}
	return accs, nil
}

func (r *gormAccommodationRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Accommodation, error) {
	if len(ids) == 0 {
		return []models.Accommodation{}, nil
	}
	var accs []models.Accommodation
	err := r.db.WithContext(ctx).
		Preload("Hotel", hotelSummary).
		Where("id IN ?", ids).
		Order("created_at, id").
		Find(&accs).Error
	if err != nil {
		return nil, translate(err)
	}
	return accs, nil
}

func (r *gormAccommodationRepository) GetWithHotel(ctx context.Context, id string) (*models.Accommodation, error) {
	var acc models.Accommodation
	err := r.db.WithContext(ctx).
		Preload("Hotel", hotelSummary).
		First(&acc, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

func (r *gormAccommodationRepository) List(ctx context.Context) ([]models.Accommodation, error) {
	var accs []models.Accommodation
	err := r.db.WithContext(ctx).
		Preload("Hotel", hotelSummary).
		Order("created_at, id").
		Find(&accs).Error
	if err != nil {
		return nil, translate(err)
	}
	return accs, nil
}

func (r *gormAccommodationRepository) Save(ctx context.Context, acc *models.Accommodation) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(acc).Error)
}

func (r *gormAccommodationRepository) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Accommodation{}, "id = ?", id))
}
