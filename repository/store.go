package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repositories groups the per-entity repositories bound to one database handle,
// either the root connection or an open transaction.
type Repositories struct {
	Hotels         HotelRepository
	Accommodations AccommodationRepository
	Users          UserRepository
}

// Store hands out repositories and runs multi-record mutations atomically.
type Store interface {
	Repositories() Repositories
	Transaction(ctx context.Context, fn func(tx Repositories) error) error
}

type GormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Repositories() Repositories {
	return newRepositories(s.db)
}

// Transaction runs fn inside a database transaction. Any error returned by fn
// rolls back every write made through tx.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Repositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
	return translate(err)
}

func newRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Hotels:         &gormHotelRepository{db: db},
		Accommodations: &gormAccommodationRepository{db: db},
		Users:          &gormUserRepository{db: db},
	}
}

// forUpdate adds a row lock where the dialect supports one.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func deleted(result *gorm.DB) error {
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
