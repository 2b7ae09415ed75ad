package repository

import (
	"hospital-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorRepository interface {
	FindByID(db *gorm.DB, id int64) (*entity.Doctor, error)
	FindAll(db *gorm.DB) ([]entity.Doctor, error)
	FindBySpecialty(db *gorm.DB, specialty string) ([]entity.Doctor, error)
	FindTopRated(db *gorm.DB, limit int) ([]entity.Doctor, error)
	Search(db *gorm.DB, query string) ([]entity.Doctor, error)
	Specialties(db *gorm.DB) ([]string, error)
	AddRating(db *gorm.DB, id int64, rating int) (bool, error)
}
