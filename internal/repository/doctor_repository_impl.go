package repository

import (
	"errors"

	"hospital-booking/internal/domain/entity"
	domainRepo "hospital-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) FindByID(db *gorm.DB, id int64) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.Order("name ASC").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) FindBySpecialty(db *gorm.DB, specialty string) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.Where("specialty ILIKE ?", specialty).
		Order("rating DESC, name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) FindTopRated(db *gorm.DB, limit int) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.Order("rating DESC, rating_count DESC, name ASC").
		Limit(limit).
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

// Search matches name, specialty or location (ILIKE)
func (r *doctorRepository) Search(db *gorm.DB, query string) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	pattern := "%" + query + "%"
	err := db.Where("name ILIKE ? OR specialty ILIKE ? OR location ILIKE ?", pattern, pattern, pattern).
		Order("name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Specialties(db *gorm.DB) ([]string, error) {
	var specialties []string
	err := db.Model(&entity.Doctor{}).
		Distinct("specialty").
		Order("specialty ASC").
		Pluck("specialty", &specialties).Error
	if err != nil {
		return nil, err
	}
	return specialties, nil
}

// AddRating folds one 1-5 rating into the running average in a single
// UPDATE, so concurrent ratings do not overwrite each other.
func (r *doctorRepository) AddRating(db *gorm.DB, id int64, rating int) (bool, error) {
	result := db.Model(&entity.Doctor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":       gorm.Expr("ROUND((rating * rating_count + ?) / (rating_count + 1), 2)", rating),
			"rating_count": gorm.Expr("rating_count + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
