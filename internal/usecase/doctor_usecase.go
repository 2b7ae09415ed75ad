package usecase

import (
	"context"
	"errors"
	"strings"

	"hospital-booking/internal/converter"
	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/delivery/http/middleware"
	"hospital-booking/internal/domain/entity"
	"hospital-booking/internal/domain/repository"
	"hospital-booking/internal/infrastructure/database"
	"hospital-booking/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
)

const (
	defaultTopRatedLimit = 5
	maxTopRatedLimit     = 20
)

type DoctorUsecase interface {
	GetAllDoctors(ctx context.Context, specialty string) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, doctorID int64) (*dto.DoctorResponse, error)
	SearchDoctors(ctx context.Context, query string) (*dto.DoctorListResponse, error)
	GetTopRatedDoctors(ctx context.Context, limit int) (*dto.DoctorListResponse, error)
	GetSpecialties(ctx context.Context) (*dto.SpecialtyListResponse, error)
	RateDoctor(ctx context.Context, doctorID int64, req *dto.RateDoctorRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	db           database.Transactor
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	db database.Transactor,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

// GetAllDoctors lists the directory, optionally narrowed to one specialty
func (u *doctorUsecase) GetAllDoctors(ctx context.Context, specialty string) (*dto.DoctorListResponse, error) {
	var (
		doctors []entity.Doctor
		err     error
	)
	specialty = strings.TrimSpace(specialty)
	if specialty == "" {
		doctors, err = u.doctorRepo.FindAll(u.db.Conn(ctx))
	} else {
		doctors, err = u.doctorRepo.FindBySpecialty(u.db.Conn(ctx), specialty)
	}
	if err != nil {
		return nil, storageError(u.log, "find doctors", err, false)
	}

	return doctorList(doctors), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID int64) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.Conn(ctx), doctorID)
	if err != nil {
		return nil, storageError(u.log, "find doctor", err, false)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) SearchDoctors(ctx context.Context, query string) (*dto.DoctorListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMissingQuery
	}

	doctors, err := u.doctorRepo.Search(u.db.Conn(ctx), query)
	if err != nil {
		return nil, storageError(u.log, "search doctors", err, false)
	}

	return doctorList(doctors), nil
}

func (u *doctorUsecase) GetTopRatedDoctors(ctx context.Context, limit int) (*dto.DoctorListResponse, error) {
	if limit <= 0 {
		limit = defaultTopRatedLimit
	}
	if limit > maxTopRatedLimit {
		limit = maxTopRatedLimit
	}

	doctors, err := u.doctorRepo.FindTopRated(u.db.Conn(ctx), limit)
	if err != nil {
		return nil, storageError(u.log, "find top rated doctors", err, false)
	}

	return doctorList(doctors), nil
}

func (u *doctorUsecase) GetSpecialties(ctx context.Context) (*dto.SpecialtyListResponse, error) {
	specialties, err := u.doctorRepo.Specialties(u.db.Conn(ctx))
	if err != nil {
		return nil, storageError(u.log, "find specialties", err, false)
	}

	return &dto.SpecialtyListResponse{
		Specialties: specialties,
		Total:       len(specialties),
	}, nil
}

// RateDoctor folds one 1-5 rating into the doctor's running average
func (u *doctorUsecase) RateDoctor(ctx context.Context, doctorID int64, req *dto.RateDoctorRequest) (*dto.DoctorResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var doctor *entity.Doctor
	err := u.db.WithinTransaction(ctx, func(tx *gorm.DB) error {
		found, err := u.doctorRepo.AddRating(tx, doctorID, req.Rating)
		if err != nil {
			return err
		}
		if !found {
			return ErrDoctorNotFound
		}

		doctor, err = u.doctorRepo.FindByID(tx, doctorID)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		return u.auditService.Record(ctx, tx, service.AuditEntry{
			Actor:    &userID,
			Action:   entity.AuditActionDoctorRate,
			Entity:   "doctor",
			EntityID: doctor.IDString(),
			After: map[string]interface{}{
				"rating":         req.Rating,
				"average_rating": doctor.Rating,
				"rating_count":   doctor.RatingCount,
			},
		})
	})
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, storageError(u.log, "rate doctor", err, true)
	}

	return converter.DoctorToResponse(doctor), nil
}

func doctorList(doctors []entity.Doctor) *dto.DoctorListResponse {
	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}
}
