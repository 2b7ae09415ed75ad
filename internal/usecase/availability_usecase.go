package usecase

import (
	"context"
	"time"

	"hospital-booking/internal/converter"
	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/domain/entity"
	"hospital-booking/internal/domain/repository"
	"hospital-booking/internal/infrastructure/database"
	"hospital-booking/internal/service"
	"hospital-booking/pkg/metrics"

	"github.com/sirupsen/logrus"
)

type AvailabilityUsecase interface {
	GetAvailableSlots(ctx context.Context, doctorID int64, date string) (*dto.AvailableSlotsResponse, error)
}

type availabilityUsecase struct {
	db              database.Transactor
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	catalog         *service.SlotCatalog
	cache           service.AvailabilityCache
	metrics         *metrics.Collector
	now             func() time.Time
}

func NewAvailabilityUsecase(
	db database.Transactor,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	catalog *service.SlotCatalog,
	cache service.AvailabilityCache,
	metrics *metrics.Collector,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:              db,
		log:             log,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		catalog:         catalog,
		cache:           cache,
		metrics:         metrics,
		now:             time.Now,
	}
}

// GetAvailableSlots returns the catalog slots of the day that hold no active
// appointment, in catalog order. Past days yield an empty list; on the
// current day, slots that already started are left out too.
func (u *availabilityUsecase) GetAvailableSlots(ctx context.Context, doctorID int64, dateStr string) (*dto.AvailableSlotsResponse, error) {
	if doctorID <= 0 {
		return nil, ErrMissingDoctorID
	}
	if dateStr == "" {
		return nil, ErrMissingDate
	}
	date, err := entity.ParseDate(dateStr)
	if err != nil {
		return nil, ErrInvalidDate
	}

	doctor, err := u.doctorRepo.FindByID(u.db.Conn(ctx), doctorID)
	if err != nil {
		return nil, storageError(u.log, "find doctor", err, false)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	response := &dto.AvailableSlotsResponse{
		DoctorID: doctorID,
		Date:     date,
		Slots:    []entity.TimeSlot{},
		Labels:   []string{},
	}

	now := u.now()
	today := u.catalog.Today(now)
	if date.Before(today) {
		return response, nil
	}

	occupied, err := u.occupiedSlots(ctx, doctorID, date)
	if err != nil {
		return nil, storageError(u.log, "load reservations", err, false)
	}

	for _, slot := range u.catalog.SlotsForDay() {
		if _, taken := occupied[slot]; taken {
			continue
		}
		if date.Equal(today) && u.catalog.IsPast(date, slot, now) {
			continue
		}
		response.Slots = append(response.Slots, slot)
	}
	response.Labels = converter.TimeSlotsToLabels(response.Slots)

	return response, nil
}

// occupiedSlots reads the cache first and falls back to the store. Cache
// failures are logged and never fail the request.
func (u *availabilityUsecase) occupiedSlots(ctx context.Context, doctorID int64, date entity.Date) (map[entity.TimeSlot]struct{}, error) {
	snapshot, cacheErr := u.cache.GetOccupied(ctx, doctorID, date)
	if cacheErr != nil {
		u.metrics.AvailabilityCacheTotal.WithLabelValues(metrics.CacheResultError).Inc()
		u.log.Warnf("Failed to read availability cache for doctor %d on %s: %+v", doctorID, date, cacheErr)
	} else if snapshot.Hit {
		u.metrics.AvailabilityCacheTotal.WithLabelValues(metrics.CacheResultHit).Inc()
		return toSlotSet(snapshot.Slots), nil
	} else {
		u.metrics.AvailabilityCacheTotal.WithLabelValues(metrics.CacheResultMiss).Inc()
	}

	appointments, err := u.appointmentRepo.FindByDoctorAndDate(u.db.Conn(ctx), doctorID, date)
	if err != nil {
		return nil, err
	}

	var slots []entity.TimeSlot
	for _, appointment := range appointments {
		if appointment.Status.IsActive() {
			slots = append(slots, appointment.TimeSlot)
		}
	}

	if cacheErr == nil {
		if err := u.cache.StoreOccupied(ctx, doctorID, date, snapshot.Generation, slots); err != nil {
			u.log.Warnf("Failed to store availability cache for doctor %d on %s: %+v", doctorID, date, err)
		}
	}

	return toSlotSet(slots), nil
}

func toSlotSet(slots []entity.TimeSlot) map[entity.TimeSlot]struct{} {
	set := make(map[entity.TimeSlot]struct{}, len(slots))
	for _, slot := range slots {
		set[slot] = struct{}{}
	}
	return set
}
