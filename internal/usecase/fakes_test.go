package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"hospital-booking/internal/delivery/http/middleware"
	"hospital-booking/internal/domain/entity"
	"hospital-booking/internal/domain/repository"
	"hospital-booking/internal/service"
	"hospital-booking/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testLocation = time.FixedZone("WIB", 7*60*60)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestCatalog(t *testing.T) *service.SlotCatalog {
	catalog, err := service.NewSlotCatalogFromBounds("09:00", "18:00", 30*time.Minute, testLocation)
	require.NoError(t, err)
	return catalog
}

func mustDate(t *testing.T, s string) entity.Date {
	date, err := entity.ParseDate(s)
	require.NoError(t, err)
	return date
}

// at returns a wall clock moment in the test location.
func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, testLocation)
}

func withPatient(patientID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.UserIDKey, patientID)
}

// memoryStore backs every fake repository. Appointment inserts enforce the
// same rule as the active-slot unique index.
type memoryStore struct {
	mu           sync.Mutex
	doctors      map[int64]entity.Doctor
	appointments map[uuid.UUID]entity.Appointment
	payments     map[uuid.UUID]entity.Payment
	auditLogs    []entity.AuditLog
	err          error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		doctors: map[int64]entity.Doctor{
			7: {ID: 7, Name: "Dr. James Wilson", Specialty: "General Practitioner", ConsultationFee: decimal.NewFromInt(150000), Rating: 4.5, RatingCount: 2},
			8: {ID: 8, Name: "Dr. Sarah Lee", Specialty: "Cardiologist", Rating: 4.9, RatingCount: 10},
		},
		appointments: map[uuid.UUID]entity.Appointment{},
		payments:     map[uuid.UUID]entity.Payment{},
	}
}

func (s *memoryStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

type memoryState struct {
	doctors      map[int64]entity.Doctor
	appointments map[uuid.UUID]entity.Appointment
	payments     map[uuid.UUID]entity.Payment
	auditLogs    []entity.AuditLog
}

func (s *memoryStore) snapshot() memoryState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := memoryState{
		doctors:      make(map[int64]entity.Doctor, len(s.doctors)),
		appointments: make(map[uuid.UUID]entity.Appointment, len(s.appointments)),
		payments:     make(map[uuid.UUID]entity.Payment, len(s.payments)),
		auditLogs:    append([]entity.AuditLog(nil), s.auditLogs...),
	}
	for k, v := range s.doctors {
		state.doctors[k] = v
	}
	for k, v := range s.appointments {
		state.appointments[k] = v
	}
	for k, v := range s.payments {
		state.payments[k] = v
	}
	return state
}

func (s *memoryStore) restore(state memoryState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors = state.doctors
	s.appointments = state.appointments
	s.payments = state.payments
	s.auditLogs = state.auditLogs
}

func (s *memoryStore) withDoctor(a entity.Appointment) *entity.Appointment {
	if doctor, ok := s.doctors[a.DoctorID]; ok {
		a.Doctor = &doctor
	}
	return &a
}

// fakeTransactor runs transactions one at a time and restores the store
// when fn fails.
type fakeTransactor struct {
	store *memoryStore
	txMu  sync.Mutex
}

func (t *fakeTransactor) Conn(ctx context.Context) *gorm.DB {
	return nil
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	state := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(state)
		return err
	}
	return nil
}

type fakeAppointmentRepository struct {
	store *memoryStore
}

func (r *fakeAppointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return r.store.err
	}

	if _, ok := r.store.doctors[appointment.DoctorID]; !ok {
		return repository.ErrUnknownDoctor
	}
	for _, existing := range r.store.appointments {
		if existing.DoctorID == appointment.DoctorID &&
			existing.AppointmentDate.Equal(appointment.AppointmentDate) &&
			existing.TimeSlot == appointment.TimeSlot &&
			existing.Status.IsActive() {
			return repository.ErrSlotConflict
		}
	}

	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt
	stored := *appointment
	stored.Doctor = nil
	r.store.appointments[appointment.ID] = stored
	return nil
}

func (r *fakeAppointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return nil, r.store.err
	}

	appointment, ok := r.store.appointments[id]
	if !ok {
		return nil, nil
	}
	return r.store.withDoctor(appointment), nil
}

// FindByIDForUpdate preloads the doctor like the gorm repository does; the
// transactor already serializes writers.
func (r *fakeAppointmentRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return r.FindByID(db, id)
}

func (r *fakeAppointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool { return a.PatientID == patientID }, true, 0)
}

func (r *fakeAppointmentRepository) FindUpcomingByPatientID(db *gorm.DB, patientID uuid.UUID, from entity.Date, limit int) ([]entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool {
		return a.PatientID == patientID && a.IsPending() && !a.AppointmentDate.Before(from)
	}, false, limit)
}

func (r *fakeAppointmentRepository) FindByDoctorAndDate(db *gorm.DB, doctorID int64, date entity.Date) ([]entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool {
		return a.DoctorID == doctorID && a.AppointmentDate.Equal(date)
	}, false, 0)
}

func (r *fakeAppointmentRepository) filter(keep func(entity.Appointment) bool, newestFirst bool, limit int) ([]entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return nil, r.store.err
	}

	var result []entity.Appointment
	for _, appointment := range r.store.appointments {
		if keep(appointment) {
			result = append(result, *r.store.withDoctor(appointment))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if newestFirst {
			a, b = b, a
		}
		return a.AppointmentDate.Before(b.AppointmentDate) ||
			(a.AppointmentDate.Equal(b.AppointmentDate) && a.TimeSlot < b.TimeSlot)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeAppointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, to entity.AppointmentStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return false, r.store.err
	}

	appointment, ok := r.store.appointments[id]
	if !ok {
		return false, nil
	}
	if !appointment.Status.CanTransitionTo(to) {
		return true, entity.ErrInvalidTransition
	}
	appointment.Status = to
	appointment.UpdatedAt = time.Now()
	r.store.appointments[id] = appointment
	return true, nil
}

func (r *fakeAppointmentRepository) CompleteElapsed(db *gorm.DB, today entity.Date, cutoff entity.TimeSlot) ([]entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return nil, r.store.err
	}

	var completed []entity.Appointment
	for id, appointment := range r.store.appointments {
		if !appointment.IsPending() {
			continue
		}
		elapsed := appointment.AppointmentDate.Before(today) ||
			(cutoff != "" && appointment.AppointmentDate.Equal(today) && appointment.TimeSlot <= cutoff)
		if !elapsed {
			continue
		}
		appointment.Status = entity.AppointmentStatusCompleted
		r.store.appointments[id] = appointment
		completed = append(completed, appointment)
	}
	return completed, nil
}

type fakeDoctorRepository struct {
	store *memoryStore
}

func (r *fakeDoctorRepository) FindByID(db *gorm.DB, id int64) (*entity.Doctor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return nil, r.store.err
	}

	doctor, ok := r.store.doctors[id]
	if !ok {
		return nil, nil
	}
	return &doctor, nil
}

func (r *fakeDoctorRepository) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	return r.filter(func(entity.Doctor) bool { return true })
}

func (r *fakeDoctorRepository) FindBySpecialty(db *gorm.DB, specialty string) ([]entity.Doctor, error) {
	return r.filter(func(d entity.Doctor) bool { return strings.EqualFold(d.Specialty, specialty) })
}

func (r *fakeDoctorRepository) FindTopRated(db *gorm.DB, limit int) ([]entity.Doctor, error) {
	doctors, err := r.filter(func(entity.Doctor) bool { return true })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(doctors, func(i, j int) bool { return doctors[i].Rating > doctors[j].Rating })
	if len(doctors) > limit {
		doctors = doctors[:limit]
	}
	return doctors, nil
}

func (r *fakeDoctorRepository) Search(db *gorm.DB, query string) ([]entity.Doctor, error) {
	query = strings.ToLower(query)
	return r.filter(func(d entity.Doctor) bool {
		return strings.Contains(strings.ToLower(d.Name), query) ||
			strings.Contains(strings.ToLower(d.Specialty), query) ||
			strings.Contains(strings.ToLower(d.Location), query)
	})
}

func (r *fakeDoctorRepository) Specialties(db *gorm.DB) ([]string, error) {
	doctors, err := r.filter(func(entity.Doctor) bool { return true })
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var specialties []string
	for _, doctor := range doctors {
		if !seen[doctor.Specialty] {
			seen[doctor.Specialty] = true
			specialties = append(specialties, doctor.Specialty)
		}
	}
	sort.Strings(specialties)
	return specialties, nil
}

func (r *fakeDoctorRepository) AddRating(db *gorm.DB, id int64, rating int) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return false, r.store.err
	}

	doctor, ok := r.store.doctors[id]
	if !ok {
		return false, nil
	}
	total := doctor.Rating*float64(doctor.RatingCount) + float64(rating)
	doctor.RatingCount++
	doctor.Rating = float64(int(total/float64(doctor.RatingCount)*100+0.5)) / 100
	r.store.doctors[id] = doctor
	return true, nil
}

func (r *fakeDoctorRepository) filter(keep func(entity.Doctor) bool) ([]entity.Doctor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return nil, r.store.err
	}

	var doctors []entity.Doctor
	for _, doctor := range r.store.doctors {
		if keep(doctor) {
			doctors = append(doctors, doctor)
		}
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].ID < doctors[j].ID })
	return doctors, nil
}

type fakePaymentRepository struct {
	store *memoryStore
}

func (r *fakePaymentRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return nil, r.store.err
	}

	for _, payment := range r.store.payments {
		if payment.AppointmentID == appointmentID {
			return &payment, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return nil, r.store.err
	}

	var payments []entity.Payment
	for _, payment := range r.store.payments {
		if appointment, ok := r.store.appointments[payment.AppointmentID]; ok && appointment.PatientID == patientID {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

func (r *fakePaymentRepository) MoveToAppointment(db *gorm.DB, fromAppointmentID, toAppointmentID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return false, r.store.err
	}

	for id, payment := range r.store.payments {
		if payment.AppointmentID == fromAppointmentID {
			payment.AppointmentID = toAppointmentID
			r.store.payments[id] = payment
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepository) RequestRefund(db *gorm.DB, appointmentID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return false, r.store.err
	}

	for id, payment := range r.store.payments {
		if payment.AppointmentID == appointmentID && payment.IsRefundable() {
			payment.Status = entity.PaymentStatusRefundRequested
			r.store.payments[id] = payment
			return true, nil
		}
	}
	return false, nil
}

type fakeAuditLogRepository struct {
	store *memoryStore
}

func (r *fakeAuditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return r.store.err
	}

	log.ID = int64(len(r.store.auditLogs) + 1)
	log.CreatedAt = time.Now()
	r.store.auditLogs = append(r.store.auditLogs, *log)
	return nil
}

func (r *fakeAuditLogRepository) FindAll(db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return nil, r.store.err
	}

	var logs []entity.AuditLog
	for i := len(r.store.auditLogs) - 1; i >= 0; i-- {
		log := r.store.auditLogs[i]
		if filter.Action != "" && log.Action != filter.Action {
			continue
		}
		if filter.UserID != nil && (log.UserID == nil || *log.UserID != *filter.UserID) {
			continue
		}
		logs = append(logs, log)
	}
	return logs, nil
}

func (r *fakeAuditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.err != nil {
		return nil, r.store.err
	}

	for _, log := range r.store.auditLogs {
		if log.ID == id {
			return &log, nil
		}
	}
	return nil, nil
}

func (r *fakeAuditLogRepository) actions() []string {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	actions := make([]string, len(r.store.auditLogs))
	for i, log := range r.store.auditLogs {
		actions[i] = log.Action
	}
	return actions
}

// fakeAvailabilityCache keeps the generation rule of the Redis cache: a
// store carrying an outdated generation is dropped.
type fakeAvailabilityCache struct {
	mu          sync.Mutex
	entries     map[string][]entity.TimeSlot
	generations map[string]int64
	err         error
	invalidated []string
}

func newFakeAvailabilityCache() *fakeAvailabilityCache {
	return &fakeAvailabilityCache{
		entries:     map[string][]entity.TimeSlot{},
		generations: map[string]int64{},
	}
}

func cacheKey(doctorID int64, date entity.Date) string {
	return fmt.Sprintf("%d/%s", doctorID, date)
}

func (c *fakeAvailabilityCache) GetOccupied(ctx context.Context, doctorID int64, date entity.Date) (*service.OccupiedSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}

	key := cacheKey(doctorID, date)
	slots, ok := c.entries[key]
	return &service.OccupiedSnapshot{Slots: slots, Generation: c.generations[key], Hit: ok}, nil
}

func (c *fakeAvailabilityCache) StoreOccupied(ctx context.Context, doctorID int64, date entity.Date, generation int64, slots []entity.TimeSlot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}

	key := cacheKey(doctorID, date)
	if c.generations[key] != generation {
		return nil
	}
	c.entries[key] = append([]entity.TimeSlot{}, slots...)
	return nil
}

func (c *fakeAvailabilityCache) Invalidate(ctx context.Context, doctorID int64, date entity.Date) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(doctorID, date)
	c.invalidated = append(c.invalidated, key)
	if c.err != nil {
		return c.err
	}
	c.generations[key]++
	delete(c.entries, key)
	return nil
}

// testEnv wires the usecases over one memory store with a fixed clock.
type testEnv struct {
	store        *memoryStore
	cache        *fakeAvailabilityCache
	audit        *fakeAuditLogRepository
	metrics      *metrics.Collector
	appointments *appointmentUsecase
	availability *availabilityUsecase
	doctors      DoctorUsecase
	payments     PaymentUsecase
	auditLogs    AuditLogUsecase
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	log := newTestLogger()
	store := newMemoryStore()
	db := &fakeTransactor{store: store}
	cache := newFakeAvailabilityCache()
	catalog := newTestCatalog(t)
	collector := metrics.NewCollector("test")

	appointmentRepo := &fakeAppointmentRepository{store: store}
	doctorRepo := &fakeDoctorRepository{store: store}
	paymentRepo := &fakePaymentRepository{store: store}
	auditRepo := &fakeAuditLogRepository{store: store}
	auditService := service.NewAuditService(log, auditRepo)

	clock := func() time.Time { return now }

	appointments := NewAppointmentUsecase(db, log, appointmentRepo, doctorRepo, paymentRepo, catalog, cache, auditService, collector, 500).(*appointmentUsecase)
	appointments.now = clock
	availability := NewAvailabilityUsecase(db, log, doctorRepo, appointmentRepo, catalog, cache, collector).(*availabilityUsecase)
	availability.now = clock

	return &testEnv{
		store:        store,
		cache:        cache,
		audit:        auditRepo,
		metrics:      collector,
		appointments: appointments,
		availability: availability,
		doctors:      NewDoctorUsecase(db, log, doctorRepo, auditService),
		payments:     NewPaymentUsecase(db, log, paymentRepo, appointmentRepo),
		auditLogs:    NewAuditLogUsecase(db, log, auditRepo),
	}
}

func (e *testEnv) setNow(now time.Time) {
	clock := func() time.Time { return now }
	e.appointments.now = clock
	e.availability.now = clock
}

func (e *testEnv) addPayment(appointmentID uuid.UUID, status entity.PaymentStatus) entity.Payment {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	payment := entity.Payment{
		ID:            uuid.New(),
		AppointmentID: appointmentID,
		Amount:        decimal.NewFromInt(150000),
		Method:        "card",
		CardLast4:     "4242",
		Status:        status,
	}
	e.store.payments[payment.ID] = payment
	return payment
}
