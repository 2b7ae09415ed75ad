package usecase

import (
	"context"
	"testing"
	"time"

	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorUsecase_Directory(t *testing.T) {
	env := newTestEnv(t, at(2025, time.May, 31, 8, 0))
	ctx := context.Background()

	all, err := env.doctors.GetAllDoctors(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 2, all.Total)
	assert.Equal(t, int64(7), all.Doctors[0].ID)

	cardio, err := env.doctors.GetAllDoctors(ctx, "cardiologist")
	require.NoError(t, err)
	require.Equal(t, 1, cardio.Total)
	assert.Equal(t, "Dr. Sarah Lee", cardio.Doctors[0].Name)

	doctor, err := env.doctors.GetDoctor(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "General Practitioner", doctor.Specialty)
	assert.Equal(t, "150000", doctor.ConsultationFee.String())

	_, err = env.doctors.GetDoctor(ctx, 99)
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	specialties, err := env.doctors.GetSpecialties(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cardiologist", "General Practitioner"}, specialties.Specialties)
}

func TestDoctorUsecase_SearchAndTopRated(t *testing.T) {
	env := newTestEnv(t, at(2025, time.May, 31, 8, 0))
	ctx := context.Background()

	found, err := env.doctors.SearchDoctors(ctx, "  wilson ")
	require.NoError(t, err)
	require.Equal(t, 1, found.Total)
	assert.Equal(t, int64(7), found.Doctors[0].ID)

	_, err = env.doctors.SearchDoctors(ctx, "   ")
	assert.ErrorIs(t, err, ErrMissingQuery)

	top, err := env.doctors.GetTopRatedDoctors(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 2, top.Total)
	assert.Equal(t, int64(8), top.Doctors[0].ID)

	top, err = env.doctors.GetTopRatedDoctors(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, top.Total)
}

func TestDoctorUsecase_RateDoctor(t *testing.T) {
	env := newTestEnv(t, at(2025, time.May, 31, 8, 0))
	ctx := withPatient(uuid.New())

	rated, err := env.doctors.RateDoctor(ctx, 7, &dto.RateDoctorRequest{Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, rated.RatingCount)
	assert.InDelta(t, 4.67, rated.Rating, 0.001)
	assert.Equal(t, []string{entity.AuditActionDoctorRate}, env.audit.actions())

	_, err = env.doctors.RateDoctor(ctx, 99, &dto.RateDoctorRequest{Rating: 5})
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	_, err = env.doctors.RateDoctor(ctx, 7, &dto.RateDoctorRequest{Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = env.doctors.RateDoctor(context.Background(), 7, &dto.RateDoctorRequest{Rating: 4})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
