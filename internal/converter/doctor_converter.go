package converter

import (
	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:              doctor.ID,
		Name:            doctor.Name,
		Specialty:       doctor.Specialty,
		Location:        doctor.Location,
		ExperienceYears: doctor.ExperienceYears,
		About:           doctor.About,
		ImageURL:        doctor.ImageURL,
		ConsultationFee: doctor.ConsultationFee,
		Rating:          doctor.Rating,
		RatingCount:     doctor.RatingCount,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
