package converter

import (
	"hospital-booking/internal/delivery/dto"
	"hospital-booking/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:        appointment.ID,
		PatientID: appointment.PatientID,
		DoctorID:  appointment.DoctorID,
		Date:      appointment.AppointmentDate,
		Time:      appointment.TimeSlot,
		TimeLabel: appointment.TimeSlot.Label(),
		Notes:     appointment.Note,
		Status:    appointment.Status,
		CreatedAt: appointment.CreatedAt,
		UpdatedAt: appointment.UpdatedAt,
	}
	if appointment.Doctor != nil {
		response.DoctorName = appointment.Doctor.Name
		response.DoctorSpecialty = appointment.Doctor.Specialty
	}
	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// TimeSlotsToLabels renders slots in the 12-hour form shown by the mobile client
func TimeSlotsToLabels(slots []entity.TimeSlot) []string {
	labels := make([]string, len(slots))
	for i, slot := range slots {
		labels[i] = slot.Label()
	}
	return labels
}
