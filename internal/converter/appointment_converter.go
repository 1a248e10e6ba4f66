package converter

import (
	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/domain/entity"
)

func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:             appointment.ID,
		PatientID:      appointment.PatientID,
		ProfessionalID: appointment.ProfessionalID,
		Date:           appointment.Date,
		Time:           appointment.Time,
		Status:         string(appointment.Status),
		Notes:          appointment.Notes,
		Type:           string(appointment.Type),
		Location:       appointment.Location,
		ReminderSent:   appointment.ReminderSent,
		CreatedAt:      appointment.CreatedAt,
		UpdatedAt:      appointment.UpdatedAt,
	}
}

func AppointmentsToResponse(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, *AppointmentToResponse(&appointments[i]))
	}
	return responses
}
