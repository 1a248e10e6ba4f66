package handler

import (
	"net/http"

	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/delivery/http/middleware"
	"patient-monitoring-service/internal/usecase"
	"patient-monitoring-service/pkg/response"
	"patient-monitoring-service/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// Create books an appointment for the caller with a professional
// @Summary Create appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Appointment"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), middleware.IdentityFromContext(r.Context()), &req)
	if err != nil {
		writeError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

// ListByPatient
// @Summary List appointments of a patient
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} response.Response
// @Router /patients/{id}/appointments [get]
func (h *AppointmentHandler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	appointments, err := h.appointmentUsecase.ListByPatient(r.Context(), middleware.IdentityFromContext(r.Context()), patientID)
	if err != nil {
		writeError(w, err, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// ListByProfessional
// @Summary List appointments of a professional
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Professional ID"
// @Success 200 {object} response.Response
// @Router /professionals/{id}/appointments [get]
func (h *AppointmentHandler) ListByProfessional(w http.ResponseWriter, r *http.Request) {
	professionalID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid professional ID")
		return
	}

	appointments, err := h.appointmentUsecase.ListByProfessional(r.Context(), middleware.IdentityFromContext(r.Context()), professionalID)
	if err != nil {
		writeError(w, err, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// UpdateStatus moves an appointment to a new status
// @Summary Update appointment status
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), middleware.IdentityFromContext(r.Context()), appointmentID, &req)
	if err != nil {
		writeError(w, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

// MarkReminderSent
// @Summary Mark appointment reminder as sent
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Router /appointments/{id}/reminder-sent [post]
func (h *AppointmentHandler) MarkReminderSent(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.MarkReminderSent(r.Context(), middleware.IdentityFromContext(r.Context()), appointmentID)
	if err != nil {
		writeError(w, err, "Failed to mark reminder as sent")
		return
	}

	response.Success(w, http.StatusOK, "Reminder marked as sent", appointment)
}
