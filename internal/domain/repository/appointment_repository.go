package repository

import (
	"patient-monitoring-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByProfessionalID(db *gorm.DB, professionalID uuid.UUID) ([]entity.Appointment, error)
	ExistsBetween(db *gorm.DB, patientID, professionalID uuid.UUID) (bool, error)
	// UpdateStatus moves the appointment from one status to another and
	// reports false when its current status is no longer from.
	UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (bool, error)
	MarkReminderSent(db *gorm.DB, id uuid.UUID) error
}
