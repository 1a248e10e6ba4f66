package dto

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilitySlotDTO struct {
	DayOfWeek int    `json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

// UpdateProfileRequest is a partial update: omitted fields are left untouched.
type UpdateProfileRequest struct {
	UserType            *string                `json:"user_type" validate:"omitempty,oneof=patient professional"`
	MedicalHistory      *string                `json:"medical_history"`
	Allergies           *[]string              `json:"allergies" validate:"omitempty,dive,required,max=255"`
	BirthDate           *string                `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Specialization      *string                `json:"specialization" validate:"omitempty,max=255"`
	ProfessionalLicense *string                `json:"professional_license" validate:"omitempty,max=100"`
	Availability        *[]AvailabilitySlotDTO `json:"availability" validate:"omitempty,dive"`
}

type UserResponse struct {
	ID                  uuid.UUID             `json:"id"`
	Name                string                `json:"name"`
	Email               string                `json:"email"`
	Image               string                `json:"image,omitempty"`
	UserType            string                `json:"user_type"`
	MedicalHistory      string                `json:"medical_history,omitempty"`
	Allergies           []string              `json:"allergies,omitempty"`
	BirthDate           string                `json:"birth_date,omitempty"`
	Specialization      string                `json:"specialization,omitempty"`
	ProfessionalLicense string                `json:"professional_license,omitempty"`
	Availability        []AvailabilitySlotDTO `json:"availability,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}
