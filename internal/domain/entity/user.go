package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserType distinguishes patients from healthcare professionals
type UserType string

const (
	UserTypePatient      UserType = "patient"
	UserTypeProfessional UserType = "professional"
)

func (t UserType) IsValid() bool {
	switch t {
	case UserTypePatient, UserTypeProfessional:
		return true
	}
	return false
}

// AvailabilitySlot is a weekly window in which a professional takes appointments.
// DayOfWeek follows time.Weekday (0 = Sunday).
type AvailabilitySlot struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// User is the internal record of an authenticated identity
type User struct {
	ID                  uuid.UUID                             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TokenIdentifier     string                                `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	Name                string                                `gorm:"type:varchar(255)" json:"name"`
	Email               string                                `gorm:"type:varchar(255)" json:"email"`
	Image               string                                `gorm:"type:text" json:"image,omitempty"`
	UserType            UserType                              `gorm:"type:varchar(20);not null;default:'patient';index" json:"user_type"`
	MedicalHistory      string                                `gorm:"type:text" json:"medical_history,omitempty"`
	Allergies           datatypes.JSONSlice[string]           `gorm:"type:jsonb" json:"allergies,omitempty"`
	BirthDate           string                                `gorm:"type:varchar(10)" json:"birth_date,omitempty"`
	Specialization      string                                `gorm:"type:varchar(255)" json:"specialization,omitempty"`
	ProfessionalLicense string                                `gorm:"type:varchar(100)" json:"professional_license,omitempty"`
	Availability        datatypes.JSONSlice[AvailabilitySlot] `gorm:"type:jsonb" json:"availability,omitempty"`
	CreatedAt           time.Time                             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time                             `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsProfessional() bool {
	return u.UserType == UserTypeProfessional
}

// UserProfilePatch carries an optional value per profile attribute.
// A nil field is left untouched; TokenIdentifier is never patchable.
type UserProfilePatch struct {
	UserType            *UserType
	MedicalHistory      *string
	Allergies           *[]string
	BirthDate           *string
	Specialization      *string
	ProfessionalLicense *string
	Availability        *[]AvailabilitySlot
}

func (p UserProfilePatch) IsEmpty() bool {
	return p.UserType == nil &&
		p.MedicalHistory == nil &&
		p.Allergies == nil &&
		p.BirthDate == nil &&
		p.Specialization == nil &&
		p.ProfessionalLicense == nil &&
		p.Availability == nil
}

// Apply copies every set field of the patch onto the user.
func (p UserProfilePatch) Apply(u *User) {
	if p.UserType != nil {
		u.UserType = *p.UserType
	}
	if p.MedicalHistory != nil {
		u.MedicalHistory = *p.MedicalHistory
	}
	if p.Allergies != nil {
		u.Allergies = datatypes.JSONSlice[string](*p.Allergies)
	}
	if p.BirthDate != nil {
		u.BirthDate = *p.BirthDate
	}
	if p.Specialization != nil {
		u.Specialization = *p.Specialization
	}
	if p.ProfessionalLicense != nil {
		u.ProfessionalLicense = *p.ProfessionalLicense
	}
	if p.Availability != nil {
		u.Availability = datatypes.JSONSlice[AvailabilitySlot](*p.Availability)
	}
}
