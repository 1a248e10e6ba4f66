package repository

import (
	"patient-monitoring-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Finders return (nil, nil) when no row matches.
type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.User, error)
	FindByTokenIdentifier(db *gorm.DB, tokenIdentifier string) (*entity.User, error)
	FindByUserType(db *gorm.DB, userType entity.UserType) ([]entity.User, error)
	UpdateIdentityFields(db *gorm.DB, id uuid.UUID, name, email string) error
	UpdateProfile(db *gorm.DB, id uuid.UUID, patch entity.UserProfilePatch) error
}
