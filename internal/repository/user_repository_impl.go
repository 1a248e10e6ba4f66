package repository

import (
	"errors"

	"patient-monitoring-service/internal/domain/entity"
	domainRepo "patient-monitoring-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.User, error) {
	if len(ids) == 0 {
		return []entity.User{}, nil
	}
	var users []entity.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindByTokenIdentifier(db *gorm.DB, tokenIdentifier string) (*entity.User, error) {
	var user entity.User
	err := db.Where("token_identifier = ?", tokenIdentifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUserType(db *gorm.DB, userType entity.UserType) ([]entity.User, error) {
	var users []entity.User
	err := db.Where("user_type = ?", userType).Order("name ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateIdentityFields(db *gorm.DB, id uuid.UUID, name, email string) error {
	return db.Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "email": email}).Error
}

// UpdateProfile writes only the columns set in the patch. A map is used so
// that explicit empty values (clearing a field) are persisted too.
func (r *userRepository) UpdateProfile(db *gorm.DB, id uuid.UUID, patch entity.UserProfilePatch) error {
	columns := profileColumns(patch)
	if len(columns) == 0 {
		return nil
	}
	return db.Model(&entity.User{}).Where("id = ?", id).Updates(columns).Error
}

func profileColumns(patch entity.UserProfilePatch) map[string]interface{} {
	columns := map[string]interface{}{}
	if patch.UserType != nil {
		columns["user_type"] = *patch.UserType
	}
	if patch.MedicalHistory != nil {
		columns["medical_history"] = *patch.MedicalHistory
	}
	if patch.Allergies != nil {
		columns["allergies"] = datatypes.JSONSlice[string](*patch.Allergies)
	}
	if patch.BirthDate != nil {
		columns["birth_date"] = *patch.BirthDate
	}
	if patch.Specialization != nil {
		columns["specialization"] = *patch.Specialization
	}
	if patch.ProfessionalLicense != nil {
		columns["professional_license"] = *patch.ProfessionalLicense
	}
	if patch.Availability != nil {
		columns["availability"] = datatypes.JSONSlice[entity.AvailabilitySlot](*patch.Availability)
	}
	return columns
}
