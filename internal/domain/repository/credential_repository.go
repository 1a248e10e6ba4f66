package repository

import (
	"patient-monitoring-service/internal/domain/entity"

	"gorm.io/gorm"
)

type CredentialRepository interface {
	Create(db *gorm.DB, credential *entity.Credential) error
	FindByEmail(db *gorm.DB, email string) (*entity.Credential, error)
	FindBySubject(db *gorm.DB, subject string) (*entity.Credential, error)
}
