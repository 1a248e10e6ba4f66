package repository

import (
	"errors"

	"patient-monitoring-service/internal/domain/entity"
	domainRepo "patient-monitoring-service/internal/domain/repository"

	"gorm.io/gorm"
)

type credentialRepository struct{}

func NewCredentialRepository() domainRepo.CredentialRepository {
	return &credentialRepository{}
}

func (r *credentialRepository) Create(db *gorm.DB, credential *entity.Credential) error {
	return db.Create(credential).Error
}

func (r *credentialRepository) FindByEmail(db *gorm.DB, email string) (*entity.Credential, error) {
	return r.findOne(db, "email = ?", email)
}

func (r *credentialRepository) FindBySubject(db *gorm.DB, subject string) (*entity.Credential, error) {
	return r.findOne(db, "subject = ?", subject)
}

func (r *credentialRepository) findOne(db *gorm.DB, query string, arg interface{}) (*entity.Credential, error) {
	var credential entity.Credential
	err := db.Where(query, arg).First(&credential).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credential, nil
}
