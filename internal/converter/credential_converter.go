package converter

import (
	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/domain/entity"
)

func CredentialToResponse(credential *entity.Credential) *dto.CredentialResponse {
	if credential == nil {
		return nil
	}

	return &dto.CredentialResponse{
		ID:        credential.ID,
		Subject:   credential.Subject,
		Email:     credential.Email,
		FullName:  credential.FullName,
		CreatedAt: credential.CreatedAt,
	}
}
