package converter

import (
	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:                  user.ID,
		Name:                user.Name,
		Email:               user.Email,
		Image:               user.Image,
		UserType:            string(user.UserType),
		MedicalHistory:      user.MedicalHistory,
		Allergies:           []string(user.Allergies),
		BirthDate:           user.BirthDate,
		Specialization:      user.Specialization,
		ProfessionalLicense: user.ProfessionalLicense,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}

	if len(user.Availability) > 0 {
		response.Availability = make([]dto.AvailabilitySlotDTO, 0, len(user.Availability))
		for _, slot := range user.Availability {
			response.Availability = append(response.Availability, dto.AvailabilitySlotDTO{
				DayOfWeek: slot.DayOfWeek,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
			})
		}
	}

	return response
}

func UsersToResponse(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *UserToResponse(&users[i]))
	}
	return responses
}

// ProfilePatchFromRequest maps the optional request fields onto a patch.
func ProfilePatchFromRequest(req *dto.UpdateProfileRequest) entity.UserProfilePatch {
	patch := entity.UserProfilePatch{
		MedicalHistory:      req.MedicalHistory,
		Allergies:           req.Allergies,
		BirthDate:           req.BirthDate,
		Specialization:      req.Specialization,
		ProfessionalLicense: req.ProfessionalLicense,
	}

	if req.UserType != nil {
		userType := entity.UserType(*req.UserType)
		patch.UserType = &userType
	}

	if req.Availability != nil {
		slots := make([]entity.AvailabilitySlot, 0, len(*req.Availability))
		for _, slot := range *req.Availability {
			slots = append(slots, entity.AvailabilitySlot{
				DayOfWeek: slot.DayOfWeek,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
			})
		}
		patch.Availability = &slots
	}

	return patch
}
