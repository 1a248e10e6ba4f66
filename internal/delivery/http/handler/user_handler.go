package handler

import (
	"net/http"

	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/delivery/http/middleware"
	"patient-monitoring-service/internal/usecase"
	"patient-monitoring-service/pkg/response"
	"patient-monitoring-service/pkg/validator"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
	}
}

// GetCurrentUser returns the user record of the caller
// @Summary Get current user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/me [get]
func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.GetCurrentUser(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, err, "Failed to get current user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

// Sync creates the caller's user record on first contact or refreshes its name and email
// @Summary Create or sync current user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/sync [post]
func (h *UserHandler) Sync(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.CreateOrSync(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, err, "Failed to sync user")
		return
	}

	response.Success(w, http.StatusOK, "User synced successfully", user)
}

// UpdateProfile patches the caller's profile
// @Summary Update current user's profile
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile patch"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/me [patch]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.userUsecase.UpdateProfile(r.Context(), middleware.IdentityFromContext(r.Context()), &req)
	if err != nil {
		writeError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", user)
}

// ListProfessionals returns every healthcare professional
// @Summary List professionals
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/professionals [get]
func (h *UserHandler) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.ListProfessionals(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, err, "Failed to list professionals")
		return
	}

	response.Success(w, http.StatusOK, "Professionals retrieved successfully", users)
}

// GetUser returns one user by id
// @Summary Get user by ID
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	user, err := h.userUsecase.GetUserByID(r.Context(), middleware.IdentityFromContext(r.Context()), userID)
	if err != nil {
		writeError(w, err, "Failed to get user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}
