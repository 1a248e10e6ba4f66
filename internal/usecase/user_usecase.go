package usecase

import (
	"context"
	"errors"
	"time"

	"patient-monitoring-service/internal/converter"
	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/domain/entity"
	"patient-monitoring-service/internal/domain/repository"
	"patient-monitoring-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidUserType     = errors.New("user type must be patient or professional")
	ErrInvalidAvailability = errors.New("availability slots need a day between 0 and 6 and a start time before the end time")
)

type UserUsecase interface {
	GetCurrentUser(ctx context.Context, identity *entity.Identity) (*dto.UserResponse, error)
	CreateOrSync(ctx context.Context, identity *entity.Identity) (*dto.UserResponse, error)
	ListProfessionals(ctx context.Context, identity *entity.Identity) ([]dto.UserResponse, error)
	UpdateProfile(ctx context.Context, identity *entity.Identity, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	GetUserByID(ctx context.Context, identity *entity.Identity, userID uuid.UUID) (*dto.UserResponse, error)
}

type userUsecase struct {
	transactor   repository.Transactor
	log          *logrus.Logger
	userRepo     repository.UserRepository
	auditService service.AuditService
	now          func() time.Time
}

func NewUserUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	auditService service.AuditService,
) UserUsecase {
	return &userUsecase{
		transactor:   transactor,
		log:          log,
		userRepo:     userRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

func (u *userUsecase) GetCurrentUser(ctx context.Context, identity *entity.Identity) (*dto.UserResponse, error) {
	user, err := resolveCaller(u.transactor.DB(ctx), u.userRepo, identity)
	if err != nil {
		if !errors.Is(err, ErrUnauthenticated) && !errors.Is(err, ErrUserNotFound) {
			u.log.Warnf("Failed to resolve current user: %+v", err)
		}
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

// CreateOrSync is idempotent: repeated calls with the same identity leave
// exactly one user, whose name and email follow the identity.
func (u *userUsecase) CreateOrSync(ctx context.Context, identity *entity.Identity) (*dto.UserResponse, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByTokenIdentifier(u.transactor.DB(ctx), identity.Subject)
	if err != nil {
		u.log.Warnf("Failed to find user by token identifier: %+v", err)
		return nil, err
	}

	if user == nil {
		user, err = u.createUser(ctx, identity)
		if err != nil {
			return nil, err
		}
		return converter.UserToResponse(user), nil
	}

	if err := u.syncIdentityFields(ctx, user, identity); err != nil {
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) createUser(ctx context.Context, identity *entity.Identity) (*entity.User, error) {
	user := &entity.User{
		ID:              uuid.New(),
		TokenIdentifier: identity.Subject,
		Name:            identity.Name,
		Email:           identity.Email,
		UserType:        entity.UserTypePatient,
	}

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.Create(tx, user); err != nil {
			return err
		}
		u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserCreate, "user", user.ID.String(), converter.UserToResponse(user))
		return nil
	})
	if err == nil {
		u.log.WithField("user_id", user.ID).Info("User created")
		return user, nil
	}

	if !isDuplicateKeyError(err, "token_identifier") {
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	// A concurrent first contact won the insert; continue with its row.
	existing, findErr := u.userRepo.FindByTokenIdentifier(u.transactor.DB(ctx), identity.Subject)
	if findErr != nil || existing == nil {
		u.log.Warnf("Failed to re-read user after duplicate insert: %+v", findErr)
		return nil, err
	}
	if err := u.syncIdentityFields(ctx, existing, identity); err != nil {
		return nil, err
	}
	return existing, nil
}

// syncIdentityFields copies non-empty name and email from the identity when
// they differ from the stored values.
func (u *userUsecase) syncIdentityFields(ctx context.Context, user *entity.User, identity *entity.Identity) error {
	name, email := user.Name, user.Email
	if identity.Name != "" {
		name = identity.Name
	}
	if identity.Email != "" {
		email = identity.Email
	}
	if name == user.Name && email == user.Email {
		return nil
	}

	if err := u.userRepo.UpdateIdentityFields(u.transactor.DB(ctx), user.ID, name, email); err != nil {
		u.log.Warnf("Failed to sync user %s: %+v", user.ID, err)
		return err
	}

	user.Name = name
	user.Email = email
	user.UpdatedAt = u.now()
	return nil
}

func (u *userUsecase) ListProfessionals(ctx context.Context, identity *entity.Identity) ([]dto.UserResponse, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	users, err := u.userRepo.FindByUserType(u.transactor.DB(ctx), entity.UserTypeProfessional)
	if err != nil {
		u.log.Warnf("Failed to list professionals: %+v", err)
		return nil, err
	}

	return converter.UsersToResponse(users), nil
}

func (u *userUsecase) UpdateProfile(ctx context.Context, identity *entity.Identity, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	caller, err := resolveCaller(u.transactor.DB(ctx), u.userRepo, identity)
	if err != nil {
		return nil, err
	}

	patch := converter.ProfilePatchFromRequest(req)
	if err := validateProfilePatch(patch); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return converter.UserToResponse(caller), nil
	}

	before := converter.UserToResponse(caller)
	updated := *caller
	patch.Apply(&updated)
	updated.UpdatedAt = u.now()

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.UpdateProfile(tx, caller.ID, patch); err != nil {
			return err
		}
		u.auditService.LogUpdate(ctx, tx, &caller.ID, entity.AuditActionProfileUpdate, "user", caller.ID.String(), before, converter.UserToResponse(&updated))
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to update profile of user %s: %+v", caller.ID, err)
		return nil, err
	}

	return converter.UserToResponse(&updated), nil
}

func (u *userUsecase) GetUserByID(ctx context.Context, identity *entity.Identity, userID uuid.UUID) (*dto.UserResponse, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(u.transactor.DB(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func validateProfilePatch(patch entity.UserProfilePatch) error {
	if patch.UserType != nil && !patch.UserType.IsValid() {
		return ErrInvalidUserType
	}
	if patch.Availability != nil {
		for _, slot := range *patch.Availability {
			if !validAvailabilitySlot(slot) {
				return ErrInvalidAvailability
			}
		}
	}
	return nil
}

func validAvailabilitySlot(slot entity.AvailabilitySlot) bool {
	if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
		return false
	}
	start, err := time.Parse("15:04", slot.StartTime)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", slot.EndTime)
	if err != nil {
		return false
	}
	return start.Before(end)
}
