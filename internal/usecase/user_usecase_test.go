package usecase

import (
	"context"
	"testing"

	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	usecase UserUsecase
	users   *memUserRepo
	audit   *fakeAuditService
}

func newUserFixture() userFixture {
	users := newMemUserRepo()
	audit := &fakeAuditService{}
	return userFixture{
		usecase: NewUserUsecase(&fakeTransactor{}, testLogger(), users, audit),
		users:   users,
		audit:   audit,
	}
}

func strPtr(s string) *string {
	return &s
}

func TestUserUsecase_CreateOrSync(t *testing.T) {
	ctx := context.Background()

	t.Run("repeated calls leave exactly one user", func(t *testing.T) {
		f := newUserFixture()
		identity := &entity.Identity{Subject: "subject-1", Name: "Ana", Email: "ana@example.com"}

		first, err := f.usecase.CreateOrSync(ctx, identity)
		require.NoError(t, err)
		second, err := f.usecase.CreateOrSync(ctx, identity)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, f.users.count())
		assert.Equal(t, string(entity.UserTypePatient), first.UserType)
		assert.Equal(t, []string{entity.AuditActionUserCreate}, f.audit.actions())
	})

	t.Run("changed name is synced", func(t *testing.T) {
		f := newUserFixture()
		_, err := f.usecase.CreateOrSync(ctx, &entity.Identity{Subject: "subject-1", Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)

		user, err := f.usecase.CreateOrSync(ctx, &entity.Identity{Subject: "subject-1", Name: "Ana Maria", Email: "ana@example.com"})
		require.NoError(t, err)

		assert.Equal(t, "Ana Maria", user.Name)
		assert.Equal(t, "ana@example.com", user.Email)
		assert.Equal(t, 1, f.users.count())
	})

	t.Run("empty identity fields do not overwrite stored values", func(t *testing.T) {
		f := newUserFixture()
		_, err := f.usecase.CreateOrSync(ctx, &entity.Identity{Subject: "subject-1", Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)
		writes := f.users.writes

		user, err := f.usecase.CreateOrSync(ctx, &entity.Identity{Subject: "subject-1"})
		require.NoError(t, err)

		assert.Equal(t, "Ana", user.Name)
		assert.Equal(t, "ana@example.com", user.Email)
		assert.Equal(t, writes, f.users.writes)
	})

	t.Run("missing identity is rejected without writes", func(t *testing.T) {
		f := newUserFixture()

		_, err := f.usecase.CreateOrSync(ctx, nil)
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.Equal(t, 0, f.users.count())
		assert.Empty(t, f.audit.actions())
	})

	t.Run("concurrent first contact continues with the winning row", func(t *testing.T) {
		f := newUserFixture()
		var winner *entity.User
		f.users.beforeCreate = func() {
			f.users.beforeCreate = nil
			winner = f.users.seed(entity.User{TokenIdentifier: "subject-1", Name: "Ana", UserType: entity.UserTypePatient})
		}

		user, err := f.usecase.CreateOrSync(ctx, &entity.Identity{Subject: "subject-1", Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)

		require.NotNil(t, winner)
		assert.Equal(t, winner.ID, user.ID)
		assert.Equal(t, "ana@example.com", user.Email)
		assert.Equal(t, 1, f.users.count())
	})
}

func TestUserUsecase_GetCurrentUser(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()

	_, err := f.usecase.GetCurrentUser(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.usecase.GetCurrentUser(ctx, &entity.Identity{Subject: "unknown"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	stored := f.users.seed(entity.User{TokenIdentifier: "subject-1", Name: "Ana", UserType: entity.UserTypePatient})
	user, err := f.usecase.GetCurrentUser(ctx, &entity.Identity{Subject: "subject-1"})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
}

func TestUserUsecase_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	identity := &entity.Identity{Subject: "subject-1"}

	t.Run("patch is applied and audited", func(t *testing.T) {
		f := newUserFixture()
		f.users.seed(entity.User{TokenIdentifier: "subject-1", Name: "Ana", UserType: entity.UserTypePatient, MedicalHistory: "asthma"})

		allergies := []string{"penicillin"}
		user, err := f.usecase.UpdateProfile(ctx, identity, &dto.UpdateProfileRequest{
			UserType:       strPtr("professional"),
			Specialization: strPtr("cardiology"),
			Allergies:      &allergies,
			Availability: &[]dto.AvailabilitySlotDTO{
				{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, string(entity.UserTypeProfessional), user.UserType)
		assert.Equal(t, "cardiology", user.Specialization)
		assert.Equal(t, []string{"penicillin"}, user.Allergies)
		assert.Equal(t, "asthma", user.MedicalHistory)
		assert.Len(t, user.Availability, 1)
		assert.Equal(t, []string{entity.AuditActionProfileUpdate}, f.audit.actions())

		stored, err := f.users.FindByID(nil, user.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsProfessional())
		assert.Equal(t, "Ana", stored.Name)
	})

	t.Run("invalid user type", func(t *testing.T) {
		f := newUserFixture()
		f.users.seed(entity.User{TokenIdentifier: "subject-1", UserType: entity.UserTypePatient})

		_, err := f.usecase.UpdateProfile(ctx, identity, &dto.UpdateProfileRequest{UserType: strPtr("admin")})
		assert.ErrorIs(t, err, ErrInvalidUserType)
		assert.Empty(t, f.audit.actions())
	})

	t.Run("availability must start before it ends", func(t *testing.T) {
		f := newUserFixture()
		f.users.seed(entity.User{TokenIdentifier: "subject-1", UserType: entity.UserTypeProfessional})

		_, err := f.usecase.UpdateProfile(ctx, identity, &dto.UpdateProfileRequest{
			Availability: &[]dto.AvailabilitySlotDTO{{DayOfWeek: 2, StartTime: "14:00", EndTime: "09:00"}},
		})
		assert.ErrorIs(t, err, ErrInvalidAvailability)
	})

	t.Run("empty patch returns the stored user", func(t *testing.T) {
		f := newUserFixture()
		f.users.seed(entity.User{TokenIdentifier: "subject-1", Name: "Ana", UserType: entity.UserTypePatient})

		user, err := f.usecase.UpdateProfile(ctx, identity, &dto.UpdateProfileRequest{})
		require.NoError(t, err)
		assert.Equal(t, "Ana", user.Name)
		assert.Equal(t, 0, f.users.writes)
		assert.Empty(t, f.audit.actions())
	})

	t.Run("unsynced caller", func(t *testing.T) {
		f := newUserFixture()
		_, err := f.usecase.UpdateProfile(ctx, identity, &dto.UpdateProfileRequest{MedicalHistory: strPtr("none")})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserUsecase_ListProfessionalsAndGetUser(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	caller := &entity.Identity{Subject: "subject-1"}

	f.users.seed(entity.User{TokenIdentifier: "subject-1", UserType: entity.UserTypePatient})
	doctor := f.users.seed(entity.User{TokenIdentifier: "subject-2", Name: "Dr. Lee", UserType: entity.UserTypeProfessional})

	professionals, err := f.usecase.ListProfessionals(ctx, caller)
	require.NoError(t, err)
	require.Len(t, professionals, 1)
	assert.Equal(t, doctor.ID, professionals[0].ID)

	_, err = f.usecase.ListProfessionals(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	user, err := f.usecase.GetUserByID(ctx, caller, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Lee", user.Name)

	_, err = f.usecase.GetUserByID(ctx, caller, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)

	blank := &entity.Identity{Name: "No Subject"}
	_, err = f.usecase.ListProfessionals(ctx, blank)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.usecase.GetUserByID(ctx, blank, doctor.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.usecase.GetCurrentUser(ctx, blank)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
