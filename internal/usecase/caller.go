package usecase

import (
	"errors"
	"strings"

	"patient-monitoring-service/internal/domain/entity"
	"patient-monitoring-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access to this resource is forbidden")
	ErrUserNotFound    = errors.New("user not found")
)

// requireIdentity rejects a missing identity or one without a subject.
func requireIdentity(identity *entity.Identity) error {
	if identity == nil || identity.Subject == "" {
		return ErrUnauthenticated
	}
	return nil
}

// resolveCaller maps the identity to its user record. It never touches the
// store without a valid identity.
func resolveCaller(db *gorm.DB, userRepo repository.UserRepository, identity *entity.Identity) (*entity.User, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	user, err := userRepo.FindByTokenIdentifier(db, identity.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// canReadPatientData reports whether caller may see the records of patientID:
// the patient themselves, or a professional with an appointment with them.
func canReadPatientData(db *gorm.DB, appointmentRepo repository.AppointmentRepository, caller *entity.User, patientID uuid.UUID) (bool, error) {
	if caller.ID == patientID {
		return true, nil
	}
	if !caller.IsProfessional() {
		return false, nil
	}
	return appointmentRepo.ExistsBetween(db, patientID, caller.ID)
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
