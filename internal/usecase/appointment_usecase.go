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
	"patient-monitoring-service/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrProfessionalNotFound    = errors.New("professional not found")
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatus           = errors.New("invalid appointment status")
	ErrInvalidStatusTransition = errors.New("appointment cannot move to the requested status")
)

type AppointmentUsecase interface {
	Create(ctx context.Context, identity *entity.Identity, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListByPatient(ctx context.Context, identity *entity.Identity, patientID uuid.UUID) ([]dto.AppointmentResponse, error)
	ListByProfessional(ctx context.Context, identity *entity.Identity, professionalID uuid.UUID) ([]dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, identity *entity.Identity, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	MarkReminderSent(ctx context.Context, identity *entity.Identity, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	transactor      repository.Transactor
	log             *logrus.Logger
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	metrics         *metrics.Collector
	now             func() time.Time
}

func NewAppointmentUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	collector *metrics.Collector,
) AppointmentUsecase {
	return &appointmentUsecase{
		transactor:      transactor,
		log:             log,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		metrics:         collector,
		now:             time.Now,
	}
}

func (u *appointmentUsecase) Create(ctx context.Context, identity *entity.Identity, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	db := u.transactor.DB(ctx)
	caller, err := resolveCaller(db, u.userRepo, identity)
	if err != nil {
		return nil, err
	}

	professionalID, err := uuid.Parse(req.ProfessionalID)
	if err != nil {
		return nil, ErrProfessionalNotFound
	}

	professional, err := u.userRepo.FindByID(db, professionalID)
	if err != nil {
		u.log.Warnf("Failed to find professional %s: %+v", professionalID, err)
		return nil, err
	}
	if professional == nil || !professional.IsProfessional() {
		return nil, ErrProfessionalNotFound
	}

	now := u.now()
	appointment := &entity.Appointment{
		ID:             uuid.New(),
		PatientID:      caller.ID,
		ProfessionalID: professional.ID,
		Date:           req.Date,
		Time:           req.Time,
		Status:         entity.AppointmentStatusScheduled,
		Notes:          req.Notes,
		Type:           entity.AppointmentType(req.Type),
		Location:       req.Location,
		ReminderSent:   false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			return err
		}
		u.auditService.LogCreate(ctx, tx, &caller.ID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment))
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.metrics.AppointmentStatus(string(appointment.Status))
	u.log.WithFields(logrus.Fields{
		"appointment_id":  appointment.ID,
		"patient_id":      appointment.PatientID,
		"professional_id": appointment.ProfessionalID,
	}).Info("Appointment scheduled")

	return converter.AppointmentToResponse(appointment), nil
}

// ListByPatient shows a patient all of their appointments. A professional
// only sees their own appointments with that patient, and none at all
// without one.
func (u *appointmentUsecase) ListByPatient(ctx context.Context, identity *entity.Identity, patientID uuid.UUID) ([]dto.AppointmentResponse, error) {
	db := u.transactor.DB(ctx)
	caller, err := resolveCaller(db, u.userRepo, identity)
	if err != nil {
		return nil, err
	}
	if caller.ID != patientID && !caller.IsProfessional() {
		return nil, ErrForbidden
	}

	appointments, err := u.appointmentRepo.FindByPatientID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to list appointments of patient %s: %+v", patientID, err)
		return nil, err
	}

	if caller.ID != patientID {
		appointments = filterByProfessional(appointments, caller.ID)
		if len(appointments) == 0 {
			return nil, ErrForbidden
		}
	}

	return converter.AppointmentsToResponse(appointments), nil
}

func (u *appointmentUsecase) ListByProfessional(ctx context.Context, identity *entity.Identity, professionalID uuid.UUID) ([]dto.AppointmentResponse, error) {
	db := u.transactor.DB(ctx)
	caller, err := resolveCaller(db, u.userRepo, identity)
	if err != nil {
		return nil, err
	}
	if caller.ID != professionalID {
		return nil, ErrForbidden
	}

	appointments, err := u.appointmentRepo.FindByProfessionalID(db, professionalID)
	if err != nil {
		u.log.Warnf("Failed to list appointments of professional %s: %+v", professionalID, err)
		return nil, err
	}

	return converter.AppointmentsToResponse(appointments), nil
}

func (u *appointmentUsecase) UpdateStatus(ctx context.Context, identity *entity.Identity, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	caller, appointment, err := u.participantAppointment(ctx, identity, appointmentID)
	if err != nil {
		return nil, err
	}

	next := entity.AppointmentStatus(req.Status)
	if !next.IsValid() {
		return nil, ErrInvalidStatus
	}
	if !appointment.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}

	before := converter.AppointmentToResponse(appointment)
	current := appointment.Status
	appointment.Status = next
	appointment.UpdatedAt = u.now()

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		updated, err := u.appointmentRepo.UpdateStatus(tx, appointment.ID, current, next)
		if err != nil {
			return err
		}
		// Another request changed the status after it was read.
		if !updated {
			return ErrInvalidStatusTransition
		}
		u.auditService.LogUpdate(ctx, tx, &caller.ID, entity.AuditActionAppointmentStatusUpdate, "appointment", appointment.ID.String(), before, converter.AppointmentToResponse(appointment))
		return nil
	})
	if errors.Is(err, ErrInvalidStatusTransition) {
		return nil, err
	}
	if err != nil {
		u.log.Warnf("Failed to update status of appointment %s: %+v", appointment.ID, err)
		return nil, err
	}

	u.metrics.AppointmentStatus(string(next))

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) MarkReminderSent(ctx context.Context, identity *entity.Identity, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	caller, appointment, err := u.participantAppointment(ctx, identity, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.ReminderSent {
		return converter.AppointmentToResponse(appointment), nil
	}

	before := converter.AppointmentToResponse(appointment)
	appointment.ReminderSent = true
	appointment.UpdatedAt = u.now()

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.appointmentRepo.MarkReminderSent(tx, appointment.ID); err != nil {
			return err
		}
		u.auditService.LogUpdate(ctx, tx, &caller.ID, entity.AuditActionAppointmentReminderSent, "appointment", appointment.ID.String(), before, converter.AppointmentToResponse(appointment))
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to mark reminder sent for appointment %s: %+v", appointment.ID, err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// participantAppointment loads an appointment the caller takes part in.
func (u *appointmentUsecase) participantAppointment(ctx context.Context, identity *entity.Identity, appointmentID uuid.UUID) (*entity.User, *entity.Appointment, error) {
	db := u.transactor.DB(ctx)
	caller, err := resolveCaller(db, u.userRepo, identity)
	if err != nil {
		return nil, nil, err
	}

	appointment, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, nil, err
	}
	if appointment == nil {
		return nil, nil, ErrAppointmentNotFound
	}
	if !appointment.HasParticipant(caller.ID) {
		return nil, nil, ErrForbidden
	}

	return caller, appointment, nil
}

func filterByProfessional(appointments []entity.Appointment, professionalID uuid.UUID) []entity.Appointment {
	filtered := make([]entity.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.ProfessionalID == professionalID {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
