package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"patient-monitoring-service/internal/converter"
	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/domain/entity"
	"patient-monitoring-service/internal/domain/repository"
	"patient-monitoring-service/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrMissingBloodPressure = errors.New("blood pressure readings need both systolic and diastolic")
	ErrMissingMetricValue   = errors.New("value is required for this metric type")
	ErrMissingMetricUnit    = errors.New("unit is required for this metric type")
)

const (
	DefaultRecentMetricsLimit = 10
	MaxRecentMetricsLimit     = 100
)

type HealthMetricUsecase interface {
	Record(ctx context.Context, identity *entity.Identity, req *dto.RecordHealthMetricRequest) (*dto.HealthMetricResponse, error)
	ListByUser(ctx context.Context, identity *entity.Identity, userID uuid.UUID) ([]dto.HealthMetricResponse, error)
	ListRecentByType(ctx context.Context, identity *entity.Identity, userID uuid.UUID, query *dto.RecentHealthMetricsQuery) ([]dto.HealthMetricResponse, error)
	ListAbnormal(ctx context.Context, identity *entity.Identity, userID uuid.UUID) ([]dto.HealthMetricResponse, error)
}

type healthMetricUsecase struct {
	transactor      repository.Transactor
	log             *logrus.Logger
	userRepo        repository.UserRepository
	metricRepo      repository.HealthMetricRepository
	appointmentRepo repository.AppointmentRepository
	metrics         *metrics.Collector
	now             func() time.Time
}

func NewHealthMetricUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	metricRepo repository.HealthMetricRepository,
	appointmentRepo repository.AppointmentRepository,
	collector *metrics.Collector,
) HealthMetricUsecase {
	return &healthMetricUsecase{
		transactor:      transactor,
		log:             log,
		userRepo:        userRepo,
		metricRepo:      metricRepo,
		appointmentRepo: appointmentRepo,
		metrics:         collector,
		now:             time.Now,
	}
}

func (u *healthMetricUsecase) Record(ctx context.Context, identity *entity.Identity, req *dto.RecordHealthMetricRequest) (*dto.HealthMetricResponse, error) {
	db := u.transactor.DB(ctx)
	caller, err := resolveCaller(db, u.userRepo, identity)
	if err != nil {
		return nil, err
	}

	metric, err := u.buildMetric(caller.ID, req)
	if err != nil {
		return nil, err
	}

	if err := u.metricRepo.Create(db, metric); err != nil {
		u.log.Warnf("Failed to record health metric: %+v", err)
		return nil, err
	}

	u.metrics.HealthMetricRecorded(string(metric.Type), metric.IsAbnormal)
	if metric.IsAbnormal {
		u.log.WithFields(logrus.Fields{
			"user_id":   caller.ID,
			"metric_id": metric.ID,
			"type":      metric.Type,
		}).Info("Abnormal health metric recorded")
	}

	return converter.HealthMetricToResponse(metric), nil
}

// buildMetric fills in type defaults and classifies the reading.
func (u *healthMetricUsecase) buildMetric(userID uuid.UUID, req *dto.RecordHealthMetricRequest) (*entity.HealthMetric, error) {
	metricType := entity.MetricType(strings.TrimSpace(req.Type))
	systolic := converter.FloatToDecimal(req.Systolic)
	diastolic := converter.FloatToDecimal(req.Diastolic)

	var value decimal.Decimal
	switch {
	case req.Value != nil:
		value = *converter.FloatToDecimal(req.Value)
	case metricType == entity.MetricTypeBloodPressure && systolic != nil:
		value = *systolic
	default:
		if metricType == entity.MetricTypeBloodPressure {
			return nil, ErrMissingBloodPressure
		}
		return nil, ErrMissingMetricValue
	}

	if metricType == entity.MetricTypeBloodPressure && (systolic == nil || diastolic == nil) {
		return nil, ErrMissingBloodPressure
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = metricType.DefaultUnit()
	}
	if unit == "" {
		return nil, ErrMissingMetricUnit
	}

	return &entity.HealthMetric{
		ID:         uuid.New(),
		UserID:     userID,
		Type:       metricType,
		Value:      value,
		Unit:       unit,
		Systolic:   systolic,
		Diastolic:  diastolic,
		Timestamp:  u.now(),
		IsAbnormal: entity.ClassifyAbnormal(metricType, value, systolic, diastolic),
		Notes:      req.Notes,
	}, nil
}

func (u *healthMetricUsecase) ListByUser(ctx context.Context, identity *entity.Identity, userID uuid.UUID) ([]dto.HealthMetricResponse, error) {
	db, err := u.authorizeRead(ctx, identity, userID)
	if err != nil {
		return nil, err
	}

	readings, err := u.metricRepo.FindByUserID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to list health metrics of user %s: %+v", userID, err)
		return nil, err
	}

	return converter.HealthMetricsToResponse(readings), nil
}

func (u *healthMetricUsecase) ListRecentByType(ctx context.Context, identity *entity.Identity, userID uuid.UUID, query *dto.RecentHealthMetricsQuery) ([]dto.HealthMetricResponse, error) {
	db, err := u.authorizeRead(ctx, identity, userID)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultRecentMetricsLimit
	}
	if limit > MaxRecentMetricsLimit {
		limit = MaxRecentMetricsLimit
	}

	readings, err := u.metricRepo.FindRecentByType(db, userID, entity.MetricType(query.Type), limit)
	if err != nil {
		u.log.Warnf("Failed to list recent %s metrics of user %s: %+v", query.Type, userID, err)
		return nil, err
	}

	return converter.HealthMetricsToResponse(readings), nil
}

func (u *healthMetricUsecase) ListAbnormal(ctx context.Context, identity *entity.Identity, userID uuid.UUID) ([]dto.HealthMetricResponse, error) {
	db, err := u.authorizeRead(ctx, identity, userID)
	if err != nil {
		return nil, err
	}

	readings, err := u.metricRepo.FindAbnormalByUserID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to list abnormal metrics of user %s: %+v", userID, err)
		return nil, err
	}

	return converter.HealthMetricsToResponse(readings), nil
}

func (u *healthMetricUsecase) authorizeRead(ctx context.Context, identity *entity.Identity, userID uuid.UUID) (*gorm.DB, error) {
	db := u.transactor.DB(ctx)
	caller, err := resolveCaller(db, u.userRepo, identity)
	if err != nil {
		return nil, err
	}

	allowed, err := canReadPatientData(db, u.appointmentRepo, caller, userID)
	if err != nil {
		u.log.Warnf("Failed to check access to user %s: %+v", userID, err)
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	return db, nil
}
