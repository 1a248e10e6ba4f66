package repository

import (
	"patient-monitoring-service/internal/domain/entity"
	domainRepo "patient-monitoring-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type healthMetricRepository struct{}

func NewHealthMetricRepository() domainRepo.HealthMetricRepository {
	return &healthMetricRepository{}
}

func (r *healthMetricRepository) Create(db *gorm.DB, metric *entity.HealthMetric) error {
	return db.Create(metric).Error
}

func (r *healthMetricRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.HealthMetric, error) {
	var metrics []entity.HealthMetric
	err := db.Where("user_id = ?", userID).
		Order("recorded_at DESC").
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *healthMetricRepository) FindRecentByType(db *gorm.DB, userID uuid.UUID, metricType entity.MetricType, limit int) ([]entity.HealthMetric, error) {
	var metrics []entity.HealthMetric
	err := db.Where("user_id = ? AND type = ?", userID, metricType).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *healthMetricRepository) FindAbnormalByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.HealthMetric, error) {
	var metrics []entity.HealthMetric
	err := db.Where("user_id = ? AND is_abnormal = ?", userID, true).
		Order("recorded_at DESC").
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}
