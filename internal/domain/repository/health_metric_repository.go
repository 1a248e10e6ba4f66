package repository

import (
	"patient-monitoring-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// All finders order by timestamp, newest first.
type HealthMetricRepository interface {
	Create(db *gorm.DB, metric *entity.HealthMetric) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.HealthMetric, error)
	FindRecentByType(db *gorm.DB, userID uuid.UUID, metricType entity.MetricType, limit int) ([]entity.HealthMetric, error)
	FindAbnormalByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.HealthMetric, error)
}
