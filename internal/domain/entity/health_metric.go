package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MetricType is the kind of vital sign a reading holds. Types outside the
// known set are accepted and never flagged as abnormal.
type MetricType string

const (
	MetricTypeBloodPressure MetricType = "bloodPressure"
	MetricTypeGlucose       MetricType = "glucose"
	MetricTypeHeartRate     MetricType = "heartRate"
)

// DefaultUnit returns the unit readings of a known type are recorded in.
func (t MetricType) DefaultUnit() string {
	switch t {
	case MetricTypeBloodPressure:
		return "mmHg"
	case MetricTypeGlucose:
		return "mg/dL"
	case MetricTypeHeartRate:
		return "bpm"
	}
	return ""
}

// MetricValueScale is the number of decimal places a stored reading keeps.
const MetricValueScale int32 = 2

// Normal ranges, inclusive on both ends
var (
	systolicMax  = decimal.NewFromInt(140)
	systolicMin  = decimal.NewFromInt(90)
	diastolicMax = decimal.NewFromInt(90)
	diastolicMin = decimal.NewFromInt(60)
	glucoseMax   = decimal.NewFromInt(180)
	glucoseMin   = decimal.NewFromInt(70)
	heartRateMax = decimal.NewFromInt(100)
	heartRateMin = decimal.NewFromInt(60)
)

// HealthMetric is a single timestamped vital-sign reading. Rows are append-only.
type HealthMetric struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type       MetricType       `gorm:"type:varchar(50);not null" json:"type"`
	Value      decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"value"`
	Unit       string           `gorm:"type:varchar(20);not null" json:"unit"`
	Systolic   *decimal.Decimal `gorm:"type:numeric(10,2)" json:"systolic,omitempty"`
	Diastolic  *decimal.Decimal `gorm:"type:numeric(10,2)" json:"diastolic,omitempty"`
	Timestamp  time.Time        `gorm:"column:recorded_at;not null;index" json:"timestamp"`
	IsAbnormal bool             `gorm:"not null;default:false" json:"is_abnormal"`
	Notes      string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (HealthMetric) TableName() string {
	return "health_metrics"
}

// ClassifyAbnormal reports whether a reading falls outside the normal range
// for its type. Blood pressure needs both components; without them the
// reading cannot be classified and is reported as normal.
func ClassifyAbnormal(metricType MetricType, value decimal.Decimal, systolic, diastolic *decimal.Decimal) bool {
	switch metricType {
	case MetricTypeBloodPressure:
		if systolic == nil || diastolic == nil {
			return false
		}
		return systolic.GreaterThan(systolicMax) ||
			systolic.LessThan(systolicMin) ||
			diastolic.GreaterThan(diastolicMax) ||
			diastolic.LessThan(diastolicMin)
	case MetricTypeGlucose:
		return value.GreaterThan(glucoseMax) || value.LessThan(glucoseMin)
	case MetricTypeHeartRate:
		return value.GreaterThan(heartRateMax) || value.LessThan(heartRateMin)
	}
	return false
}
