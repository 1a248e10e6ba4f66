package dto

import (
	"time"

	"github.com/google/uuid"
)

type RecordHealthMetricRequest struct {
	Type      string   `json:"type" validate:"required,max=50"`
	Value     *float64 `json:"value" validate:"omitempty,gt=-100000000,lt=100000000"`
	Unit      string   `json:"unit" validate:"omitempty,max=20"`
	Systolic  *float64 `json:"systolic" validate:"omitempty,gt=0,lt=100000000"`
	Diastolic *float64 `json:"diastolic" validate:"omitempty,gt=0,lt=100000000"`
	Notes     string   `json:"notes" validate:"omitempty,max=2000"`
}

type RecentHealthMetricsQuery struct {
	Type  string `json:"type" validate:"required,max=50"`
	Limit int    `json:"limit" validate:"gte=1,lte=100"`
}

type HealthMetricResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Type       string    `json:"type"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Systolic   *float64  `json:"systolic,omitempty"`
	Diastolic  *float64  `json:"diastolic,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	IsAbnormal bool      `json:"is_abnormal"`
	Notes      string    `json:"notes,omitempty"`
}
