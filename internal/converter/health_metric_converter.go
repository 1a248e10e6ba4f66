package converter

import (
	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func HealthMetricToResponse(metric *entity.HealthMetric) *dto.HealthMetricResponse {
	if metric == nil {
		return nil
	}

	return &dto.HealthMetricResponse{
		ID:         metric.ID,
		UserID:     metric.UserID,
		Type:       string(metric.Type),
		Value:      metric.Value.InexactFloat64(),
		Unit:       metric.Unit,
		Systolic:   decimalToFloat(metric.Systolic),
		Diastolic:  decimalToFloat(metric.Diastolic),
		Timestamp:  metric.Timestamp,
		IsAbnormal: metric.IsAbnormal,
		Notes:      metric.Notes,
	}
}

func HealthMetricsToResponse(metrics []entity.HealthMetric) []dto.HealthMetricResponse {
	responses := make([]dto.HealthMetricResponse, 0, len(metrics))
	for i := range metrics {
		responses = append(responses, *HealthMetricToResponse(&metrics[i]))
	}
	return responses
}

func decimalToFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

// FloatToDecimal converts an optional request number into a decimal rounded
// to the scale readings are stored with.
func FloatToDecimal(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f).Round(entity.MetricValueScale)
	return &d
}
