package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestClassifyAbnormal_BloodPressure(t *testing.T) {
	// Every combination of in-range and out-of-range components, including the
	// inclusive boundaries.
	systolics := []float64{80, 89.99, 90, 120, 140, 140.01, 160}
	diastolics := []float64{50, 59.99, 60, 75, 90, 90.01, 100}

	for _, s := range systolics {
		for _, d := range diastolics {
			want := s > 140 || s < 90 || d > 90 || d < 60
			got := ClassifyAbnormal(MetricTypeBloodPressure, *dec(s), dec(s), dec(d))
			assert.Equalf(t, want, got, "systolic=%v diastolic=%v", s, d)
		}
	}
}

func TestClassifyAbnormal_BloodPressureMissingComponent(t *testing.T) {
	assert.False(t, ClassifyAbnormal(MetricTypeBloodPressure, *dec(200), dec(200), nil))
	assert.False(t, ClassifyAbnormal(MetricTypeBloodPressure, *dec(200), nil, dec(120)))
}

func TestClassifyAbnormal_Glucose(t *testing.T) {
	cases := map[float64]bool{
		40:     true,
		69.99:  true,
		70:     false,
		150:    false,
		180:    false,
		180.01: true,
		185:    true,
	}

	for value, want := range cases {
		got := ClassifyAbnormal(MetricTypeGlucose, *dec(value), nil, nil)
		assert.Equalf(t, want, got, "glucose=%v", value)
	}
}

func TestClassifyAbnormal_HeartRate(t *testing.T) {
	for value := 30.0; value <= 130; value += 5 {
		want := value > 100 || value < 60
		got := ClassifyAbnormal(MetricTypeHeartRate, *dec(value), nil, nil)
		assert.Equalf(t, want, got, "heartRate=%v", value)
	}
}

func TestClassifyAbnormal_UnknownTypeIsNormal(t *testing.T) {
	assert.False(t, ClassifyAbnormal(MetricType("weight"), *dec(9999), nil, nil))
	assert.False(t, ClassifyAbnormal(MetricType("temperature"), *dec(-10), nil, nil))
}

func TestMetricTypeDefaultUnit(t *testing.T) {
	assert.Equal(t, "mmHg", MetricTypeBloodPressure.DefaultUnit())
	assert.Equal(t, "mg/dL", MetricTypeGlucose.DefaultUnit())
	assert.Equal(t, "bpm", MetricTypeHeartRate.DefaultUnit())
	assert.Empty(t, MetricType("weight").DefaultUnit())
}
