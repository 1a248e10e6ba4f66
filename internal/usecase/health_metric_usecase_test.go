package usecase

import (
	"context"
	"testing"
	"time"

	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/domain/entity"
	"patient-monitoring-service/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metricFixture struct {
	usecase      *healthMetricUsecase
	users        *memUserRepo
	metrics      *memMetricRepo
	appointments *memAppointmentRepo
	collector    *metrics.Collector
	patient      *entity.User
}

func newMetricFixture() metricFixture {
	users := newMemUserRepo()
	readings := &memMetricRepo{}
	appointments := newMemAppointmentRepo()
	collector := metrics.NewCollector("test", prometheus.NewRegistry())

	u := NewHealthMetricUsecase(&fakeTransactor{}, testLogger(), users, readings, appointments, collector).(*healthMetricUsecase)
	u.now = fixedClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	return metricFixture{
		usecase:      u,
		users:        users,
		metrics:      readings,
		appointments: appointments,
		collector:    collector,
		patient:      users.seed(entity.User{TokenIdentifier: "patient", UserType: entity.UserTypePatient}),
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

var patientIdentity = &entity.Identity{Subject: "patient"}

func TestHealthMetricUsecase_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("glucose above the range is abnormal", func(t *testing.T) {
		f := newMetricFixture()

		high, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{Type: "glucose", Value: floatPtr(185)})
		require.NoError(t, err)
		normal, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{Type: "glucose", Value: floatPtr(150)})
		require.NoError(t, err)

		assert.True(t, high.IsAbnormal)
		assert.False(t, normal.IsAbnormal)
		assert.Equal(t, "mg/dL", high.Unit)
		assert.Equal(t, f.patient.ID, high.UserID)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.collector.HealthMetricsRecorded.WithLabelValues("glucose", "true")))
		assert.Equal(t, 1.0, testutil.ToFloat64(f.collector.HealthMetricsRecorded.WithLabelValues("glucose", "false")))
	})

	t.Run("readings are classified at stored precision", func(t *testing.T) {
		f := newMetricFixture()

		glucose, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{Type: "glucose", Value: floatPtr(180.004)})
		require.NoError(t, err)
		assert.Equal(t, 180.0, glucose.Value)
		assert.False(t, glucose.IsAbnormal)

		pressure, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{
			Type:      "bloodPressure",
			Systolic:  floatPtr(140.004),
			Diastolic: floatPtr(59.996),
		})
		require.NoError(t, err)
		assert.Equal(t, 140.0, pressure.Value)
		require.NotNil(t, pressure.Diastolic)
		assert.Equal(t, 60.0, *pressure.Diastolic)
		assert.False(t, pressure.IsAbnormal)

		above, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{Type: "glucose", Value: floatPtr(180.006)})
		require.NoError(t, err)
		assert.Equal(t, 180.01, above.Value)
		assert.True(t, above.IsAbnormal)

		require.Len(t, f.metrics.metrics, 3)
		for _, reading := range f.metrics.metrics {
			assert.True(t, reading.Value.Equal(reading.Value.Round(entity.MetricValueScale)), "value %s", reading.Value)
		}
	})

	t.Run("blood pressure value defaults to systolic", func(t *testing.T) {
		f := newMetricFixture()

		reading, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{
			Type:      "bloodPressure",
			Systolic:  floatPtr(150),
			Diastolic: floatPtr(85),
		})
		require.NoError(t, err)

		assert.Equal(t, 150.0, reading.Value)
		assert.Equal(t, "mmHg", reading.Unit)
		require.NotNil(t, reading.Diastolic)
		assert.Equal(t, 85.0, *reading.Diastolic)
		assert.True(t, reading.IsAbnormal)
	})

	t.Run("blood pressure without diastolic is rejected", func(t *testing.T) {
		f := newMetricFixture()

		_, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{
			Type:     "bloodPressure",
			Value:    floatPtr(120),
			Systolic: floatPtr(120),
		})
		assert.ErrorIs(t, err, ErrMissingBloodPressure)
		assert.Empty(t, f.metrics.metrics)
	})

	t.Run("unknown type needs a unit and is never abnormal", func(t *testing.T) {
		f := newMetricFixture()

		_, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{Type: "weight", Value: floatPtr(80)})
		assert.ErrorIs(t, err, ErrMissingMetricUnit)

		reading, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{Type: "weight", Value: floatPtr(500), Unit: "kg"})
		require.NoError(t, err)
		assert.False(t, reading.IsAbnormal)
		assert.Equal(t, "kg", reading.Unit)
	})

	t.Run("missing value", func(t *testing.T) {
		f := newMetricFixture()

		_, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{Type: "heartRate"})
		assert.ErrorIs(t, err, ErrMissingMetricValue)
	})

	t.Run("no identity", func(t *testing.T) {
		f := newMetricFixture()

		_, err := f.usecase.Record(ctx, nil, &dto.RecordHealthMetricRequest{Type: "heartRate", Value: floatPtr(70)})
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.Empty(t, f.metrics.metrics)
	})
}

func TestHealthMetricUsecase_ReadAccess(t *testing.T) {
	ctx := context.Background()
	f := newMetricFixture()
	other := f.users.seed(entity.User{TokenIdentifier: "other", UserType: entity.UserTypePatient})
	doctor := f.users.seed(entity.User{TokenIdentifier: "doctor", UserType: entity.UserTypeProfessional})
	stranger := f.users.seed(entity.User{TokenIdentifier: "stranger", UserType: entity.UserTypeProfessional})

	_, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{Type: "heartRate", Value: floatPtr(120)})
	require.NoError(t, err)

	require.NoError(t, f.appointments.Create(nil, &entity.Appointment{
		ID:             uuid.New(),
		PatientID:      f.patient.ID,
		ProfessionalID: doctor.ID,
		Date:           "2026-03-10",
		Time:           "10:00",
		Status:         entity.AppointmentStatusScheduled,
	}))

	own, err := f.usecase.ListByUser(ctx, patientIdentity, f.patient.ID)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	viaAppointment, err := f.usecase.ListAbnormal(ctx, &entity.Identity{Subject: doctor.TokenIdentifier}, f.patient.ID)
	require.NoError(t, err)
	assert.Len(t, viaAppointment, 1)

	_, err = f.usecase.ListByUser(ctx, &entity.Identity{Subject: stranger.TokenIdentifier}, f.patient.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.usecase.ListByUser(ctx, &entity.Identity{Subject: other.TokenIdentifier}, f.patient.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.usecase.ListAbnormal(ctx, nil, f.patient.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestHealthMetricUsecase_ListRecentByType(t *testing.T) {
	ctx := context.Background()
	f := newMetricFixture()

	for i := 0; i < 15; i++ {
		_, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{Type: "heartRate", Value: floatPtr(float64(60 + i))})
		require.NoError(t, err)
	}
	_, err := f.usecase.Record(ctx, patientIdentity, &dto.RecordHealthMetricRequest{Type: "glucose", Value: floatPtr(100)})
	require.NoError(t, err)

	defaulted, err := f.usecase.ListRecentByType(ctx, patientIdentity, f.patient.ID, &dto.RecentHealthMetricsQuery{Type: "heartRate"})
	require.NoError(t, err)
	require.Len(t, defaulted, DefaultRecentMetricsLimit)
	assert.Equal(t, 74.0, defaulted[0].Value)
	assert.True(t, defaulted[0].Timestamp.After(defaulted[1].Timestamp))

	limited, err := f.usecase.ListRecentByType(ctx, patientIdentity, f.patient.ID, &dto.RecentHealthMetricsQuery{Type: "heartRate", Limit: 3})
	require.NoError(t, err)
	assert.Len(t, limited, 3)

	clamped, err := f.usecase.ListRecentByType(ctx, patientIdentity, f.patient.ID, &dto.RecentHealthMetricsQuery{Type: "heartRate", Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, clamped, 15)

	glucose, err := f.usecase.ListRecentByType(ctx, patientIdentity, f.patient.ID, &dto.RecentHealthMetricsQuery{Type: "glucose", Limit: 5})
	require.NoError(t, err)
	assert.Len(t, glucose, 1)
}
