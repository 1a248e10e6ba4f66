package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"patient-monitoring-service/internal/domain/entity"
	"patient-monitoring-service/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var errBeginRefused = errors.New("begin refused")

type requestKey struct{}

// recordingPool is a connection pool that remembers the context a
// transaction was started with and refuses to start it.
type recordingPool struct {
	beginCtx context.Context
}

func (p *recordingPool) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	p.beginCtx = ctx
	return nil, errBeginRefused
}

func (p *recordingPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, errBeginRefused
}

func (p *recordingPool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, errBeginRefused
}

func (p *recordingPool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errBeginRefused
}

func (p *recordingPool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

type stubAuditLogRepo struct {
	created []*entity.AuditLog
}

func (r *stubAuditLogRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	r.created = append(r.created, log)
	return nil
}

func TestAuditService_UsesCallerContext(t *testing.T) {
	pool := &recordingPool{}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: pool}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)
	collector := metrics.NewCollector("test", prometheus.NewRegistry())
	repo := &stubAuditLogRepo{}
	audit := NewAuditService(log, repo, collector)

	ctx := context.WithValue(context.Background(), requestKey{}, "req-1")
	userID := uuid.New()

	audit.LogCreate(ctx, db, &userID, entity.AuditActionUserCreate, "user", userID.String(), nil)
	require.NotNil(t, pool.beginCtx)
	assert.Equal(t, "req-1", pool.beginCtx.Value(requestKey{}))

	pool.beginCtx = nil
	audit.LogUpdate(ctx, db, &userID, entity.AuditActionProfileUpdate, "user", userID.String(), nil, nil)
	require.NotNil(t, pool.beginCtx)
	assert.Equal(t, "req-1", pool.beginCtx.Value(requestKey{}))

	// Failures are counted, never surfaced.
	assert.Empty(t, repo.created)
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.AuditFailures))
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.AuditEntriesTotal))
}
