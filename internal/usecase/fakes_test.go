package usecase

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"patient-monitoring-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fixedClock returns a clock that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

type fakeTransactor struct {
	transactions int
}

func (t *fakeTransactor) DB(ctx context.Context) *gorm.DB {
	return nil
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	t.transactions++
	return fn(nil)
}

type auditEntry struct {
	action   string
	entityID string
}

type fakeAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (s *fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) {
	s.record(action, entityID)
}

func (s *fakeAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) {
	s.record(action, entityID)
}

func (s *fakeAuditService) record(action, entityID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, auditEntry{action: action, entityID: entityID})
}

func (s *fakeAuditService) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		actions = append(actions, e.action)
	}
	return actions
}

// memUserRepo is an in-memory UserRepository. beforeCreate runs ahead of
// every insert so tests can simulate a concurrent writer.
type memUserRepo struct {
	mu           sync.Mutex
	users        map[uuid.UUID]entity.User
	writes       int
	beforeCreate func()
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]entity.User{}}
}

func (r *memUserRepo) seed(user entity.User) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return &user
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *memUserRepo) Create(db *gorm.DB, user *entity.User) error {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.TokenIdentifier == user.TokenIdentifier {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_token_identifier"}
		}
	}
	r.writes++
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := []entity.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	// Arbitrary order, like an IN query.
	slices.Reverse(users)
	return users, nil
}

func (r *memUserRepo) FindByTokenIdentifier(db *gorm.DB, tokenIdentifier string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.TokenIdentifier == tokenIdentifier {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByUserType(db *gorm.DB, userType entity.UserType) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := []entity.User{}
	for _, u := range r.users {
		if u.UserType == userType {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *memUserRepo) UpdateIdentityFields(db *gorm.DB, id uuid.UUID, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	u.Name = name
	u.Email = email
	r.users[id] = u
	r.writes++
	return nil
}

func (r *memUserRepo) UpdateProfile(db *gorm.DB, id uuid.UUID, patch entity.UserProfilePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	patch.Apply(&u)
	r.users[id] = u
	r.writes++
	return nil
}

type memMetricRepo struct {
	mu      sync.Mutex
	metrics []entity.HealthMetric
}

func (r *memMetricRepo) Create(db *gorm.DB, metric *entity.HealthMetric) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = append(r.metrics, *metric)
	return nil
}

func (r *memMetricRepo) filter(keep func(m entity.HealthMetric) bool) []entity.HealthMetric {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.HealthMetric{}
	for _, m := range r.metrics {
		if keep(m) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b entity.HealthMetric) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

func (r *memMetricRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.HealthMetric, error) {
	return r.filter(func(m entity.HealthMetric) bool { return m.UserID == userID }), nil
}

func (r *memMetricRepo) FindRecentByType(db *gorm.DB, userID uuid.UUID, metricType entity.MetricType, limit int) ([]entity.HealthMetric, error) {
	out := r.filter(func(m entity.HealthMetric) bool { return m.UserID == userID && m.Type == metricType })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMetricRepo) FindAbnormalByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.HealthMetric, error) {
	return r.filter(func(m entity.HealthMetric) bool { return m.UserID == userID && m.IsAbnormal }), nil
}

type memAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]entity.Appointment
	writes       int

	// beforeStatusUpdate runs ahead of the conditional status write.
	beforeStatusUpdate func()
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{appointments: map[uuid.UUID]entity.Appointment{}}
}

func (r *memAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments[appointment.ID] = *appointment
	r.writes++
	return nil
}

func (r *memAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.appointments[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (r *memAppointmentRepo) filter(keep func(a entity.Appointment) bool) []entity.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Appointment{}
	for _, a := range r.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b entity.Appointment) int {
		if c := compareStrings(a.Date, b.Date); c != 0 {
			return c
		}
		return compareStrings(a.Time, b.Time)
	})
	return out
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r *memAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *memAppointmentRepo) FindByProfessionalID(db *gorm.DB, professionalID uuid.UUID) ([]entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool { return a.ProfessionalID == professionalID }), nil
}

func (r *memAppointmentRepo) ExistsBetween(db *gorm.DB, patientID, professionalID uuid.UUID) (bool, error) {
	found := r.filter(func(a entity.Appointment) bool {
		return a.PatientID == patientID && a.ProfessionalID == professionalID
	})
	return len(found) > 0, nil
}

func (r *memAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (bool, error) {
	if r.beforeStatusUpdate != nil {
		r.beforeStatusUpdate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	r.appointments[id] = a
	r.writes++
	return true, nil
}

func (r *memAppointmentRepo) setStatus(id uuid.UUID, status entity.AppointmentStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.appointments[id]
	a.Status = status
	r.appointments[id] = a
}

func (r *memAppointmentRepo) MarkReminderSent(db *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.appointments[id]
	a.ReminderSent = true
	r.appointments[id] = a
	r.writes++
	return nil
}

type memMessageRepo struct {
	mu       sync.Mutex
	messages []entity.Message
}

func (r *memMessageRepo) Create(db *gorm.DB, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *memMessageRepo) filter(keep func(m entity.Message) bool, newestFirst bool) []entity.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Message{}
	for _, m := range r.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b entity.Message) int {
		if newestFirst {
			return b.Timestamp.Compare(a.Timestamp)
		}
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out
}

func (r *memMessageRepo) FindBetween(db *gorm.DB, senderID, receiverID uuid.UUID) ([]entity.Message, error) {
	return r.filter(func(m entity.Message) bool {
		return m.SenderID == senderID && m.ReceiverID == receiverID
	}, false), nil
}

func (r *memMessageRepo) FindBySenderID(db *gorm.DB, senderID uuid.UUID) ([]entity.Message, error) {
	return r.filter(func(m entity.Message) bool { return m.SenderID == senderID }, true), nil
}

func (r *memMessageRepo) FindByReceiverID(db *gorm.DB, receiverID uuid.UUID) ([]entity.Message, error) {
	return r.filter(func(m entity.Message) bool { return m.ReceiverID == receiverID }, true), nil
}

func (r *memMessageRepo) MarkRead(db *gorm.DB, senderID, receiverID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for i := range r.messages {
		m := &r.messages[i]
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
			count++
		}
	}
	return count, nil
}

type memCredentialRepo struct {
	mu          sync.Mutex
	credentials []entity.Credential
}

func (r *memCredentialRepo) Create(db *gorm.DB, credential *entity.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.credentials {
		if c.Email == credential.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_credentials_email"}
		}
	}
	r.credentials = append(r.credentials, *credential)
	return nil
}

func (r *memCredentialRepo) find(match func(c entity.Credential) bool) *entity.Credential {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.credentials {
		if match(c) {
			return &c
		}
	}
	return nil
}

func (r *memCredentialRepo) FindByEmail(db *gorm.DB, email string) (*entity.Credential, error) {
	return r.find(func(c entity.Credential) bool { return c.Email == email }), nil
}

func (r *memCredentialRepo) FindBySubject(db *gorm.DB, subject string) (*entity.Credential, error) {
	return r.find(func(c entity.Credential) bool { return c.Subject == subject }), nil
}

type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: map[string]bool{}}
}

func (s *memTokenStore) StorePair(ctx context.Context, subject, accessTokenID, refreshTokenID string, accessTTL, refreshTTL time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens["access:"+subject+":"+accessTokenID] = true
	s.tokens["refresh:"+subject+":"+refreshTokenID] = true
	return nil
}

func (s *memTokenStore) IsAccessTokenActive(ctx context.Context, subject, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens["access:"+subject+":"+tokenID], nil
}

func (s *memTokenStore) ConsumeRefreshToken(ctx context.Context, subject, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := "refresh:" + subject + ":" + tokenID
	active := s.tokens[key]
	delete(s.tokens, key)
	return active, nil
}

func (s *memTokenStore) Revoke(ctx context.Context, subject, accessTokenID, refreshTokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, "access:"+subject+":"+accessTokenID)
	delete(s.tokens, "refresh:"+subject+":"+refreshTokenID)
	return nil
}

type memAttachmentStorage struct {
	objects map[string][]byte
}

func (s *memAttachmentStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = data
	return "http://storage.test/attachments/" + key, nil
}
