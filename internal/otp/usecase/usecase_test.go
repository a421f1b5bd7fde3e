package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/shared/access"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeAuthorizer struct {
	authorize func(ctx context.Context, req access.Requirement) (*access.Principal, error)
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, req access.Requirement) (*access.Principal, error) {
	return f.authorize(ctx, req)
}

func allowAs(p access.Principal) *fakeAuthorizer {
	return &fakeAuthorizer{authorize: func(_ context.Context, req access.Requirement) (*access.Principal, error) {
		if req == access.RequireAdmin && p.Role != access.RoleAdmin {
			return nil, goerror.NewBusiness("Forbidden", goerror.CodeForbidden)
		}
		return &p, nil
	}}
}

var (
	alice = access.Principal{ID: 7, Username: "alice", Role: access.RoleUser, Email: "alice@example.com"}
	root  = access.Principal{ID: 1, Username: "root", Role: access.RoleAdmin}
)

type fakeSender struct {
	configured bool
	mu         sync.Mutex
	sent       []string
	err        error
	onSend     func()
}

func (f *fakeSender) IsConfigured() bool { return f.configured }

func (f *fakeSender) SendCode(_ context.Context, destination, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	if f.onSend != nil {
		f.onSend()
	}
	f.sent = append(f.sent, destination+"|"+code)
	return nil
}

func (f *fakeSender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// memStore applies the same conditional transitions as the SQL store.
type memStore struct {
	mu      sync.Mutex
	policy  *entity.Policy
	records []entity.Record
	err     error
}

func (m *memStore) GetPolicy(context.Context) (*entity.Policy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if m.policy == nil {
		p := entity.DefaultPolicy
		m.policy = &p
	}
	p := *m.policy
	return &p, nil
}

func (m *memStore) UpsertPolicy(_ context.Context, p entity.Policy) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.policy = &p
	return nil
}

func (m *memStore) CreateRecord(_ context.Context, rec entity.Record, supersede bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if supersede {
		for i, r := range m.records {
			if r.UserID == rec.UserID && r.OperationID == rec.OperationID && r.Status == entity.StatusActive {
				m.records[i].Status = entity.StatusExpired
			}
		}
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memStore) ConsumeRecord(_ context.Context, userID int64, operationID, code string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, r := range m.records {
		if r.UserID == userID && r.OperationID == operationID && r.Code == code &&
			r.Status == entity.StatusActive && r.ExpiresAt.After(now) {
			if idx == -1 || r.CreatedAt.After(m.records[idx].CreatedAt) {
				idx = i
			}
		}
	}
	if idx == -1 {
		return false, nil
	}
	m.records[idx].Status = entity.StatusUsed
	return true, nil
}

func (m *memStore) ExpireLapsed(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for i, r := range m.records {
		if r.Status == entity.StatusActive && r.ExpiresAt.Before(now) {
			m.records[i].Status = entity.StatusExpired
			n++
		}
	}
	return n, nil
}

func (m *memStore) snapshot() []entity.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]entity.Record, len(m.records))
	copy(out, m.records)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type seqID struct{ n atomic.Int64 }

func (s *seqID) Generate() int64 { return s.n.Add(1) }

type testEnv struct {
	uc      *Usecase
	store   *memStore
	clock   *clock.Manual
	redis   *miniredis.Miniredis
	senders map[entity.Channel]*fakeSender
}

func newTestEnv(t *testing.T, auth access.Authorizer, yaml string) *testEnv {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	if yaml == "" {
		yaml = "modules:\n  otp:\n    idempotency_ttl_seconds: 600\n"
	}
	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := &testEnv{
		store: &memStore{},
		clock: clock.NewManual(testNow),
		redis: mr,
		senders: map[entity.Channel]*fakeSender{
			entity.ChannelFile:     {configured: true},
			entity.ChannelEmail:    {configured: true},
			entity.ChannelSMS:      {configured: true},
			entity.ChannelTelegram: {configured: true},
		},
	}

	senders := make(map[entity.Channel]Sender, len(env.senders))
	for ch, s := range env.senders {
		senders[ch] = s
	}

	env.uc = New(Dependency{
		RepoDB:      env.store,
		Authorizer:  auth,
		Senders:     senders,
		Idempotency: idempotency.New(rdb),
		Validator:   v,
		Config:      cfg,
		UID:         &seqID{},
		Clock:       env.clock,
		Instrument:  instrument.NewNoop(),
	})

	return env
}

func statusOf(t *testing.T, err error) (int, string) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T (%v)", err, err)
	}
	return gerr.StatusCode(), gerr.Msg()
}
