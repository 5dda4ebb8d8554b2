package service

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hance08/txgate/internal/auth"
	"github.com/hance08/txgate/internal/capability"
	"github.com/hance08/txgate/internal/config"
	"github.com/hance08/txgate/internal/constants"
	"github.com/hance08/txgate/internal/notify"
	"github.com/hance08/txgate/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	admin = auth.Principal{Name: "Admin", Role: constants.RoleAdmin}
	alice = auth.Principal{Name: "alice", Role: constants.RoleUser}
)

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (d *recordingDispatcher) Dispatch(n notify.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
}

func (d *recordingDispatcher) all() []notify.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notify.Notification(nil), d.sent...)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	svc        *Service
	store      *store.Store
	dispatcher *recordingDispatcher
	clock      *testClock
}

func testConfig() *config.Config {
	cfg := config.NewDefault()
	cfg.Links.Secret = "test-secret"
	cfg.Links.TTL = time.Hour
	cfg.Allocation.MaxAttempts = 10
	cfg.Allocation.BaseDelay = time.Millisecond
	return cfg
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"), os.DirFS(filepath.Join("..", "..")))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cfg := testConfig()
	issuer, err := capability.NewIssuer(cfg.Links.Secret, cfg.Links.TTL)
	require.NoError(t, err)

	env := &testEnv{
		store:      s,
		dispatcher: &recordingDispatcher{},
		clock:      &testClock{now: time.Now()},
	}
	env.svc = NewService(Deps{
		Repo:       s,
		Config:     cfg,
		Logger:     zap.NewNop(),
		Authorizer: auth.NewRoleAuthorizer(cfg.Auth.Roles),
		Issuer:     issuer,
		Dispatcher: env.dispatcher,
		Now:        env.clock.Now,
	})
	return env
}

func validRequest(requester string) SubmitRequest {
	return SubmitRequest{
		Date:        "2024-01-01",
		Time:        "10:00",
		Requester:   requester,
		Amount:      "500",
		AmountWords: "five hundred",
	}
}
