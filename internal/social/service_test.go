package social

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/npezzotti/campus-connect/internal/database"
	"github.com/npezzotti/campus-connect/internal/notify"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	svc      *Service
	repo     *database.MemoryCampusRepository
	notifier *notify.MockNotifier
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithLogger(t, zaptest.NewLogger(t))
}

func newTestEnvWithLogger(t *testing.T, logger *zap.Logger) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:     database.NewMemoryCampusRepository(),
		notifier: new(notify.MockNotifier),
		now:      time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }
	env.repo.SetClock(clock)

	env.svc = NewService(env.repo, env.notifier, logger)
	env.svc.SetClock(clock)
	env.svc.hashCost = bcrypt.MinCost

	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

// addUser stores a verified user directly and advances the clock so
// creation times are distinct.
func (e *testEnv) addUser(t *testing.T, name string) database.User {
	t.Helper()
	e.advance(time.Second)
	u, err := e.repo.CreateUser(context.Background(), database.CreateUserParams{
		Name:         name,
		Email:        fmt.Sprintf("%s@state.edu", name),
		PasswordHash: "x",
		Year:         "2",
		Branch:       "CS",
	})
	require.NoError(t, err)
	require.NoError(t, e.repo.MarkUserVerified(context.Background(), u.Id))
	return u
}

func (e *testEnv) user(t *testing.T, id int) database.User {
	t.Helper()
	u, err := e.repo.GetUserById(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (e *testEnv) allowNotifications() {
	e.notifier.On("SendAdmire", mock.Anything).Return(nil)
	e.notifier.On("SendMutualAdmire", mock.Anything, mock.Anything).Return(nil)
	e.notifier.On("SendVerification", mock.Anything, mock.Anything).Return(nil)
}
