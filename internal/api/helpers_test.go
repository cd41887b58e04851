package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/npezzotti/campus-connect/internal/config"
	"github.com/npezzotti/campus-connect/internal/database"
	"github.com/npezzotti/campus-connect/internal/notify"
	"github.com/npezzotti/campus-connect/internal/server"
	"github.com/npezzotti/campus-connect/internal/social"
	"github.com/npezzotti/campus-connect/internal/stats"
	"github.com/npezzotti/campus-connect/internal/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct horse battery"

type testApp struct {
	*CampusApp
	repo     *database.MemoryCampusRepository
	notifier *notify.MockNotifier
	stats    *stats.MockStatsUpdater
}

func testConfig() *config.Config {
	return &config.Config{
		ServerAddr:     "localhost:8080",
		DatabaseDriver: config.DriverMemory,
		SigningKey:     []byte("test-signing-key"),
		TokenTTL:       time.Hour,
		AllowedOrigins: []string{"http://localhost:3000"},
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}
}

func newTestApp(t *testing.T) *testApp {
	return newTestAppWithConfig(t, testutil.TestLogger(t), testConfig())
}

func newTestAppWithConfig(t *testing.T, logger *zap.Logger, cfg *config.Config) *testApp {
	t.Helper()

	repo := database.NewMemoryCampusRepository()
	notifier := new(notify.MockNotifier)
	sp := new(stats.MockStatsUpdater)
	sp.On("RegisterMetric", mock.Anything).Maybe()
	sp.On("Incr", mock.Anything).Maybe()
	sp.On("Decr", mock.Anything).Maybe()

	svc := social.NewService(repo, notifier, logger)
	cs := server.NewChatServer(logger, sp)

	return &testApp{
		CampusApp: NewCampusApp(http.NewServeMux(), logger, cs, svc, repo, cfg),
		repo:      repo,
		notifier:  notifier,
		stats:     sp,
	}
}

// addUser stores a user whose password is testPassword.
func (a *testApp) addUser(t *testing.T, name string, verified bool) database.User {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	u, err := a.repo.CreateUser(ctx, database.CreateUserParams{
		Name:              name,
		Email:             name + "@state.edu",
		PasswordHash:      string(hash),
		Year:              "3",
		Branch:            "CS",
		VerificationToken: "token-" + name,
	})
	require.NoError(t, err)

	if verified {
		require.NoError(t, a.repo.MarkUserVerified(ctx, u.Id))
		u.IsVerified = true
	}
	return u
}

func (a *testApp) token(t *testing.T, userId int) string {
	t.Helper()
	token, err := a.createJwtForSession(userId, time.Hour)
	require.NoError(t, err)
	return token
}

// do sends a request through the full middleware chain. A zero userId sends
// it unauthenticated.
func (a *testApp) do(t *testing.T, method, path string, userId int, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userId != 0 {
		req.Header.Set("Authorization", "Bearer "+a.token(t, userId))
	}

	rr := httptest.NewRecorder()
	a.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), "body: %s", rr.Body.String())
	return v
}
