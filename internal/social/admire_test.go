package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestVoteCool(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.addUser(t, "ada")
	bob := env.addUser(t, "bob")

	t.Run("self vote", func(t *testing.T) {
		err := env.svc.VoteCool(ctx, ada.Id, ada.Id)
		assert.ErrorIs(t, err, ErrSelfReference)
		assert.Empty(t, env.user(t, ada.Id).CoolVotes)
	})

	t.Run("unknown target", func(t *testing.T) {
		err := env.svc.VoteCool(ctx, ada.Id, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("first vote counts", func(t *testing.T) {
		require.NoError(t, env.svc.VoteCool(ctx, ada.Id, bob.Id))
		assert.Equal(t, []int{ada.Id}, env.user(t, bob.Id).CoolVotes)
	})

	t.Run("second vote is a duplicate", func(t *testing.T) {
		err := env.svc.VoteCool(ctx, ada.Id, bob.Id)
		assert.ErrorIs(t, err, ErrDuplicateAction)
		assert.Equal(t, []int{ada.Id}, env.user(t, bob.Id).CoolVotes)
	})
}

func TestAdmire_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.allowNotifications()
	ctx := context.Background()
	ada := env.addUser(t, "ada")
	bob := env.addUser(t, "bob")

	_, err := env.svc.Admire(ctx, ada.Id, ada.Id)
	assert.ErrorIs(t, err, ErrSelfReference)

	_, err = env.svc.Admire(ctx, ada.Id, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Admire(ctx, 999, ada.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	res, err := env.svc.Admire(ctx, ada.Id, bob.Id)
	require.NoError(t, err)
	assert.False(t, res.Mutual)

	_, err = env.svc.Admire(ctx, ada.Id, bob.Id)
	assert.ErrorIs(t, err, ErrDuplicateAction)
	assert.Equal(t, 1, env.user(t, ada.Id).AdmireCountThisWeek)
}

func TestAdmire_OneSided(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.addUser(t, "ada")
	bob := env.addUser(t, "bob")
	env.notifier.On("SendAdmire", bob.Email).Return(nil).Once()

	res, err := env.svc.Admire(ctx, ada.Id, bob.Id)
	require.NoError(t, err)
	assert.False(t, res.Mutual)

	assert.Equal(t, []int{bob.Id}, env.user(t, ada.Id).AdmiredUsers)
	assert.Empty(t, env.user(t, ada.Id).Admirers)
	assert.Equal(t, []int{ada.Id}, env.user(t, bob.Id).Admirers)
	env.notifier.AssertExpectations(t)
}

func TestAdmire_Mutual(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.addUser(t, "ada")
	bob := env.addUser(t, "bob")
	env.notifier.On("SendAdmire", bob.Email).Return(nil).Once()
	env.notifier.On("SendMutualAdmire", ada.Email, "bob").Return(nil).Once()
	env.notifier.On("SendMutualAdmire", bob.Email, "ada").Return(nil).Once()

	res, err := env.svc.Admire(ctx, ada.Id, bob.Id)
	require.NoError(t, err)
	assert.False(t, res.Mutual)

	res, err = env.svc.Admire(ctx, bob.Id, ada.Id)
	require.NoError(t, err)
	assert.True(t, res.Mutual)

	assert.Contains(t, env.user(t, ada.Id).Admirers, bob.Id)
	assert.Contains(t, env.user(t, bob.Id).Admirers, ada.Id)
	assert.NotContains(t, env.user(t, ada.Id).Admirers, ada.Id)
	env.notifier.AssertExpectations(t)
}

func TestAdmire_WeeklyQuota(t *testing.T) {
	env := newTestEnv(t)
	env.allowNotifications()
	ctx := context.Background()
	ada := env.addUser(t, "ada")
	targets := []int{
		env.addUser(t, "bob").Id,
		env.addUser(t, "cyd").Id,
		env.addUser(t, "dee").Id,
		env.addUser(t, "eve").Id,
	}

	for _, id := range targets[:3] {
		env.advance(time.Hour)
		_, err := env.svc.Admire(ctx, ada.Id, id)
		require.NoError(t, err)
	}

	env.advance(24 * time.Hour)
	_, err := env.svc.Admire(ctx, ada.Id, targets[3])
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 3, env.user(t, ada.Id).AdmireCountThisWeek)
	assert.NotContains(t, env.user(t, ada.Id).AdmiredUsers, targets[3])

	env.advance(7 * 24 * time.Hour)
	_, err = env.svc.Admire(ctx, ada.Id, targets[3])
	require.NoError(t, err)

	ada = env.user(t, ada.Id)
	assert.Equal(t, 1, ada.AdmireCountThisWeek)
	assert.Equal(t, env.now, ada.LastAdmireReset)
	assert.Len(t, ada.AdmiredUsers, 4)
}

func TestAdmire_NotificationFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	env := newTestEnvWithLogger(t, zap.New(core))
	ctx := context.Background()
	ada := env.addUser(t, "ada")
	bob := env.addUser(t, "bob")
	env.notifier.On("SendAdmire", bob.Email).Return(errors.New("smtp down")).Once()

	res, err := env.svc.Admire(ctx, ada.Id, bob.Id)
	require.NoError(t, err)
	assert.False(t, res.Mutual)
	assert.Equal(t, []int{ada.Id}, env.user(t, bob.Id).Admirers)

	entries := logs.FilterMessage("notification failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "admire", entries[0].ContextMap()["kind"])
}

func TestMaybeResetWeeklyQuota(t *testing.T) {
	last := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tcases := []struct {
		name        string
		now         time.Time
		counter     int
		wantCounter int
		wantReset   time.Time
	}{
		{"same day", last.Add(time.Hour), 2, 2, last},
		{"just under a week", last.Add(QuotaWindow - time.Second), 3, 3, last},
		{"exactly a week", last.Add(QuotaWindow), 3, 0, last.Add(QuotaWindow)},
		{"long idle", last.Add(90 * 24 * time.Hour), 1, 0, last.Add(90 * 24 * time.Hour)},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			counter, reset := MaybeResetWeeklyQuota(tc.now, last, tc.counter)
			assert.Equal(t, tc.wantCounter, counter)
			assert.Equal(t, tc.wantReset, reset)
		})
	}
}
