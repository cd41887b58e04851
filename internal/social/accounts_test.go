package social

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIsCollegeEmail(t *testing.T) {
	tcases := []struct {
		email string
		want  bool
	}{
		{"ada@mit.edu", true},
		{"ada@MIT.EDU", true},
		{"bob@stcollege.ac.uk", true},
		{"cyd@university-of-x.org", true},
		{"dee@gmail.com", false},
		{"eve@edu.com", false},
	}

	for _, tc := range tcases {
		t.Run(tc.email, func(t *testing.T) {
			assert.Equal(t, tc.want, IsCollegeEmail(tc.email))
		})
	}
}

func TestRegister(t *testing.T) {
	valid := Registration{Name: "Ada", Email: "Ada@MIT.edu", Password: "correct-horse", Year: "2", Branch: "CS"}

	t.Run("creates unverified user and sends token", func(t *testing.T) {
		env := newTestEnv(t)
		var token string
		env.notifier.On("SendVerification", "ada@mit.edu", mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { token = args.String(1) }).
			Return(nil).Once()

		u, err := env.svc.Register(context.Background(), valid)
		require.NoError(t, err)
		assert.Equal(t, "ada@mit.edu", u.Email)
		assert.False(t, u.IsVerified)
		assert.NotEqual(t, valid.Password, u.PasswordHash)
		assert.Len(t, token, 64)
		assert.Equal(t, token, u.VerificationToken)
		env.notifier.AssertExpectations(t)
	})

	t.Run("mail failure does not fail registration", func(t *testing.T) {
		env := newTestEnv(t)
		env.notifier.On("SendVerification", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

		_, err := env.svc.Register(context.Background(), valid)
		assert.NoError(t, err)
	})

	tcases := []struct {
		name    string
		mutate  func(r *Registration)
		wantErr error
	}{
		{"non college email", func(r *Registration) { r.Email = "ada@gmail.com" }, ErrValidation},
		{"malformed email", func(r *Registration) { r.Email = "not-an-edu" }, ErrValidation},
		{"short password", func(r *Registration) { r.Password = "short" }, ErrValidation},
		{"missing branch", func(r *Registration) { r.Branch = "" }, ErrValidation},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			in := valid
			tc.mutate(&in)

			_, err := env.svc.Register(context.Background(), in)
			assert.ErrorIs(t, err, tc.wantErr)
			env.notifier.AssertNotCalled(t, "SendVerification", mock.Anything, mock.Anything)
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		env := newTestEnv(t)
		env.allowNotifications()

		_, err := env.svc.Register(context.Background(), valid)
		require.NoError(t, err)

		_, err = env.svc.Register(context.Background(), valid)
		assert.ErrorIs(t, err, ErrDuplicateAction)
	})
}

func TestVerifyAndLogin(t *testing.T) {
	env := newTestEnv(t)
	env.allowNotifications()
	ctx := context.Background()

	u, err := env.svc.Register(ctx, Registration{Name: "Ada", Email: "ada@mit.edu", Password: "correct-horse", Year: "2", Branch: "CS"})
	require.NoError(t, err)

	_, err = env.svc.Login(ctx, "ada@mit.edu", "correct-horse")
	assert.ErrorIs(t, err, ErrUnverified)

	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, "bogus"), ErrValidation)
	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, ""), ErrValidation)
	require.NoError(t, env.svc.VerifyEmail(ctx, u.VerificationToken))
	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, u.VerificationToken), ErrValidation, "tokens are single use")

	_, err = env.svc.Login(ctx, "ada@mit.edu", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.svc.Login(ctx, "nobody@mit.edu", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	logged, err := env.svc.Login(ctx, " ADA@mit.edu", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, u.Id, logged.Id)
	assert.True(t, logged.IsVerified)
}
