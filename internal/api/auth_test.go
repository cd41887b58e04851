package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserId(t *testing.T) {
	tcases := []struct {
		name     string
		ctx      context.Context
		userId   int
		expected bool
	}{
		{
			name:     "no user ID",
			ctx:      context.Background(),
			expected: false,
		},
		{
			name:     "user ID set",
			ctx:      WithUserId(context.Background(), 42),
			userId:   42,
			expected: true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			userId, ok := UserId(tc.ctx)
			assert.Equal(t, tc.expected, ok, "expected UserId to return %v", tc.expected)
			assert.Equal(t, tc.userId, userId, "expected UserId to return %d", tc.userId)
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	tcases := []struct {
		name   string
		header string
		cookie string
		want   string
		wantOk bool
	}{
		{name: "bearer header", header: "Bearer abc", want: "abc", wantOk: true},
		{name: "cookie", cookie: "def", want: "def", wantOk: true},
		{name: "header wins over cookie", header: "Bearer abc", cookie: "def", want: "abc", wantOk: true},
		{name: "empty bearer", header: "Bearer ", wantOk: false},
		{name: "other scheme falls back to cookie", header: "Basic xyz", cookie: "def", want: "def", wantOk: true},
		{name: "nothing", wantOk: false},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: tokenCookieKey, Value: tc.cookie})
			}

			got, ok := tokenFromRequest(req)
			assert.Equal(t, tc.wantOk, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractUserIdFromToken(t *testing.T) {
	app := newTestApp(t)

	t.Run("round trip", func(t *testing.T) {
		token, err := app.createJwtForSession(7, time.Hour)
		require.NoError(t, err)

		userId, err := app.extractUserIdFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, 7, userId)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := app.createJwtForSession(7, -time.Minute)
		require.NoError(t, err)

		_, err = app.extractUserIdFromToken(token)
		assert.Error(t, err)
	})

	t.Run("signed with another key", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			userIdClaim: 7,
			expClaim:    time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("other-key"))
		require.NoError(t, err)

		_, err = app.extractUserIdFromToken(token)
		assert.Error(t, err)
	})

	t.Run("missing user id claim", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			expClaim: time.Now().Add(time.Hour).Unix(),
		}).SignedString(app.signingKey)
		require.NoError(t, err)

		_, err = app.extractUserIdFromToken(token)
		assert.ErrorContains(t, err, "invalid user id claim")
	})
}
