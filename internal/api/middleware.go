package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/npezzotti/campus-connect/internal/social"
	"go.uber.org/zap"
)

const requestIdHeader = "X-Request-Id"

func (s *CampusApp) errorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				var panicError error
				switch e := err.(type) {
				case error:
					panicError = e
				default:
					panicError = fmt.Errorf("%v", e)
				}
				s.log.Error("panic", zap.Error(panicError), zap.String("request_id", RequestId(r.Context())))
				errResp := NewInternalServerError(panicError)
				w.Header().Set("Connection", "close")
				s.writeJson(w, errResp.StatusCode, errResp)
				return
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requestId tags every request with a short random id, echoed back in the
// X-Request-Id header.
func (s *CampusApp) requestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := gonanoid.New(12)
		if err != nil {
			s.log.Warn("generate request id", zap.Error(err))
		}

		w.Header().Set(requestIdHeader, id)
		ctx := context.WithValue(r.Context(), requestIdKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *CampusApp) accessLog(next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p handlers.LogFormatterParams) {
		s.log.Info("request",
			zap.String("request_id", RequestId(p.Request.Context())),
			zap.String("method", p.Request.Method),
			zap.String("path", p.URL.Path),
			zap.Int("status", p.StatusCode),
			zap.Int("size", p.Size),
			zap.Duration("duration", time.Since(p.TimeStamp)),
		)
	})
}

func (s *CampusApp) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := tokenFromRequest(r)
		if !ok {
			errResp := NewUnauthorizedError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		userId, err := s.extractUserIdFromToken(tokenString)
		if err != nil {
			s.log.Info("failed to extract user id from token", zap.Error(err))
			errResp := NewUnauthorizedError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		ctx := WithUserId(r.Context(), userId)
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")

		next(w, r.WithContext(ctx))
	}
}

// requireVerified rejects accounts that have not confirmed their email.
// It must run after authMiddleware.
func (s *CampusApp) requireVerified(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, ok := UserId(r.Context())
		if !ok {
			errResp := NewUnauthorizedError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		user, err := s.svc.GetProfile(r.Context(), userId)
		if err != nil {
			errResp := errorFromService(err)
			if errors.Is(err, social.ErrNotFound) {
				errResp = NewUnauthorizedError()
			}
			s.writeError(w, errResp)
			return
		}

		if !user.IsVerified {
			s.writeError(w, errorFromService(social.ErrUnverified))
			return
		}

		next(w, r)
	}
}

func (s *CampusApp) verified(next http.HandlerFunc) http.HandlerFunc {
	return s.authMiddleware(s.requireVerified(next))
}
