package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/npezzotti/campus-connect/internal/config"
	"github.com/npezzotti/campus-connect/internal/database"
	"github.com/npezzotti/campus-connect/internal/server"
	"github.com/npezzotti/campus-connect/internal/social"
	"go.uber.org/zap"
)

const defaultJwtExpiration = 7 * 24 * time.Hour

type CampusApp struct {
	log            *zap.Logger
	db             database.CampusRepository
	svc            *social.Service
	srv            *http.Server
	cs             *server.ChatServer
	limiter        *ipRateLimiter
	signingKey     []byte
	tokenTTL       time.Duration
	allowedOrigins []string
}

func NewCampusApp(mux *http.ServeMux, logger *zap.Logger, cs *server.ChatServer, svc *social.Service, db database.CampusRepository, cfg *config.Config) *CampusApp {
	s := &CampusApp{
		log:            logger,
		db:             db,
		svc:            svc,
		cs:             cs,
		signingKey:     cfg.SigningKey,
		tokenTTL:       cfg.TokenTTL,
		allowedOrigins: cfg.AllowedOrigins,
	}
	if s.tokenTTL <= 0 {
		s.tokenTTL = defaultJwtExpiration
	}

	rps, burst := cfg.RateLimitRPS, cfg.RateLimitBurst
	if rps <= 0 || burst <= 0 {
		rps, burst = 5, 10
	}
	s.limiter = newIPRateLimiter(rps, burst)

	mux.HandleFunc("GET /healthz", s.healthCheck)

	mux.HandleFunc("POST /api/auth/register", s.rateLimit(s.register))
	mux.HandleFunc("POST /api/auth/verify-email", s.rateLimit(s.verifyEmail))
	mux.HandleFunc("POST /api/auth/login", s.rateLimit(s.login))
	mux.HandleFunc("GET /api/auth/session", s.authMiddleware(s.session))
	mux.HandleFunc("GET /api/auth/logout", s.authMiddleware(s.logout))

	mux.HandleFunc("GET /api/users/profile/{id}", s.verified(s.getProfile))
	mux.HandleFunc("PUT /api/users/profile", s.verified(s.updateProfile))
	mux.HandleFunc("GET /api/users/search", s.verified(s.searchUsers))
	mux.HandleFunc("GET /api/users/trending", s.verified(s.trendingUsers))
	mux.HandleFunc("POST /api/users/{userId}/cool", s.verified(s.voteCool))
	mux.HandleFunc("POST /api/users/{userId}/admire", s.verified(s.admire))

	mux.HandleFunc("POST /api/rooms", s.verified(s.createRoom))
	mux.HandleFunc("GET /api/rooms", s.verified(s.listRooms))
	mux.HandleFunc("GET /api/rooms/trending", s.verified(s.trendingRooms))
	mux.HandleFunc("POST /api/rooms/{roomId}/join", s.verified(s.joinRoom))
	mux.HandleFunc("POST /api/rooms/{roomId}/leave", s.verified(s.leaveRoom))
	mux.HandleFunc("GET /api/rooms/{roomId}/messages", s.verified(s.getMessages))
	mux.HandleFunc("POST /api/rooms/{roomId}/messages", s.verified(s.postMessage))

	mux.HandleFunc("POST /api/reports", s.verified(s.createReport))
	mux.HandleFunc("GET /api/reports", s.verified(s.listReports))
	mux.HandleFunc("PUT /api/reports/{reportId}/status", s.verified(s.updateReportStatus))

	mux.HandleFunc("GET /ws", s.authMiddleware(s.serveWs))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", "Authorization"}),
		handlers.ExposedHeaders([]string{requestIdHeader}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)
	h = s.accessLog(h)
	h = s.requestId(h)

	s.srv = &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *CampusApp) Start() error {
	s.log.Info("starting server", zap.String("addr", s.srv.Addr))
	go s.limiter.cleanup(time.Minute)
	return s.srv.ListenAndServe()
}

func (s *CampusApp) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	s.limiter.Stop()
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

func (s *CampusApp) writeJson(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("json encode", zap.Error(err))
	}
}

func (s *CampusApp) writeError(w http.ResponseWriter, errResp *ApiError) {
	if errResp.StatusCode >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(errResp))
	}
	s.writeJson(w, errResp.StatusCode, errResp)
}

func (s *CampusApp) decodeJson(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return false
	}
	return true
}
