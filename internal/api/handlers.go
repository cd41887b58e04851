package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"github.com/npezzotti/campus-connect/internal/server"
	"github.com/npezzotti/campus-connect/internal/social"
	"github.com/npezzotti/campus-connect/internal/types"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Year     string `json:"year"`
	Branch   string `json:"branch"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (s *CampusApp) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.log.Error("health check failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *CampusApp) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !s.decodeJson(w, r, &req) {
		return
	}

	user, err := s.svc.Register(r.Context(), social.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Year:     req.Year,
		Branch:   req.Branch,
	})
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusCreated, struct {
		MessageResponse
		User types.User `json:"user"`
	}{
		MessageResponse: MessageResponse{Message: "registered, check your email to verify your account"},
		User:            toUser(user, true),
	})
}

func (s *CampusApp) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if !s.decodeJson(w, r, &req) {
		return
	}

	if err := s.svc.VerifyEmail(r.Context(), req.Token); err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, MessageResponse{Message: "email verified"})
}

func (s *CampusApp) login(w http.ResponseWriter, r *http.Request) {
	var lr LoginRequest
	if !s.decodeJson(w, r, &lr) {
		return
	}

	if lr.Email == "" || lr.Password == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.svc.Login(r.Context(), lr.Email, lr.Password)
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	token, err := s.createJwtForSession(user.Id, s.tokenTTL)
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	http.SetCookie(w, createJwtCookie(token, s.tokenTTL))

	s.writeJson(w, http.StatusOK, LoginResponse{Token: token, User: toUser(user, true)})
}

func (s *CampusApp) session(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.svc.GetProfile(r.Context(), userId)
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, toUser(user, true))
}

func (s *CampusApp) logout(w http.ResponseWriter, _ *http.Request) {
	// instruct browser to delete cookie by overwriting it with an expired token
	http.SetCookie(w, createJwtCookie("", -time.Hour))
	w.WriteHeader(http.StatusNoContent)
}

func (s *CampusApp) serveWs(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.svc.GetProfile(r.Context(), userId)
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			return slices.Contains(s.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("error upgrading connection", zap.Error(err))
		return
	}

	client := server.NewClient(types.UserRef{Id: user.Id, Name: user.Name}, conn, s.cs, s.log)
	if !s.cs.RegisterClient(client) {
		conn.Close()
		return
	}

	go client.Write()
	go client.Read()
}
