package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/npezzotti/campus-connect/internal/database"
	"github.com/npezzotti/campus-connect/internal/social"
	"github.com/npezzotti/campus-connect/internal/types"
)

type UpdateProfileRequest struct {
	Bio         string            `json:"bio"`
	Interests   []string          `json:"interests"`
	SocialLinks types.SocialLinks `json:"social_links"`
}

type AdmireResponse struct {
	Mutual  bool   `json:"mutual"`
	Message string `json:"message"`
}

// pathInt reads an integer path parameter, writing a 400 when it is not one.
func (s *CampusApp) pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return 0, false
	}
	return v, true
}

// queryInt reads an optional integer query parameter.
func (s *CampusApp) queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return 0, false
	}
	return v, true
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func (s *CampusApp) getProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathInt(w, r, "id")
	if !ok {
		return
	}

	user, err := s.svc.GetProfile(r.Context(), id)
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	self, _ := UserId(r.Context())
	s.writeJson(w, http.StatusOK, toUser(user, self == user.Id))
}

func (s *CampusApp) updateProfile(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	var req UpdateProfileRequest
	if !s.decodeJson(w, r, &req) {
		return
	}

	user, err := s.svc.UpdateProfile(r.Context(), userId, social.ProfileUpdate{
		Bio:       req.Bio,
		Interests: req.Interests,
		SocialLinks: database.SocialLinks{
			LinkedIn:  req.SocialLinks.LinkedIn,
			GitHub:    req.SocialLinks.GitHub,
			Instagram: req.SocialLinks.Instagram,
		},
	})
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, toUser(user, true))
}

func (s *CampusApp) searchUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := s.svc.SearchUsers(r.Context(), q.Get("query"), splitList(q.Get("interests")))
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, mapSlice(users, toUserSummary))
}

func (s *CampusApp) trendingUsers(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.queryInt(w, r, "limit")
	if !ok {
		return
	}

	users, err := s.svc.TrendingUsers(r.Context(), limit)
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, mapSlice(users, toUserSummary))
}

func (s *CampusApp) voteCool(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())
	targetId, ok := s.pathInt(w, r, "userId")
	if !ok {
		return
	}

	if err := s.svc.VoteCool(r.Context(), userId, targetId); err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, MessageResponse{Message: "vote recorded"})
}

func (s *CampusApp) admire(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())
	targetId, ok := s.pathInt(w, r, "userId")
	if !ok {
		return
	}

	res, err := s.svc.Admire(r.Context(), userId, targetId)
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	resp := AdmireResponse{Mutual: res.Mutual, Message: "admiration sent"}
	if res.Mutual {
		resp.Message = "it's a match"
	}
	s.writeJson(w, http.StatusOK, resp)
}
