package api

import (
	"net/http"

	"github.com/npezzotti/campus-connect/internal/database"
	"github.com/npezzotti/campus-connect/internal/social"
	"github.com/npezzotti/campus-connect/internal/types"
)

type CreateRoomRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Interests   []string `json:"interests"`
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

func (s *CampusApp) createRoom(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	var req CreateRoomRequest
	if !s.decodeJson(w, r, &req) {
		return
	}

	room, err := s.svc.CreateRoom(r.Context(), userId, social.NewRoom{
		Title:       req.Title,
		Description: req.Description,
		Interests:   req.Interests,
	})
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusCreated, toRoom(room))
}

func (s *CampusApp) listRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rooms, err := s.svc.ListRooms(r.Context(), social.RoomFilter{
		Interests: splitList(q.Get("interests")),
		Search:    q.Get("search"),
	})
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, mapSlice(rooms, toRoom))
}

func (s *CampusApp) trendingRooms(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.queryInt(w, r, "limit")
	if !ok {
		return
	}

	rooms, err := s.svc.TrendingRooms(r.Context(), limit)
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, mapSlice(rooms, toRoom))
}

func (s *CampusApp) joinRoom(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	room, err := s.svc.JoinRoom(r.Context(), r.PathValue("roomId"), userId)
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, toRoom(room))
}

func (s *CampusApp) leaveRoom(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	room, err := s.svc.LeaveRoom(r.Context(), r.PathValue("roomId"), userId)
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, toRoom(room))
}

func (s *CampusApp) getMessages(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())
	roomId := r.PathValue("roomId")

	messages, err := s.svc.GetRoomMessages(r.Context(), roomId, userId)
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	s.writeJson(w, http.StatusOK, mapSlice(messages, func(m database.Message) types.Message {
		return toMessage(roomId, m)
	}))
}

// postMessage stores the message and then fans it out to the room's live
// subscribers.
func (s *CampusApp) postMessage(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())
	roomId := r.PathValue("roomId")

	var req PostMessageRequest
	if !s.decodeJson(w, r, &req) {
		return
	}

	msg, err := s.svc.PostMessage(r.Context(), roomId, userId, req.Content)
	if err != nil {
		s.writeError(w, errorFromService(err))
		return
	}

	out := toMessage(roomId, msg)
	s.cs.Broadcast(out)

	s.writeJson(w, http.StatusCreated, out)
}
