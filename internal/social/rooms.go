package social

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/npezzotti/campus-connect/internal/database"
	"github.com/teris-io/shortid"
	"go.uber.org/zap"
)

const MaxMessageLength = 2000

type NewRoom struct {
	Title       string `validate:"required,max=100"`
	Description string `validate:"required,max=500"`
	Interests   []string
}

type RoomFilter struct {
	Interests []string
	Search    string
}

// CreateRoom creates a room owned by creatorId. The creator is its first member.
func (s *Service) CreateRoom(ctx context.Context, creatorId int, in NewRoom) (database.Room, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.check(in); err != nil {
		return database.Room{}, err
	}

	externalId, err := shortid.Generate()
	if err != nil {
		return database.Room{}, fmt.Errorf("generate room id: %w", err)
	}

	room, err := s.db.CreateRoom(ctx, database.CreateRoomParams{
		ExternalId:  externalId,
		Title:       in.Title,
		Description: in.Description,
		Interests:   normalizeTags(in.Interests),
		CreatorId:   creatorId,
	})
	if err != nil {
		return database.Room{}, storeErr("create room", err)
	}

	s.log.Info("room created", zap.String("room_id", room.ExternalId), zap.Int("creator_id", creatorId))
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context, filter RoomFilter) ([]database.Room, error) {
	rooms, err := s.db.ListRooms(ctx, database.ListRoomsParams{
		Interests: normalizeTags(filter.Interests),
		Search:    strings.TrimSpace(filter.Search),
	})
	if err != nil {
		return nil, storeErr("list rooms", err)
	}
	return rooms, nil
}

func (s *Service) GetRoom(ctx context.Context, roomId string) (database.Room, error) {
	room, err := s.db.GetRoomByExternalId(ctx, roomId)
	if err != nil {
		return database.Room{}, storeErr("get room", err)
	}
	return room, nil
}

func (s *Service) JoinRoom(ctx context.Context, roomId string, userId int) (database.Room, error) {
	room, err := s.GetRoom(ctx, roomId)
	if err != nil {
		return database.Room{}, err
	}

	if slices.Contains(room.Members, userId) {
		return database.Room{}, fmt.Errorf("%w: already a member of this room", ErrDuplicateAction)
	}

	room.Members = append(room.Members, userId)
	if err := s.db.SaveRoomMembers(ctx, room.Id, room.Members); err != nil {
		return database.Room{}, storeErr("join room", err)
	}

	return room, nil
}

func (s *Service) LeaveRoom(ctx context.Context, roomId string, userId int) (database.Room, error) {
	room, err := s.GetRoom(ctx, roomId)
	if err != nil {
		return database.Room{}, err
	}

	idx := slices.Index(room.Members, userId)
	if idx < 0 {
		return database.Room{}, ErrNotMember
	}

	room.Members = slices.Delete(room.Members, idx, idx+1)
	if err := s.db.SaveRoomMembers(ctx, room.Id, room.Members); err != nil {
		return database.Room{}, storeErr("leave room", err)
	}

	return room, nil
}

// PostMessage stores a message from a current member. Broadcasting it to
// live subscribers is up to the caller.
func (s *Service) PostMessage(ctx context.Context, roomId string, senderId int, content string) (database.Message, error) {
	room, err := s.GetRoom(ctx, roomId)
	if err != nil {
		return database.Message{}, err
	}

	if !slices.Contains(room.Members, senderId) {
		return database.Message{}, fmt.Errorf("%w: not a member of this room", ErrForbidden)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return database.Message{}, validationErr("content is required")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return database.Message{}, validationErr("content must be at most %d characters", MaxMessageLength)
	}

	msg, err := s.db.CreateMessage(ctx, database.CreateMessageParams{
		RoomId:   room.Id,
		SenderId: senderId,
		Content:  content,
	})
	if err != nil {
		return database.Message{}, storeErr("create message", err)
	}

	return msg, nil
}

// GetRoomMessages returns the room history, oldest first, to a member.
func (s *Service) GetRoomMessages(ctx context.Context, roomId string, userId int) ([]database.Message, error) {
	room, err := s.GetRoom(ctx, roomId)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(room.Members, userId) {
		return nil, fmt.Errorf("%w: not a member of this room", ErrForbidden)
	}

	msgs, err := s.db.GetMessages(ctx, room.Id)
	if err != nil {
		return nil, storeErr("get messages", err)
	}
	return msgs, nil
}
