package database

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type CampusRepository interface {
	Ping(ctx context.Context) error
	Close() error

	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetUserById(ctx context.Context, id int) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByVerificationToken(ctx context.Context, token string) (User, error)
	MarkUserVerified(ctx context.Context, id int) error
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (User, error)
	// SaveUserGraph writes the vote, admiration and quota fields of u.
	SaveUserGraph(ctx context.Context, u User) error
	SearchUsers(ctx context.Context, params SearchUsersParams) ([]UserSummary, error)
	ListUserSummaries(ctx context.Context) ([]UserSummary, error)

	CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error)
	GetRoomByExternalId(ctx context.Context, externalId string) (Room, error)
	GetRoomById(ctx context.Context, id int) (Room, error)
	ListRooms(ctx context.Context, params ListRoomsParams) ([]Room, error)
	SaveRoomMembers(ctx context.Context, roomId int, members []int) error

	CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error)
	GetMessages(ctx context.Context, roomId int) ([]Message, error)

	CreateReport(ctx context.Context, params CreateReportParams) (Report, error)
	ListReports(ctx context.Context) ([]Report, error)
	UpdateReportStatus(ctx context.Context, id int, status ReportStatus) (Report, error)
}
