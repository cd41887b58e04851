package database

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCampusRepository struct {
	mock.Mock
}

func (m *MockCampusRepository) Ping(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockCampusRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockCampusRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockCampusRepository) GetUserById(ctx context.Context, id int) (User, error) {
	args := m.Called(id)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockCampusRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(email)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockCampusRepository) GetUserByVerificationToken(ctx context.Context, token string) (User, error) {
	args := m.Called(token)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockCampusRepository) MarkUserVerified(ctx context.Context, id int) error {
	args := m.Called(id)
	return args.Error(0)
}
func (m *MockCampusRepository) UpdateProfile(ctx context.Context, params UpdateProfileParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockCampusRepository) SaveUserGraph(ctx context.Context, u User) error {
	args := m.Called(u)
	return args.Error(0)
}
func (m *MockCampusRepository) SearchUsers(ctx context.Context, params SearchUsersParams) ([]UserSummary, error) {
	args := m.Called(params)
	return args.Get(0).([]UserSummary), args.Error(1)
}
func (m *MockCampusRepository) ListUserSummaries(ctx context.Context) ([]UserSummary, error) {
	args := m.Called()
	return args.Get(0).([]UserSummary), args.Error(1)
}
func (m *MockCampusRepository) CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockCampusRepository) GetRoomByExternalId(ctx context.Context, externalId string) (Room, error) {
	args := m.Called(externalId)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockCampusRepository) GetRoomById(ctx context.Context, id int) (Room, error) {
	args := m.Called(id)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockCampusRepository) ListRooms(ctx context.Context, params ListRoomsParams) ([]Room, error) {
	args := m.Called(params)
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockCampusRepository) SaveRoomMembers(ctx context.Context, roomId int, members []int) error {
	args := m.Called(roomId, members)
	return args.Error(0)
}
func (m *MockCampusRepository) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	args := m.Called(params)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockCampusRepository) GetMessages(ctx context.Context, roomId int) ([]Message, error) {
	args := m.Called(roomId)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockCampusRepository) CreateReport(ctx context.Context, params CreateReportParams) (Report, error) {
	args := m.Called(params)
	return args.Get(0).(Report), args.Error(1)
}
func (m *MockCampusRepository) ListReports(ctx context.Context) ([]Report, error) {
	args := m.Called()
	return args.Get(0).([]Report), args.Error(1)
}
func (m *MockCampusRepository) UpdateReportStatus(ctx context.Context, id int, status ReportStatus) (Report, error) {
	args := m.Called(id, status)
	return args.Get(0).(Report), args.Error(1)
}
