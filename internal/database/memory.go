package database

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryCampusRepository keeps every document in process memory. It backs
// local development and tests; documents are copied on read and write so
// callers observe the same read-modify-write semantics as the Postgres store.
type MemoryCampusRepository struct {
	mu       sync.RWMutex
	users    map[int]User
	rooms    map[int]Room
	messages map[int][]Message
	reports  map[int]Report
	nextId   map[string]int
	now      func() time.Time
}

func NewMemoryCampusRepository() *MemoryCampusRepository {
	return &MemoryCampusRepository{
		users:    make(map[int]User),
		rooms:    make(map[int]Room),
		messages: make(map[int][]Message),
		reports:  make(map[int]Report),
		nextId:   make(map[string]int),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the timestamp source used for created/updated times.
func (m *MemoryCampusRepository) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryCampusRepository) id(kind string) int {
	m.nextId[kind]++
	return m.nextId[kind]
}

func (m *MemoryCampusRepository) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryCampusRepository) Close() error {
	return nil
}

func (m *MemoryCampusRepository) CreateUser(_ context.Context, params CreateUserParams) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == params.Email {
			return User{}, ErrDuplicateEmail
		}
	}

	now := m.now()
	u := User{
		Id:                m.id("users"),
		Name:              params.Name,
		Email:             params.Email,
		PasswordHash:      params.PasswordHash,
		Year:              params.Year,
		Branch:            params.Branch,
		Interests:         []string{},
		CoolVotes:         []int{},
		AdmiredUsers:      []int{},
		Admirers:          []int{},
		LastAdmireReset:   now,
		VerificationToken: params.VerificationToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	m.users[u.Id] = u

	return u.Clone(), nil
}

func (m *MemoryCampusRepository) GetUserById(_ context.Context, id int) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u.Clone(), nil
}

func (m *MemoryCampusRepository) GetUserByEmail(_ context.Context, email string) (User, error) {
	return m.findUser(func(u User) bool { return u.Email == email })
}

func (m *MemoryCampusRepository) GetUserByVerificationToken(_ context.Context, token string) (User, error) {
	if token == "" {
		return User{}, ErrNotFound
	}
	return m.findUser(func(u User) bool { return u.VerificationToken == token })
}

func (m *MemoryCampusRepository) findUser(match func(User) bool) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			return u.Clone(), nil
		}
	}
	return User{}, ErrNotFound
}

func (m *MemoryCampusRepository) MarkUserVerified(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsVerified = true
	u.VerificationToken = ""
	u.UpdatedAt = m.now()
	m.users[id] = u
	return nil
}

func (m *MemoryCampusRepository) UpdateProfile(_ context.Context, params UpdateProfileParams) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[params.UserId]
	if !ok {
		return User{}, ErrNotFound
	}
	u.Bio = params.Bio
	u.Interests = cloneSlice(nonNilStrings(params.Interests))
	u.SocialLinks = params.SocialLinks
	u.UpdatedAt = m.now()
	m.users[u.Id] = u

	return u.Clone(), nil
}

func (m *MemoryCampusRepository) SaveUserGraph(_ context.Context, in User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[in.Id]
	if !ok {
		return ErrNotFound
	}
	u.CoolVotes = cloneSlice(in.CoolVotes)
	u.AdmiredUsers = cloneSlice(in.AdmiredUsers)
	u.Admirers = cloneSlice(in.Admirers)
	u.AdmireCountThisWeek = in.AdmireCountThisWeek
	u.LastAdmireReset = in.LastAdmireReset
	u.UpdatedAt = m.now()
	m.users[u.Id] = u
	return nil
}

func (m *MemoryCampusRepository) SearchUsers(_ context.Context, params SearchUsersParams) ([]UserSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	query := strings.ToLower(params.Query)

	var matched []User
	for _, u := range m.users {
		if query != "" && !strings.Contains(strings.ToLower(u.Name), query) &&
			!slices.ContainsFunc(u.Interests, func(i string) bool { return strings.Contains(strings.ToLower(i), query) }) {
			continue
		}
		if len(params.Interests) > 0 && !overlaps(u.Interests, params.Interests) {
			continue
		}
		matched = append(matched, u)
	}

	slices.SortFunc(matched, func(a, b User) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if len(matched) > limit {
		matched = matched[:limit]
	}

	users := make([]UserSummary, 0, len(matched))
	for _, u := range matched {
		users = append(users, summarize(u))
	}
	return users, nil
}

func (m *MemoryCampusRepository) ListUserSummaries(_ context.Context) ([]UserSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]UserSummary, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, summarize(u))
	}
	return users, nil
}

func (m *MemoryCampusRepository) CreateRoom(_ context.Context, params CreateRoomParams) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	room := Room{
		Id:          m.id("rooms"),
		ExternalId:  params.ExternalId,
		Title:       params.Title,
		Description: params.Description,
		Interests:   cloneSlice(nonNilStrings(params.Interests)),
		CreatorId:   params.CreatorId,
		Members:     []int{params.CreatorId},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.rooms[room.Id] = room

	return m.withCreator(room), nil
}

func (m *MemoryCampusRepository) GetRoomByExternalId(_ context.Context, externalId string) (Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, room := range m.rooms {
		if room.ExternalId == externalId {
			return m.withCreator(room), nil
		}
	}
	return Room{}, ErrNotFound
}

func (m *MemoryCampusRepository) GetRoomById(_ context.Context, id int) (Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[id]
	if !ok {
		return Room{}, ErrNotFound
	}
	return m.withCreator(room), nil
}

func (m *MemoryCampusRepository) ListRooms(_ context.Context, params ListRoomsParams) ([]Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(params.Search)
	rooms := make([]Room, 0)
	for _, room := range m.rooms {
		if len(params.Interests) > 0 && !overlaps(room.Interests, params.Interests) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(room.Title), search) &&
			!strings.Contains(strings.ToLower(room.Description), search) {
			continue
		}
		rooms = append(rooms, m.withCreator(room))
	}

	slices.SortFunc(rooms, func(a, b Room) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.Id - a.Id
	})
	return rooms, nil
}

func (m *MemoryCampusRepository) SaveRoomMembers(_ context.Context, roomId int, members []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomId]
	if !ok {
		return ErrNotFound
	}
	room.Members = cloneSlice(members)
	room.UpdatedAt = m.now()
	m.rooms[roomId] = room
	return nil
}

func (m *MemoryCampusRepository) CreateMessage(_ context.Context, params CreateMessageParams) (Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[params.RoomId]; !ok {
		return Message{}, ErrNotFound
	}

	msg := Message{
		Id:         m.id("messages"),
		RoomId:     params.RoomId,
		SenderId:   params.SenderId,
		SenderName: m.users[params.SenderId].Name,
		Content:    params.Content,
		CreatedAt:  m.now(),
	}
	m.messages[params.RoomId] = append(m.messages[params.RoomId], msg)
	return msg, nil
}

func (m *MemoryCampusRepository) GetMessages(_ context.Context, roomId int) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := append(make([]Message, 0, len(m.messages[roomId])), m.messages[roomId]...)
	slices.SortStableFunc(messages, func(a, b Message) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return a.Id - b.Id
	})
	return messages, nil
}

func (m *MemoryCampusRepository) CreateReport(_ context.Context, params CreateReportParams) (Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	report := Report{
		Id:             m.id("reports"),
		ReporterId:     params.ReporterId,
		ReportedUserId: params.ReportedUserId,
		ReportedRoomId: params.ReportedRoomId,
		Reason:         params.Reason,
		Description:    params.Description,
		Status:         ReportPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.reports[report.Id] = report
	return report, nil
}

func (m *MemoryCampusRepository) ListReports(_ context.Context) ([]Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reports := make([]Report, 0, len(m.reports))
	for _, r := range m.reports {
		reports = append(reports, r)
	}
	slices.SortFunc(reports, func(a, b Report) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.Id - a.Id
	})
	return reports, nil
}

func (m *MemoryCampusRepository) UpdateReportStatus(_ context.Context, id int, status ReportStatus) (Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	report, ok := m.reports[id]
	if !ok {
		return Report{}, ErrNotFound
	}
	report.Status = status
	report.UpdatedAt = m.now()
	m.reports[id] = report
	return report, nil
}

// withCreator fills the creator name; callers must hold the lock.
func (m *MemoryCampusRepository) withCreator(room Room) Room {
	room = room.Clone()
	room.CreatorName = m.users[room.CreatorId].Name
	return room
}

func summarize(u User) UserSummary {
	return UserSummary{
		Id:             u.Id,
		Name:           u.Name,
		Year:           u.Year,
		Branch:         u.Branch,
		Bio:            u.Bio,
		Interests:      cloneSlice(u.Interests),
		SocialLinks:    u.SocialLinks,
		CoolVotesCount: len(u.CoolVotes),
		CreatedAt:      u.CreatedAt,
	}
}

func overlaps(a, b []string) bool {
	for _, s := range a {
		if slices.Contains(b, s) {
			return true
		}
	}
	return false
}
