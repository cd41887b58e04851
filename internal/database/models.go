package database

import "time"

type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type User struct {
	Id                  int
	Name                string
	Email               string
	PasswordHash        string
	Year                string
	Branch              string
	Bio                 string
	Interests           []string
	SocialLinks         SocialLinks
	CoolVotes           []int
	AdmiredUsers        []int
	Admirers            []int
	AdmireCountThisWeek int
	LastAdmireReset     time.Time
	IsVerified          bool
	VerificationToken   string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// UserSummary is the read-side projection used by search and trending.
type UserSummary struct {
	Id             int
	Name           string
	Year           string
	Branch         string
	Bio            string
	Interests      []string
	SocialLinks    SocialLinks
	CoolVotesCount int
	CreatedAt      time.Time
}

type Room struct {
	Id          int
	ExternalId  string
	Title       string
	Description string
	Interests   []string
	CreatorId   int
	CreatorName string
	Members     []int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Message struct {
	Id         int
	RoomId     int
	SenderId   int
	SenderName string
	Content    string
	CreatedAt  time.Time
}

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

type Report struct {
	Id             int
	ReporterId     int
	ReportedUserId *int
	ReportedRoomId *int
	Reason         string
	Description    string
	Status         ReportStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateUserParams struct {
	Name              string
	Email             string
	PasswordHash      string
	Year              string
	Branch            string
	VerificationToken string
}

type UpdateProfileParams struct {
	UserId      int
	Bio         string
	Interests   []string
	SocialLinks SocialLinks
}

type SearchUsersParams struct {
	Query     string
	Interests []string
	Limit     int
}

type CreateRoomParams struct {
	ExternalId  string
	Title       string
	Description string
	Interests   []string
	CreatorId   int
}

type ListRoomsParams struct {
	Interests []string
	Search    string
}

type CreateMessageParams struct {
	RoomId   int
	SenderId int
	Content  string
}

type CreateReportParams struct {
	ReporterId     int
	ReportedUserId *int
	ReportedRoomId *int
	Reason         string
	Description    string
}

// Clone returns a deep copy so callers can mutate sets without
// touching the stored document.
func (u User) Clone() User {
	u.Interests = cloneSlice(u.Interests)
	u.CoolVotes = cloneSlice(u.CoolVotes)
	u.AdmiredUsers = cloneSlice(u.AdmiredUsers)
	u.Admirers = cloneSlice(u.Admirers)
	return u
}

func (r Room) Clone() Room {
	r.Interests = cloneSlice(r.Interests)
	r.Members = cloneSlice(r.Members)
	return r
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
