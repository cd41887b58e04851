package types

import (
	"time"
)

type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type User struct {
	Id             int         `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email,omitempty"`
	Year           string      `json:"year"`
	Branch         string      `json:"branch"`
	Bio            string      `json:"bio"`
	Interests      []string    `json:"interests"`
	SocialLinks    SocialLinks `json:"social_links"`
	CoolVotesCount int         `json:"cool_votes_count"`
	CreatedAt      time.Time   `json:"created_at,omitempty"`
}

type UserRef struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type Room struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Interests   []string  `json:"interests"`
	Creator     UserRef   `json:"creator"`
	Members     []int     `json:"members"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

type Message struct {
	Id         int       `json:"id,omitempty"`
	RoomId     string    `json:"room_id"`
	SenderId   int       `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

type Report struct {
	Id             int       `json:"id"`
	ReporterId     int       `json:"reporter_id"`
	ReportedUserId *int      `json:"reported_user_id,omitempty"`
	ReportedRoomId *int      `json:"reported_room_id,omitempty"`
	Reason         string    `json:"reason"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}
