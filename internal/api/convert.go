package api

import (
	"github.com/npezzotti/campus-connect/internal/database"
	"github.com/npezzotti/campus-connect/internal/types"
)

func toSocialLinks(l database.SocialLinks) types.SocialLinks {
	return types.SocialLinks{LinkedIn: l.LinkedIn, GitHub: l.GitHub, Instagram: l.Instagram}
}

// toUser omits the email unless includeEmail is set; only the account owner
// sees it.
func toUser(u database.User, includeEmail bool) types.User {
	user := types.User{
		Id:             u.Id,
		Name:           u.Name,
		Year:           u.Year,
		Branch:         u.Branch,
		Bio:            u.Bio,
		Interests:      nonNil(u.Interests),
		SocialLinks:    toSocialLinks(u.SocialLinks),
		CoolVotesCount: len(u.CoolVotes),
		CreatedAt:      u.CreatedAt,
	}
	if includeEmail {
		user.Email = u.Email
	}
	return user
}

func toUserSummary(u database.UserSummary) types.User {
	return types.User{
		Id:             u.Id,
		Name:           u.Name,
		Year:           u.Year,
		Branch:         u.Branch,
		Bio:            u.Bio,
		Interests:      nonNil(u.Interests),
		SocialLinks:    toSocialLinks(u.SocialLinks),
		CoolVotesCount: u.CoolVotesCount,
		CreatedAt:      u.CreatedAt,
	}
}

func toRoom(r database.Room) types.Room {
	return types.Room{
		Id:          r.ExternalId,
		Title:       r.Title,
		Description: r.Description,
		Interests:   nonNil(r.Interests),
		Creator:     types.UserRef{Id: r.CreatorId, Name: r.CreatorName},
		Members:     nonNil(r.Members),
		MemberCount: len(r.Members),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toMessage(roomId string, m database.Message) types.Message {
	return types.Message{
		Id:         m.Id,
		RoomId:     roomId,
		SenderId:   m.SenderId,
		SenderName: m.SenderName,
		Content:    m.Content,
		Timestamp:  m.CreatedAt,
	}
}

func toReport(r database.Report) types.Report {
	return types.Report{
		Id:             r.Id,
		ReporterId:     r.ReporterId,
		ReportedUserId: r.ReportedUserId,
		ReportedRoomId: r.ReportedRoomId,
		Reason:         r.Reason,
		Description:    r.Description,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
