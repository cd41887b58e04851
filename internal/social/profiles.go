package social

import (
	"context"
	"strings"

	"github.com/npezzotti/campus-connect/internal/database"
)

const SearchLimit = 20

type ProfileUpdate struct {
	Bio         string `validate:"max=500"`
	Interests   []string
	SocialLinks database.SocialLinks
}

func (s *Service) GetProfile(ctx context.Context, userId int) (database.User, error) {
	user, err := s.db.GetUserById(ctx, userId)
	if err != nil {
		return database.User{}, storeErr("get profile", err)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userId int, in ProfileUpdate) (database.User, error) {
	in.Bio = strings.TrimSpace(in.Bio)
	if err := s.check(in); err != nil {
		return database.User{}, err
	}

	user, err := s.db.UpdateProfile(ctx, database.UpdateProfileParams{
		UserId:      userId,
		Bio:         in.Bio,
		Interests:   normalizeTags(in.Interests),
		SocialLinks: in.SocialLinks,
	})
	if err != nil {
		return database.User{}, storeErr("update profile", err)
	}
	return user, nil
}

// SearchUsers matches query against names and interests, case-insensitively,
// and optionally narrows to users sharing any of the given interests.
func (s *Service) SearchUsers(ctx context.Context, query string, interests []string) ([]database.UserSummary, error) {
	users, err := s.db.SearchUsers(ctx, database.SearchUsersParams{
		Query:     strings.TrimSpace(query),
		Interests: normalizeTags(interests),
		Limit:     SearchLimit,
	})
	if err != nil {
		return nil, storeErr("search users", err)
	}
	return users, nil
}
