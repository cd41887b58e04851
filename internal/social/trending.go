package social

import (
	"cmp"
	"context"
	"slices"

	"github.com/npezzotti/campus-connect/internal/database"
)

const DefaultTrendingLimit = 10

// RankUsers orders users by cool votes, most first, breaking ties with the
// newest account, and keeps the first n.
func RankUsers(users []database.UserSummary, n int) []database.UserSummary {
	ranked := slices.Clone(users)
	slices.SortStableFunc(ranked, func(a, b database.UserSummary) int {
		if c := cmp.Compare(b.CoolVotesCount, a.CoolVotesCount); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return truncate(ranked, n)
}

// RankRooms orders rooms by member count, most first, breaking ties with the
// newest room, and keeps the first n.
func RankRooms(rooms []database.Room, n int) []database.Room {
	ranked := slices.Clone(rooms)
	slices.SortStableFunc(ranked, func(a, b database.Room) int {
		if c := cmp.Compare(len(b.Members), len(a.Members)); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return truncate(ranked, n)
}

func (s *Service) TrendingUsers(ctx context.Context, n int) ([]database.UserSummary, error) {
	users, err := s.db.ListUserSummaries(ctx)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	return RankUsers(users, n), nil
}

func (s *Service) TrendingRooms(ctx context.Context, n int) ([]database.Room, error) {
	rooms, err := s.db.ListRooms(ctx, database.ListRoomsParams{})
	if err != nil {
		return nil, storeErr("list rooms", err)
	}
	return RankRooms(rooms, n), nil
}

func truncate[T any](s []T, n int) []T {
	if n <= 0 {
		n = DefaultTrendingLimit
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
