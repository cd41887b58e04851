// Package seed fills a store with verified demo students and interest rooms.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jaswdr/faker"
	"github.com/npezzotti/campus-connect/internal/database"
	"github.com/npezzotti/campus-connect/internal/social"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	interests = []string{
		"chess", "hiking", "music", "photography", "robotics", "poetry",
		"basketball", "startups", "gaming", "cooking", "film", "debate",
	}
	branches = []string{"CS", "EE", "ME", "Biology", "History", "Economics"}
	years    = []string{"1", "2", "3", "4"}
	colleges = []string{"state.edu", "tech.edu", "riverside-college.org"}
)

type Options struct {
	Users    int
	Rooms    int
	Password string
	// HashCost defaults to bcrypt.DefaultCost.
	HashCost int
}

type Result struct {
	Users []database.User
	Rooms []database.Room
}

type Seeder struct {
	repo database.CampusRepository
	svc  *social.Service
	fake faker.Faker
	log  *zap.Logger
}

func New(repo database.CampusRepository, svc *social.Service, fake faker.Faker, logger *zap.Logger) *Seeder {
	return &Seeder{repo: repo, svc: svc, fake: fake, log: logger}
}

// FakeUser returns registration data for a random student. n keeps the
// generated address unique within one run.
func FakeUser(fake faker.Faker, n int) database.CreateUserParams {
	first := fake.Person().FirstName()
	last := fake.Person().LastName()
	return database.CreateUserParams{
		Name:   first + " " + last,
		Email:  fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), n, fake.RandomStringElement(colleges)),
		Year:   fake.RandomStringElement(years),
		Branch: fake.RandomStringElement(branches),
	}
}

// pickInterests selects between 1 and 4 distinct interests.
func pickInterests() []string {
	shuffled := append([]string(nil), interests...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:rand.Intn(4)+1]
}

func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Users < 2 {
		return Result{}, fmt.Errorf("need at least 2 users, got %d", opts.Users)
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), opts.HashCost)
	if err != nil {
		return Result{}, fmt.Errorf("hash password: %w", err)
	}

	var res Result
	for i := range opts.Users {
		params := FakeUser(s.fake, i)
		params.PasswordHash = string(hash)

		u, err := s.repo.CreateUser(ctx, params)
		if err != nil {
			return res, fmt.Errorf("create user %s: %w", params.Email, err)
		}
		if err := s.repo.MarkUserVerified(ctx, u.Id); err != nil {
			return res, fmt.Errorf("verify user %d: %w", u.Id, err)
		}

		u, err = s.svc.UpdateProfile(ctx, u.Id, social.ProfileUpdate{
			Bio:       s.fake.Lorem().Sentence(8),
			Interests: pickInterests(),
		})
		if err != nil {
			return res, fmt.Errorf("update profile %d: %w", u.Id, err)
		}
		res.Users = append(res.Users, u)
	}

	for range opts.Rooms {
		creator := res.Users[rand.Intn(len(res.Users))]
		tags := pickInterests()

		room, err := s.svc.CreateRoom(ctx, creator.Id, social.NewRoom{
			Title:       strings.ToUpper(tags[0][:1]) + tags[0][1:] + " " + s.fake.RandomStringElement([]string{"Club", "Circle", "Society", "Crew"}),
			Description: s.fake.Lorem().Sentence(12),
			Interests:   tags,
		})
		if err != nil {
			return res, fmt.Errorf("create room: %w", err)
		}

		for _, u := range res.Users {
			if u.Id == creator.Id || rand.Intn(3) != 0 {
				continue
			}
			if room, err = s.svc.JoinRoom(ctx, room.ExternalId, u.Id); err != nil {
				return res, fmt.Errorf("join room: %w", err)
			}
		}
		res.Rooms = append(res.Rooms, room)
	}

	// a few cool votes so the trending lists are not all ties
	for _, voter := range res.Users {
		target := res.Users[rand.Intn(len(res.Users))]
		if target.Id == voter.Id {
			continue
		}
		if err := s.svc.VoteCool(ctx, voter.Id, target.Id); err != nil {
			return res, fmt.Errorf("vote cool: %w", err)
		}
	}

	s.log.Info("seed complete", zap.Int("users", len(res.Users)), zap.Int("rooms", len(res.Rooms)))
	return res, nil
}
