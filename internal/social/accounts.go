package social

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/npezzotti/campus-connect/internal/database"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const verificationTokenBytes = 32

type Registration struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Year     string `validate:"required"`
	Branch   string `validate:"required"`
}

// IsCollegeEmail reports whether an address looks like it belongs to a
// college. It is a heuristic, not an allow-list.
func IsCollegeEmail(email string) bool {
	email = strings.ToLower(email)
	return strings.HasSuffix(email, ".edu") ||
		strings.Contains(email, "college") ||
		strings.Contains(email, "university")
}

// Register creates an unverified account and emails its verification token.
func (s *Service) Register(ctx context.Context, in Registration) (database.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.check(in); err != nil {
		return database.User{}, err
	}

	if !IsCollegeEmail(in.Email) {
		return database.User{}, validationErr("please use a valid college email address")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return database.User{}, fmt.Errorf("hash password: %w", err)
	}

	token, err := newVerificationToken()
	if err != nil {
		return database.User{}, err
	}

	user, err := s.db.CreateUser(ctx, database.CreateUserParams{
		Name:              in.Name,
		Email:             in.Email,
		PasswordHash:      string(hash),
		Year:              in.Year,
		Branch:            in.Branch,
		VerificationToken: token,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return database.User{}, fmt.Errorf("%w: user already exists", ErrDuplicateAction)
		}
		return database.User{}, storeErr("create user", err)
	}

	s.log.Info("user registered", zap.Int("user_id", user.Id))
	s.notify("verification", user.Id, s.notifier.SendVerification(ctx, user.Email, token))

	return user, nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return validationErr("invalid verification token")
	}

	user, err := s.db.GetUserByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return validationErr("invalid verification token")
		}
		return storeErr("get user by token", err)
	}

	if err := s.db.MarkUserVerified(ctx, user.Id); err != nil {
		return storeErr("mark verified", err)
	}

	return nil
}

// Login checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (database.User, error) {
	user, err := s.db.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return database.User{}, ErrInvalidCredentials
		}
		return database.User{}, storeErr("get user by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return database.User{}, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return database.User{}, fmt.Errorf("%w: please verify your email first", ErrUnverified)
	}

	return user, nil
}

func newVerificationToken() (string, error) {
	b := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
