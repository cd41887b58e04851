package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jaswdr/faker"
	"github.com/npezzotti/campus-connect/internal/database"
	"github.com/npezzotti/campus-connect/internal/logging"
	"github.com/npezzotti/campus-connect/internal/notify"
	"github.com/npezzotti/campus-connect/internal/seed"
	"github.com/npezzotti/campus-connect/internal/social"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	var (
		dsn      = pflag.String("dsn", os.Getenv("CAMPUS_DATABASE_DSN"), "postgres connection string")
		users    = pflag.Int("users", 20, "number of demo users")
		rooms    = pflag.Int("rooms", 8, "number of demo rooms")
		password = pflag.String("password", "campus-demo", "password shared by every demo user")
	)
	pflag.Parse()

	logger, err := logging.New("info", true)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer logger.Sync()

	if *dsn == "" {
		logger.Fatal("a database DSN is required (--dsn or CAMPUS_DATABASE_DSN)")
	}

	repo, err := database.NewPgCampusRepository(*dsn)
	if err != nil {
		logger.Fatal("open repository", zap.Error(err))
	}
	defer repo.Close()

	if err := repo.RunMigrations(); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	svc := social.NewService(repo, notify.NewLogNotifier(logger), logger)
	res, err := seed.New(repo, svc, faker.New(), logger).Run(context.Background(), seed.Options{
		Users:    *users,
		Rooms:    *rooms,
		Password: *password,
	})
	if err != nil {
		logger.Fatal("seed", zap.Error(err))
	}

	for _, u := range res.Users {
		fmt.Printf("%s\t%s\n", u.Email, *password)
	}
}
