// Command forumctl runs maintenance tasks against the forum database.
//
//	forumctl migrate
//	forumctl seed [-demo=false]
//	forumctl reconcile
//	forumctl hash-passwords [-dry-run]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/TinArambasic/ScholarSync/internal/dto"
	"github.com/TinArambasic/ScholarSync/internal/repository"
	"github.com/TinArambasic/ScholarSync/internal/service"
	"github.com/TinArambasic/ScholarSync/pkg/config"
	"github.com/TinArambasic/ScholarSync/pkg/database"
	appErrors "github.com/TinArambasic/ScholarSync/pkg/errors"
	"github.com/TinArambasic/ScholarSync/pkg/logger"
)

const usage = `usage: forumctl <command> [flags]

commands:
  migrate          create tables and indexes
  seed             upsert the course catalogue and register the demo account
  reconcile        repair drifted answer counters
  hash-passwords   bcrypt-hash passwords still stored in plain text
`

type app struct {
	cfg    *config.Config
	db     *sqlx.DB
	logger *zap.Logger
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	a := &app{cfg: cfg, db: db, logger: logr}
	command, args := os.Args[1], os.Args[2:]

	switch command {
	case "migrate":
		err = a.migrate(ctx)
	case "seed":
		err = a.seed(ctx, args)
	case "reconcile":
		err = a.reconcile(ctx)
	case "hash-passwords":
		err = a.hashPasswords(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}
	if err != nil {
		logr.Error("command failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
}

func (a *app) migrate(ctx context.Context) error {
	if err := database.Migrate(ctx, a.db); err != nil {
		return err
	}
	a.logger.Info("schema up to date")
	return nil
}

func (a *app) seed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	demo := fs.Bool("demo", true, "register the demo account when DEMO_PASSWORD is set")
	if err := fs.Parse(args); err != nil {
		return err
	}

	courses := repository.NewCourseRepository(a.db)
	catalogue := referenceCourses()
	for i := range catalogue {
		if err := courses.Upsert(ctx, &catalogue[i]); err != nil {
			return err
		}
	}
	a.logger.Info("course catalogue seeded", zap.Int("courses", len(catalogue)))

	if !*demo {
		return nil
	}
	if a.cfg.Seed.DemoPassword == "" {
		a.logger.Info("DEMO_PASSWORD not set, skipping demo account")
		return nil
	}

	auth := service.NewAuthService(repository.NewUserRepository(a.db), nil, a.logger, service.AuthConfig{
		Secret: a.cfg.JWT.Secret,
		Expiry: a.cfg.JWT.Expiration,
		Issuer: a.cfg.JWT.Issuer,
	})
	_, err := auth.Register(ctx, dto.RegisterRequest{
		Username: a.cfg.Seed.DemoUsername,
		Email:    a.cfg.Seed.DemoEmail,
		Password: a.cfg.Seed.DemoPassword,
	})
	switch {
	case errors.Is(err, appErrors.ErrConflict):
		a.logger.Info("demo account already exists", zap.String("username", a.cfg.Seed.DemoUsername))
		return nil
	case err != nil:
		return err
	}
	return nil
}

func (a *app) reconcile(ctx context.Context) error {
	questions := service.NewQuestionService(repository.NewQuestionRepository(a.db), nil, nil, nil, a.logger)
	res, err := questions.ReconcileAnswerCounts(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("answer counts reconciled", zap.Int("fixed", res.Fixed))
	return nil
}

func (a *app) hashPasswords(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("hash-passwords", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "only report affected accounts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	users := repository.NewUserRepository(a.db)
	pending, err := users.ListUnhashed(ctx)
	if err != nil {
		return err
	}
	for _, user := range pending {
		if *dryRun {
			a.logger.Info("password needs hashing", zap.String("user_id", user.ID), zap.String("username", user.Username))
			continue
		}
		hash, err := service.HashPassword(user.PasswordHash)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", user.Username, err)
		}
		if err := users.UpdatePassword(ctx, user.ID, hash, time.Now().UTC()); err != nil {
			return err
		}
		a.logger.Info("password hashed", zap.String("user_id", user.ID), zap.String("username", user.Username))
	}
	a.logger.Info("password migration finished", zap.Int("users", len(pending)), zap.Bool("dry_run", *dryRun))
	return nil
}
