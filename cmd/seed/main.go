// Command seed crea (o promueve) la cuenta admin inicial.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"blog-api/internal/config"
	"blog-api/internal/db"
	"blog-api/internal/service"
)

type seedOptions struct {
	email     string
	password  string
	name      string
	firstName string
	country   string
}

func parseFlags(args []string) (seedOptions, error) {
	var opts seedOptions
	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVar(&opts.email, "email", envOr("ADMIN_EMAIL", "admin@example.com"), "admin email")
	flagSet.StringVar(&opts.password, "password", envOr("ADMIN_PASSWORD", "adminpassword"), "admin password")
	flagSet.StringVar(&opts.name, "name", "Admin", "admin last name")
	flagSet.StringVar(&opts.firstName, "first-name", "Default", "admin first name")
	flagSet.StringVar(&opts.country, "country", "AdminLand", "admin country")
	if err := flagSet.Parse(args); err != nil {
		return seedOptions{}, err
	}
	return opts, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(opts seedOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.StoreDriver == config.StoreDriverMemory {
		return fmt.Errorf("seeding the memory store has no effect")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	jwtSvc, err := service.NewJWTService(cfg.JWTSecret)
	if err != nil {
		return err
	}
	store, err := db.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if redisClient := db.NewRedisClient(ctx, cfg, logger); redisClient != nil {
		defer redisClient.Close()
		store.WithIdentityCache(redisClient, cfg.IdentityCacheDuration(), logger)
	}

	userSvc := service.NewUserService(logger, store.Users, service.NewBcryptHasher(), jwtSvc)
	admin, err := userSvc.SeedAdmin(ctx, service.SignupInput{
		Name:      opts.name,
		FirstName: opts.firstName,
		Email:     opts.email,
		Country:   opts.country,
		Password:  opts.password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("admin ready: %s (%s)\n", admin.Email, admin.ID)
	return nil
}
