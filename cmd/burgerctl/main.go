// Command burgerctl drives the burger constructor state from a terminal:
// browse the catalog and the feed, log in, assemble a burger and order it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/api"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/config"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/database"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/store"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/tokens"
)

const usage = `usage: burgerctl <command> [flags]

commands:
  ingredients                      list the catalog by type
  feed                             show the public order feed
  order <number>                   show one order
  register -email -name -password  create an account
  login -email -password           log in
  me [-name] [-email] [-password]  show or update the profile
  history                          list my orders
  build -bun ID -fill ID[,ID...]   assemble a burger and order it
  forgot -email                    request a password reset code
  reset -token -password           set a new password
  logout                           log out
`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using system environment variables")
	}
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, out io.Writer) error {
	logger := log.StandardLogger()
	logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(log.WarnLevel)
	if lvl, err := log.ParseLevel(config.GetEnvWithDefault("LOG_LEVEL", "warn")); err == nil {
		logger.SetLevel(lvl)
	}
	api.SetLogger(logger)
	database.SetLogger(logger)
	store.SetLogger(logger)
	tokens.SetLogger(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	storage, closeStorage, err := openTokenStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	client := api.NewClient(cfg.APIURL, storage, api.WithTimeout(cfg.RequestTimeout))
	c := &cli{store: store.New(client, storage), api: client, out: out}

	switch command {
	case "ingredients":
		return c.ingredients(ctx)
	case "feed":
		return c.feed(ctx)
	case "order":
		return c.order(ctx, args)
	case "register":
		return c.register(ctx, args)
	case "login":
		return c.login(ctx, args)
	case "me":
		return c.me(ctx, args)
	case "history":
		return c.history(ctx)
	case "build":
		return c.build(ctx, args)
	case "forgot":
		return c.forgot(ctx, args)
	case "reset":
		return c.reset(ctx, args)
	case "logout":
		return c.logout(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q", command)
}

// openTokenStorage picks where the session tokens live between invocations
func openTokenStorage(cfg *config.Config) (tokens.Storage, func(), error) {
	switch cfg.TokenStore {
	case "redis":
		storage, err := tokens.NewRedisStorage(cfg.RedisAddr, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() { _ = storage.Close() }, nil
	case "memory":
		return tokens.NewMemoryStorage(), func() {}, nil
	case "sqlite", "":
		db, err := database.InitDatabase(database.SQLite(cfg.TokenStorePath))
		if err != nil {
			return nil, nil, err
		}
		storage, err := tokens.NewGormStorage(db, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unsupported TOKEN_STORE %q", cfg.TokenStore)
}

func parseFlags(name string, args []string, define func(fs *flag.FlagSet)) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	define(fs)
	return fs.Parse(args)
}

func splitIDs(list string) []string {
	var ids []string
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseOrderNumber(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("order needs exactly one order number")
	}
	number, err := strconv.Atoi(args[0])
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("invalid order number %q", args[0])
	}
	return number, nil
}
