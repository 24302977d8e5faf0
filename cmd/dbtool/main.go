package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/adapters/repositories"
	"freight-marketplace-service/internal/auth"
	"freight-marketplace-service/internal/config"
	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/platform/db"
	"freight-marketplace-service/internal/platform/logger"
)

const usage = `usage: dbtool <command>

commands:
  init                    create tables and indexes
  seed [path]             upsert demo users (default data/seeds/users.json)
  token <user-id> <role>  print a 24h bearer token for local testing
`

func main() {
	_ = godotenv.Load()

	log, err := logger.New(config.Get("LOG_LEVEL", "info"), "")
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "init":
		sqlDB := open(log)
		defer sqlDB.Close()
		if err := repositories.InitSchema(sqlDB); err != nil {
			log.Fatal("schema init failed", zap.Error(err))
		}
		log.Info("schema ready")

	case "seed":
		path := "data/seeds/users.json"
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		sqlDB := open(log)
		defer sqlDB.Close()
		if err := repositories.SeedFromJSON(sqlDB, path); err != nil {
			log.Fatal("seed failed", zap.Error(err))
		}
		log.Info("seed complete", zap.String("path", path))

	case "token":
		if len(os.Args) != 4 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		role := domain.Role(os.Args[3])
		if !role.Valid() {
			log.Fatal("unknown role", zap.String("role", os.Args[3]))
		}
		secret := config.Get("JWT_SECRET", "dev-secret-change-me")
		token, err := auth.GenerateToken(secret, os.Args[2], role, 24*time.Hour)
		if err != nil {
			log.Fatal("token generation failed", zap.Error(err))
		}
		fmt.Println(token)

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func open(log *zap.Logger) *sql.DB {
	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	sqlDB, err := db.Open(databaseURL, db.Pool{MaxOpen: 2, MaxIdle: 2})
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	return sqlDB
}
