package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pool holds connection-pool sizing. The zero value is replaced with defaults
// tuned for a single service instance.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

func (p Pool) withDefaults() Pool {
	if p.MaxOpen <= 0 {
		p.MaxOpen = 10
	}
	if p.MaxIdle <= 0 {
		p.MaxIdle = p.MaxOpen
	}
	if p.MaxLifetime <= 0 {
		p.MaxLifetime = 30 * time.Minute
	}
	return p
}

func Open(databaseURL string, pool Pool) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	pool = pool.withDefaults()
	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(pool.MaxIdle)
	db.SetConnMaxLifetime(pool.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}
