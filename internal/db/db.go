package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	DB      *sql.DB
	Q       *Queries
	Dialect Dialect
}

// Open connects to the database named by driver ("sqlite3" or "pgx").
// For sqlite3 the dsn is a file path (or ":memory:").
func Open(driver, dsn string) (*Store, error) {
	d, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	if d == DialectSQLite {
		dsn = fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", strings.TrimPrefix(dsn, "file:"))
	}

	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, err
	}
	if d == DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if d == DialectSQLite {
		// Ensure FK is on
		_, _ = db.Exec(`PRAGMA foreign_keys = ON;`)
	}

	return &Store{DB: db, Q: &Queries{db: db, dialect: d}, Dialect: d}, nil
}

func (s *Store) Close() error { return s.DB.Close() }
func (s *Store) Ping() error  { return s.DB.Ping() }

// WithTx runs fn inside a single transaction. The transaction commits only
// when fn returns nil; any error or panic rolls it back.
func (s *Store) WithTx(ctx context.Context, fn func(q *Queries) error) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(s.Q.withTx(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
