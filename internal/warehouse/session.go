package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/snowflakedb/gosnowflake"
)

// Session is one exclusively owned warehouse connection
type Session interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Close() error
}

// Target is the default scope a session starts in; empty fields are left unset
type Target struct {
	Warehouse string
	Database  string
	Schema    string
}

// Credentials authenticate against the warehouse account
type Credentials struct {
	Account  string
	Username string
	Password string
}

// Opener acquires a session scoped to target
type Opener func(ctx context.Context, target Target) (Session, error)

// dedicatedConn pins one pooled connection so USE statements stick
type dedicatedConn struct {
	*sql.Conn
	db *sql.DB
}

func (c *dedicatedConn) Close() error {
	connErr := c.Conn.Close()
	dbErr := c.db.Close()
	if connErr != nil {
		return connErr
	}
	return dbErr
}

// OpenSnowflake returns an opener that dials Snowflake with creds
func OpenSnowflake(creds Credentials) Opener {
	return func(ctx context.Context, target Target) (Session, error) {
		dsn, err := gosnowflake.DSN(&gosnowflake.Config{
			Account:   creds.Account,
			User:      creds.Username,
			Password:  creds.Password,
			Warehouse: target.Warehouse,
			Database:  target.Database,
			Schema:    target.Schema,
		})
		if err != nil {
			return nil, fmt.Errorf("build snowflake dsn: %w", err)
		}
		return openDedicated(ctx, "snowflake", dsn)
	}
}

// OpenSQL returns an opener for any registered database/sql driver
func OpenSQL(driverName, dsn string) Opener {
	return func(ctx context.Context, _ Target) (Session, error) {
		return openDedicated(ctx, driverName, dsn)
	}
}

func openDedicated(ctx context.Context, driverName, dsn string) (Session, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", driverName, err)
	}
	return &dedicatedConn{Conn: conn, db: db}, nil
}
