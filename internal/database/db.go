package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	// clientFoundRows=true -> UPDATE reports matched rows, not changed rows,
	// so zero rows affected reliably means "no such row"
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the tickets table when it does not exist yet. There is no
// UNIQUE constraint on (customer_id, movie_id, type): uniqueness of that
// triple is enforced by the service layer, and adding the constraint here
// would change when and how duplicates are reported.
func Migrate(ctx context.Context, db *sql.DB) error {
	const q = `
	CREATE TABLE IF NOT EXISTS tickets (
		id          BIGINT AUTO_INCREMENT PRIMARY KEY,
		customer_id BIGINT NOT NULL,
		movie_id    BIGINT NOT NULL,
		type        VARCHAR(16) NOT NULL,
		base_price  DOUBLE NOT NULL,
		final_price DOUBLE NOT NULL
	)`
	_, err := db.ExecContext(ctx, q)
	return err
}
