// internal/db/db.go
package db

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"
)

// Open connects to the Postgres instance holding the sequence queue.
func Open(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		return nil, err
	}
	log.Println("✅ Connected to database")
	return conn, nil
}
