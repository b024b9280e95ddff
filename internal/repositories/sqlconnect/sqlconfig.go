package sqlconnect

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/sync/singleflight"
)

// Process-wide pool. Lazily initialized on first use, reused for the
// process lifetime, reset on failure so the next caller retries.
var (
	mu   sync.RWMutex
	db   *sql.DB
	once singleflight.Group
)

// DB returns the shared pool, connecting on first use. Concurrent first
// callers share a single connection attempt.
func DB() (*sql.DB, error) {
	mu.RLock()
	if db != nil {
		d := db
		mu.RUnlock()
		return d, nil
	}
	mu.RUnlock()

	v, err, _ := once.Do("connect", func() (interface{}, error) {
		return connect()
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	db = v.(*sql.DB)
	mu.Unlock()
	return db, nil
}

// Reset drops the pool after a fatal store error; the next DB call
// reconnects.
func Reset() {
	mu.Lock()
	if db != nil {
		db.Close()
		db = nil
	}
	mu.Unlock()
}

func connect() (*sql.DB, error) {
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")
	host := os.Getenv("DB_HOST")

	connectionString := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=false&multiStatements=true", user, password, host, port, dbname)

	conn, err := sql.Open("mysql", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	conn.SetMaxOpenConns(10)
	return conn, nil
}
