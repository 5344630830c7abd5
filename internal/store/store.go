package store

import (
	"database/sql"
	"errors"
	"os"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"
)

// Service persists room snapshots through database/sql. The driver is
// selected by environment so the same binary runs on sqlite (default) or
// Postgres via pgx.
type Service struct {
	db *sql.DB
	m  *sync.Mutex
}

var ErrNotFound = errors.New("room snapshot not found")

const schema = `
	create table if not exists rooms (
		code text not null primary key,
		updated_at text not null,
		hands_played integer not null,
		state text not null
	);
	`

// New opens the snapshot store. SHEEPSHEAD_DB_DRIVER picks the sql driver
// ("sqlite3" or "pgx"), SHEEPSHEAD_DSN the connection string.
func New() (*Service, error) {
	driver := os.Getenv("SHEEPSHEAD_DB_DRIVER")
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := os.Getenv("SHEEPSHEAD_DSN")
	if dsn == "" {
		dsn = "./sheepshead.db"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Service{db: db, m: &sync.Mutex{}}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

// SaveSnapshot upserts the serialized room state. Called after every
// validated transition, so a crash loses at most the in-flight one.
func (s *Service) SaveSnapshot(snap Snapshot) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(`
		insert into rooms (code, updated_at, hands_played, state)
		values ($1, $2, $3, $4)
		on conflict(code) do update set
			updated_at = excluded.updated_at,
			hands_played = excluded.hands_played,
			state = excluded.state`,
		snap.Code, time.Now().UTC().Format(time.RFC3339), snap.HandsPlayed, string(snap.State))
	return err
}

func (s *Service) LoadSnapshot(code string) (Snapshot, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var snap Snapshot
	var state string
	err := s.db.QueryRow(
		`select code, updated_at, hands_played, state from rooms where code = $1`, code,
	).Scan(&snap.Code, &snap.UpdatedAt, &snap.HandsPlayed, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}
	snap.State = []byte(state)
	return snap, nil
}

func (s *Service) Delete(code string) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(`delete from rooms where code = $1`, code)
	return err
}
