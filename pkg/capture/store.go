// Package capture records decoded sample reports into a sqlite database,
// grouped by capture session.
package capture

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultBatchSize is the number of samples buffered before a flush.
const DefaultBatchSize = 64

// ErrNoSession is returned by Record before StartSession.
var ErrNoSession = errors.New("no capture session")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	device     TEXT NOT NULL,
	started_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
	seq              INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id       TEXT NOT NULL REFERENCES sessions(id),
	timestamp        INTEGER NOT NULL,
	timestamp_digits INTEGER NOT NULL,
	value            INTEGER NOT NULL,
	received_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS samples_session ON samples(session_id, seq);
`

// Sample is one recorded sample report.
type Sample struct {
	Timestamp       uint32
	TimestampDigits int
	Value           uint16
	ReceivedAt      time.Time
}

// Session is a capture session.
type Session struct {
	ID        string
	Device    string
	StartedAt time.Time
}

// Store is a sqlite backed capture store.
type Store struct {
	BatchSize int

	db      *sql.DB
	lock    sync.Mutex
	session string
	buffer  []Sample
}

// Open opens or creates the capture database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_foreign_keys=1")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	glog.V(1).Infof("capture store %s opened", path)
	return &Store{BatchSize: DefaultBatchSize, db: db}, nil
}

// StartSession flushes pending samples and starts a new session for
// device. It returns the session ID.
func (s *Store) StartSession(device string, startedAt time.Time) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.flush(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := s.db.Exec("INSERT INTO sessions (id, device, started_at) VALUES (?, ?, ?)",
		id, device, startedAt.UnixNano()); err != nil {
		return "", err
	}
	s.session = id
	return id, nil
}

// Session returns the current session ID.
func (s *Store) Session() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.session
}

// Record buffers a sample for the current session.
func (s *Store) Record(sample Sample) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.session == "" {
		return ErrNoSession
	}
	s.buffer = append(s.buffer, sample)
	if len(s.buffer) >= s.BatchSize {
		return s.flush()
	}
	return nil
}

// Flush writes buffered samples.
func (s *Store) Flush() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.flush()
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	err := s.flush()
	if _, cerr := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); cerr != nil {
		glog.Warningf("wal checkpoint error: %v", cerr)
	}
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	return err
}

// Sessions lists sessions, oldest first.
func (s *Store) Sessions() ([]Session, error) {
	rows, err := s.db.Query("SELECT id, device, started_at FROM sessions ORDER BY started_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []Session
	for rows.Next() {
		var sess Session
		var startedAt int64
		if err := rows.Scan(&sess.ID, &sess.Device, &startedAt); err != nil {
			return nil, err
		}
		sess.StartedAt = time.Unix(0, startedAt)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Samples lists the flushed samples of a session in arrival order.
func (s *Store) Samples(session string) ([]Sample, error) {
	rows, err := s.db.Query(`SELECT timestamp, timestamp_digits, value, received_at
		FROM samples WHERE session_id = ? ORDER BY seq`, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var samples []Sample
	for rows.Next() {
		var sample Sample
		var ts, val uint32
		var receivedAt int64
		if err := rows.Scan(&ts, &sample.TimestampDigits, &val, &receivedAt); err != nil {
			return nil, err
		}
		sample.Timestamp, sample.Value, sample.ReceivedAt = ts, uint16(val), time.Unix(0, receivedAt)
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

func (s *Store) flush() error {
	if len(s.buffer) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO samples
		(session_id, timestamp, timestamp_digits, value, received_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, sample := range s.buffer {
		if _, err := stmt.Exec(s.session, int64(sample.Timestamp), sample.TimestampDigits,
			int64(sample.Value), sample.ReceivedAt.UnixNano()); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.buffer = s.buffer[:0]
	return nil
}
