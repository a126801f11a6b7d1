// Package sqlite provides the SQLite-backed catalog store. One principal
// store file plus its write-ahead journal, colocated in a caller-specified
// directory that is created on first use.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	domainerrors "github.com/vidcatapp/vidcat-core/internal/errors"
	"github.com/vidcatapp/vidcat-core/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const (
	dbFileName   = "catalog.db"
	lockFileName = "catalog.lock"

	defaultBusyTimeout = 5 * time.Second
	defaultBusyRetries = 3
)

// Store provides SQLite-backed persistence for the catalog.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	lockFile *os.File
	remover  store.FileRemover

	// writer holds a single token; mutations must take it so the catalog
	// honors the single-writer/multiple-reader discipline above whatever
	// the driver allows.
	writer      chan struct{}
	busyTimeout time.Duration
	busyRetries int
}

// Open creates (if needed) the catalog directory and opens the store in it.
// It acquires the instance lock, configures WAL journaling, and applies the
// schema. Schema failure is fatal: no partially-initialized store is returned.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}

	lockFile, err := acquireLock(filepath.Join(dir, lockFileName))
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		releaseLock(lockFile)
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A handful of reader connections; the writer token keeps writes single-file.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	// Configure pragmas. WAL is what lets readers proceed during a write.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			releaseLock(lockFile)
			return nil, wrapOpenErr(fmt.Errorf("exec pragma %q: %w", pragma, err))
		}
	}

	// Apply schema (idempotent).
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		releaseLock(lockFile)
		return nil, wrapOpenErr(fmt.Errorf("exec schema: %w", err))
	}

	s := &Store{
		db:          db,
		logger:      logger,
		lockFile:    lockFile,
		remover:     store.NewNoopFileRemover(),
		writer:      make(chan struct{}, 1),
		busyTimeout: defaultBusyTimeout,
		busyRetries: defaultBusyRetries,
	}
	s.writer <- struct{}{}

	return s, nil
}

// Close closes the database connection and releases the instance lock.
func (s *Store) Close() error {
	err := s.db.Close()
	releaseLock(s.lockFile)
	return err
}

// SnapshotTo writes a consistent point-in-time copy of the store to path
// using VACUUM INTO. Safe while readers and the writer are active; the
// snapshot carries no WAL and opens standalone.
func (s *Store) SnapshotTo(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return fmt.Errorf("vacuum into %s: %w", path, err)
	}
	return nil
}

// SetFileRemover sets the collaborator notified with stored paths when
// videos are deleted.
func (s *Store) SetFileRemover(r store.FileRemover) {
	if r == nil {
		r = store.NewNoopFileRemover()
	}
	s.remover = r
}

// SetBusyPolicy overrides how long a mutation waits for the writer slot and
// how many internal retries run before a Busy error surfaces.
func (s *Store) SetBusyPolicy(timeout time.Duration, retries int) {
	if timeout > 0 {
		s.busyTimeout = timeout
	}
	if retries > 0 {
		s.busyRetries = retries
	}
}

// acquireWriter takes the single writer token. It retries a bounded number
// of times, then fails with a Busy error rather than deadlocking; callers
// are expected to retry.
func (s *Store) acquireWriter() (release func(), err error) {
	wait := s.busyTimeout / time.Duration(s.busyRetries)
	if wait <= 0 {
		wait = s.busyTimeout
	}

	for attempt := 0; attempt < s.busyRetries; attempt++ {
		timer := time.NewTimer(wait)
		select {
		case <-s.writer:
			timer.Stop()
			return func() { s.writer <- struct{}{} }, nil
		case <-timer.C:
		}
	}

	return nil, domainerrors.Busy("writer slot unavailable, retry the operation")
}

// acquireLock opens the lock file and takes an exclusive advisory flock.
// A second process opening the same catalog directory fails here.
func acquireLock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) //#nosec G304 -- lock lives in caller-chosen catalog dir
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, domainerrors.Wrap(err, domainerrors.CodeBusy,
			"catalog directory is in use by another instance")
	}
	return f, nil
}

func releaseLock(f *os.File) {
	if f == nil {
		return
	}
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
	_ = f.Close()
}

// wrapOpenErr classifies startup failures: an unreadable store or journal
// is corruption the core cannot recover from.
func wrapOpenErr(err error) error {
	if isCorrupt(err) {
		return domainerrors.Wrap(err, domainerrors.CodeStorageCorrupt,
			"catalog store unreadable, rebuild or restore required")
	}
	return err
}

func isCorrupt(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "file is not a database") ||
		strings.Contains(msg, "database disk image is malformed")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isFKViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// formatTime formats a time.Time to RFC3339Nano for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a RFC3339Nano string back to time.Time.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// parseNullableTime parses an optional time string.
func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nullableString returns a sql.NullString from a *string.
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// stringPtr returns a *string from a sql.NullString.
func stringPtr(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}

// nullTimeString returns a sql.NullString from a *time.Time.
func nullTimeString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
