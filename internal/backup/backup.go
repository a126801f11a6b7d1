// Package backup manages online catalog snapshots: consistent copies of
// the principal store file taken while the catalog stays open, with
// bounded retention.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	manualPrefix = "vidcat_manual_"
	autoPrefix   = "vidcat_auto_"
	snapshotExt  = ".db"

	// timestampLayout orders snapshot file names chronologically when
	// sorted lexically, which is what retention relies on.
	timestampLayout = "20060102_150405"

	// DefaultMaxSnapshots bounds retention when config supplies nothing.
	DefaultMaxSnapshots = 10
)

// Snapshotter is the store-side primitive: write a consistent copy of the
// catalog to path. The SQLite store implements it via VACUUM INTO.
type Snapshotter interface {
	SnapshotTo(ctx context.Context, path string) error
}

// Snapshot describes one retained backup file.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Auto      bool      `json:"auto"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager creates, lists, and prunes snapshots in a backup directory.
type Manager struct {
	snap   Snapshotter
	dir    string
	max    int
	logger *slog.Logger

	// now is injectable so tests control snapshot naming.
	now func() time.Time
}

// NewManager creates a backup manager writing into dir, retaining at most
// max snapshots (DefaultMaxSnapshots when max is not positive).
func NewManager(snap Snapshotter, dir string, max int, logger *slog.Logger) *Manager {
	if max <= 0 {
		max = DefaultMaxSnapshots
	}
	return &Manager{
		snap:   snap,
		dir:    dir,
		max:    max,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the time source used for snapshot naming.
func (m *Manager) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// CreateSnapshot takes an online snapshot. Manual and automatic snapshots
// share the retention budget but are distinguishable by name. Older
// snapshots beyond the retention limit are pruned after a successful write.
func (m *Manager) CreateSnapshot(ctx context.Context, auto bool) (*Snapshot, error) {
	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	prefix := manualPrefix
	if auto {
		prefix = autoPrefix
	}
	createdAt := m.now().UTC()
	name := prefix + createdAt.Format(timestampLayout) + snapshotExt
	path := filepath.Join(m.dir, name)

	if _, err := os.Stat(path); err == nil {
		// Same-second snapshot already exists; disambiguate.
		name = prefix + createdAt.Format(timestampLayout) + "_" + uuid.NewString()[:8] + snapshotExt
		path = filepath.Join(m.dir, name)
	}

	if err := m.snap.SnapshotTo(ctx, path); err != nil {
		// A partial file must not linger as a phantom backup.
		os.Remove(path)
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}

	snapshot := &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Path:      path,
		Auto:      auto,
		Size:      info.Size(),
		CreatedAt: createdAt,
	}

	m.logger.Info("snapshot created",
		"name", name,
		"auto", auto,
		"size", info.Size(),
	)

	if err := m.prune(); err != nil {
		m.logger.Warn("snapshot retention prune failed", "error", err)
	}

	return snapshot, nil
}

// List returns the retained snapshots, newest first.
func (m *Manager) List() ([]*Snapshot, error) {
	names, err := m.snapshotNames()
	if err != nil {
		return nil, err
	}
	// Names embed the timestamp, so lexical descending is newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	snapshots := make([]*Snapshot, 0, len(names))
	for _, name := range names {
		path := filepath.Join(m.dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		snapshots = append(snapshots, &Snapshot{
			Name:      name,
			Path:      path,
			Auto:      strings.HasPrefix(name, autoPrefix),
			Size:      info.Size(),
			CreatedAt: parseSnapshotTime(name),
		})
	}
	return snapshots, nil
}

// prune removes the oldest snapshots beyond the retention limit.
func (m *Manager) prune() error {
	names, err := m.snapshotNames()
	if err != nil {
		return err
	}
	if len(names) <= m.max {
		return nil
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-m.max] {
		if err := os.Remove(filepath.Join(m.dir, name)); err != nil {
			return fmt.Errorf("remove %s: %w", name, err)
		}
		m.logger.Info("snapshot pruned", "name", name)
	}
	return nil
}

func (m *Manager) snapshotNames() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		if !strings.HasPrefix(name, manualPrefix) && !strings.HasPrefix(name, autoPrefix) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// parseSnapshotTime extracts the embedded timestamp; zero time when the
// name doesn't parse (hand-renamed files).
func parseSnapshotTime(name string) time.Time {
	name = strings.TrimSuffix(name, snapshotExt)
	name = strings.TrimPrefix(name, manualPrefix)
	name = strings.TrimPrefix(name, autoPrefix)
	if len(name) > len(timestampLayout) {
		name = name[:len(timestampLayout)]
	}
	t, err := time.Parse(timestampLayout, name)
	if err != nil {
		return time.Time{}
	}
	return t
}
