// Package cache is the embedded SQL store backing the credential and
// image caches: schema migrations, WAL journaling, corruption auto-heal
// on open, and periodic GC. Uses a pure-Go sqlite driver with a file DSN
// carrying _pragma params, a capped connection pool, and a Ping to
// verify connectivity before migrating.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jellytui/jellyfin-tui/internal/jferrors"
	"github.com/jellytui/jellyfin-tui/internal/spawn"
)

const (
	credsTTL  = 30 * 24 * time.Hour
	imagesTTL = 7 * 24 * time.Hour

	gcInterval  = time.Hour
	gcFirstTick = 30 * time.Second
)

// Store is the opened, migrated SQL cache. Its connection pool is capped
// at max 2 — small enough that the store stays internally pooled without
// contending with the rest of the process for file descriptors.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if necessary) the SQL cache file at path,
// retrying once with the file deleted if the first open or migration
// fails, so a corrupted cache file heals itself instead of wedging
// startup. sp spawns the two GC workers under the app's supervision
// tree; they stop when the pool's context is cancelled.
func Open(ctx context.Context, sp *spawn.Spawner, path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := openAndMigrate(path)
	if err != nil {
		log.Warn("cache: open failed, deleting and retrying once", "path", path, "err", err)
		_ = os.Remove(path)
		_ = os.Remove(path + "-wal")
		_ = os.Remove(path + "-shm")
		db, err = openAndMigrate(path)
		if err != nil {
			return nil, jferrors.New(jferrors.KindCacheOpen, "opening cache after retry", err)
		}
	}

	s := &Store{db: db, log: log}

	sp.Spawn(func(ctx context.Context, _ *spawn.Spawner) {
		s.runGC(ctx, "clean_creds", s.cleanCreds)
	}, "cache-gc-creds")
	sp.Spawn(func(ctx context.Context, _ *spawn.Spawner) {
		s.runGC(ctx, "clean_images", s.cleanImages)
	}, "cache-gc-images")

	return s, nil
}

func openAndMigrate(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return db, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// runGC drives one GC worker: first tick after gcFirstTick, then every
// gcInterval. Using a timer reset on each pass (rather than a ticker)
// means a slow pass delays the next one instead of queuing a backlog.
func (s *Store) runGC(ctx context.Context, name string, fn func(context.Context) (int64, error)) {
	timer := time.NewTimer(gcFirstTick)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if n, err := fn(ctx); err != nil {
				s.log.Warn("cache: gc pass failed", "worker", name, "err", err)
			} else if n > 0 {
				s.log.Debug("cache: gc pass removed rows", "worker", name, "rows", n)
			}
			timer.Reset(gcInterval)
		}
	}
}

func (s *Store) cleanCreds(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-credsTTL).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE added_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) cleanImages(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-imagesTTL).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE added_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ErrNotFound is returned by lookups that find no matching row.
var ErrNotFound = errors.New("cache: not found")
