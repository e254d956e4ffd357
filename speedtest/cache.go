package speedtest

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/ztelliot/stest-cli/defs"
)

const defaultSnapshotPath = "~/.stest/servers.db"

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS servers (
	position   INTEGER PRIMARY KEY,
	id         INTEGER NOT NULL,
	url        TEXT NOT NULL,
	url2       TEXT NOT NULL,
	host       TEXT NOT NULL,
	name       TEXT NOT NULL,
	sponsor    TEXT NOT NULL,
	country    TEXT NOT NULL,
	cc         TEXT NOT NULL,
	lat        REAL NOT NULL,
	lon        REAL NOT NULL,
	fetched_at INTEGER NOT NULL
)`

// SnapshotStore keeps the last fetched server list in a sqlite database
type SnapshotStore struct {
	db *sql.DB
}

// DefaultSnapshotPath returns the cache location under the user's home directory
func DefaultSnapshotPath() (string, error) {
	return homedir.Expand(defaultSnapshotPath)
}

// OpenSnapshotStore opens (and creates if needed) the snapshot database at path
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve cache path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create cache directory for %s", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open cache %s", path)
	}
	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize cache schema")
	}
	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Save replaces the snapshot with servers, keeping their order
func (s *SnapshotStore) Save(ctx context.Context, servers []defs.Server) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin cache transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM servers"); err != nil {
		return errors.Wrap(err, "failed to clear cache")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO servers
		(position, id, url, url2, host, name, sponsor, country, cc, lat, lon, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare cache insert")
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for i, sv := range servers {
		if _, err := stmt.ExecContext(ctx, i, sv.ID, sv.URL, sv.AltURL, sv.Host, sv.Name, sv.Sponsor,
			sv.Country, sv.CountryCode, sv.Lat, sv.Lon, now); err != nil {
			return errors.Wrapf(err, "failed to cache server %d", sv.ID)
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit cache")
}

// Load returns the stored snapshot in its original order
func (s *SnapshotStore) Load(ctx context.Context) ([]defs.Server, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, url, url2, host, name, sponsor, country, cc, lat, lon
		FROM servers ORDER BY position`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query cache")
	}
	defer rows.Close()

	var servers []defs.Server
	for rows.Next() {
		var sv defs.Server
		if err := rows.Scan(&sv.ID, &sv.URL, &sv.AltURL, &sv.Host, &sv.Name, &sv.Sponsor,
			&sv.Country, &sv.CountryCode, &sv.Lat, &sv.Lon); err != nil {
			return nil, errors.Wrap(err, "failed to read cached server")
		}
		servers = append(servers, sv)
	}
	return servers, errors.Wrap(rows.Err(), "failed to read cache")
}

// Fetch makes the store usable as a CatalogFetcher
func (s *SnapshotStore) Fetch(ctx context.Context) ([]defs.Server, error) {
	servers, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(servers) == 0 {
		return nil, errors.Wrap(ErrNoUsableData, "server list cache is empty")
	}
	return servers, nil
}
