// Package tilecache persists built tile meshes in SQLite, keyed by the
// 64-bit position code. The height field is deterministic, so a cached mesh
// stays valid as long as the planet parameters that produced it do; a
// fingerprint row guards against reusing meshes from another world.
package tilecache

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/Faultbox/planetfall/internal/terrain"
)

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tiles (
	code       INTEGER PRIMARY KEY,
	depth      INTEGER NOT NULL,
	face       INTEGER NOT NULL,
	mesh       BLOB    NOT NULL,
	created_at TEXT    NOT NULL
);
`

// Cache is a terrain.MeshCache backed by a SQLite file. The terrain tick is
// single-threaded, so the cache keeps one connection and no locking.
type Cache struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open opens (or creates) the cache at path. fingerprint identifies the
// planet parameters (seed, radius, grid size); when it differs from the
// stored one, all cached tiles are dropped.
func Open(path, fingerprint string) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("empty cache path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	c := &Cache{db: db}
	if c.enc, err = zstd.NewWriter(nil); err != nil {
		db.Close()
		return nil, err
	}
	if c.dec, err = zstd.NewReader(nil); err != nil {
		db.Close()
		return nil, err
	}

	if err := c.checkFingerprint(fingerprint); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) checkFingerprint(fingerprint string) error {
	var stored string
	err := c.db.QueryRow(`SELECT value FROM meta WHERE key = 'fingerprint'`).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		// Fresh cache.
	case err != nil:
		return err
	case stored == fingerprint:
		return nil
	default:
		if _, err := c.db.Exec(`DELETE FROM tiles`); err != nil {
			return err
		}
	}
	_, err = c.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('fingerprint', ?)`, fingerprint)
	return err
}

// Load fills m from the cache and reports whether code was present.
func (c *Cache) Load(code uint64, m *terrain.Mesh) (bool, error) {
	var blob []byte
	err := c.db.QueryRow(`SELECT mesh FROM tiles WHERE code = ?`, int64(code)).Scan(&blob)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	raw, err := c.dec.DecodeAll(blob, nil)
	if err != nil {
		return false, fmt.Errorf("decompressing tile %d: %w", code, err)
	}
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(m); err != nil {
		return false, fmt.Errorf("decoding tile %d: %w", code, err)
	}
	return true, nil
}

// Store writes m under code, replacing any previous mesh.
func (c *Cache) Store(code uint64, m *terrain.Mesh) error {
	face, quadrants, err := terrain.DecodePosition(code)
	if err != nil {
		return err
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(m); err != nil {
		return fmt.Errorf("encoding tile %d: %w", code, err)
	}
	blob := c.enc.EncodeAll(raw.Bytes(), nil)

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO tiles (code, depth, face, mesh, created_at) VALUES (?, ?, ?, ?, ?)`,
		int64(code), 1+len(quadrants), int(face), blob,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Count returns how many tiles the cache holds.
func (c *Cache) Count() (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM tiles`).Scan(&n)
	return n, err
}

// Close releases the database and codec resources.
func (c *Cache) Close() error {
	if c.enc != nil {
		c.enc.Close()
	}
	if c.dec != nil {
		c.dec.Close()
	}
	return c.db.Close()
}
