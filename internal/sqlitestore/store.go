// Package sqlitestore persists world blocks in a SQLite database using
// modernc.org/sqlite (pure Go), so placements survive between runs.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/specialistvlad/voxelforge/internal/material"
	"github.com/specialistvlad/voxelforge/internal/world"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS blocks (
	x        INTEGER NOT NULL,
	y        INTEGER NOT NULL,
	z        INTEGER NOT NULL,
	material INTEGER NOT NULL,
	data     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (x, y, z)
) WITHOUT ROWID;
`

// Store implements world.World on top of a single SQLite table. Air is
// never stored: writing air deletes the row.
type Store struct {
	db      *sql.DB
	palette material.Lookup
}

// Open opens or creates the database at path and ensures the schema exists.
// palette may be nil to skip material validation.
func Open(ctx context.Context, path string, palette material.Lookup) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open world database %s: %w", path, err)
	}
	// A single connection serialises writers and keeps ":memory:" databases
	// shared between statements.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure world database %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create world schema in %s: %w", path, err)
	}
	return &Store{db: db, palette: palette}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Material returns the stored material, or air when the voxel has no row.
func (s *Store) Material(ctx context.Context, x, y, z int) (material.ID, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT material FROM blocks WHERE x = ? AND y = ? AND z = ?`, x, y, z,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return material.Air, nil
	}
	if err != nil {
		return 0, &world.AccessError{Op: "read", X: x, Y: y, Z: z, Err: err}
	}
	return material.ID(id), nil
}

// SetMaterial upserts the voxel, or deletes it when id is air.
func (s *Store) SetMaterial(ctx context.Context, x, y, z int, id material.ID, data int) error {
	if s.palette != nil {
		if _, ok := s.palette.Material(id); !ok {
			return &world.AccessError{Op: "write", X: x, Y: y, Z: z, Err: world.ErrUnknownMaterial}
		}
	}

	var err error
	if id == material.Air {
		_, err = s.db.ExecContext(ctx, `DELETE FROM blocks WHERE x = ? AND y = ? AND z = ?`, x, y, z)
	} else {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO blocks (x, y, z, material, data) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (x, y, z) DO UPDATE SET material = excluded.material, data = excluded.data`,
			x, y, z, int64(id), data,
		)
	}
	if err != nil {
		return &world.AccessError{Op: "write", X: x, Y: y, Z: z, Err: err}
	}
	return nil
}

// Block returns the stored block at p.
func (s *Store) Block(ctx context.Context, p world.Point) (world.Block, bool, error) {
	var id int64
	var b world.Block
	err := s.db.QueryRowContext(ctx,
		`SELECT material, data FROM blocks WHERE x = ? AND y = ? AND z = ?`, p.X, p.Y, p.Z,
	).Scan(&id, &b.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return world.Block{}, false, nil
	}
	if err != nil {
		return world.Block{}, false, err
	}
	b.Material = material.ID(id)
	return b, true, nil
}

// Count returns the number of stored (non-air) voxels.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blocks`).Scan(&n)
	return n, err
}
