package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ImageKey identifies an image variant by (image type, item id, tag).
// Defined here (not in internal/image) so the cache package has no
// dependency on the image pipeline's in-memory tier.
type ImageKey struct {
	Type   string
	ItemID string
	Tag    string
}

// SaveImage upserts the raw bytes for key, stamping added_at so the 7-day
// image TTL GC can find it later.
func (s *Store) SaveImage(ctx context.Context, key ImageKey, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (image_type, item_id, tag, data, added_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(image_type, item_id, tag) DO UPDATE SET
			data = excluded.data,
			added_at = excluded.added_at
	`, key.Type, key.ItemID, key.Tag, data, time.Now().Unix())
	return err
}

// LoadImage returns the cached bytes for key, or ErrNotFound if no row
// exists. Age is not checked: a row past its TTL is still returned until
// the next GC pass deletes it — GC owns eviction.
func (s *Store) LoadImage(ctx context.Context, key ImageKey) ([]byte, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT data FROM images WHERE image_type = ? AND item_id = ? AND tag = ?`,
		key.Type, key.ItemID, key.Tag)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// RemoveImage deletes a cached image row (used when a tag change
// invalidates the prior entry).
func (s *Store) RemoveImage(ctx context.Context, key ImageKey) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM images WHERE image_type = ? AND item_id = ? AND tag = ?`,
		key.Type, key.ItemID, key.Tag)
	return err
}
