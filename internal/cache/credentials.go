package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SaveCredentials upserts the access token for (serverURL, userID),
// stamping added_at so the 30-day credential TTL GC can find it later.
func (s *Store) SaveCredentials(ctx context.Context, serverURL, userID, accessToken string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (server_url, user_id, access_token, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(server_url, user_id) DO UPDATE SET
			access_token = excluded.access_token,
			added_at = excluded.added_at
	`, serverURL, userID, accessToken, time.Now().Unix())
	return err
}

// LoadCredentials returns the persisted access token for (serverURL,
// userID), or ErrNotFound if none is cached.
func (s *Store) LoadCredentials(ctx context.Context, serverURL, userID string) (accessToken string, err error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT access_token FROM credentials WHERE server_url = ? AND user_id = ?`,
		serverURL, userID)
	if err := row.Scan(&accessToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return accessToken, nil
}

// DeleteCredentials removes a persisted token (used on logout).
func (s *Store) DeleteCredentials(ctx context.Context, serverURL, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM credentials WHERE server_url = ? AND user_id = ?`, serverURL, userID)
	return err
}
