package cache

import "database/sql"

// migration is one ordered, idempotent schema step.
type migration struct {
	name string
	sql  string
}

var migrations = []migration{
	{
		name: "001_schema_version",
		sql: `CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)`,
	},
	{
		name: "002_credentials",
		sql: `CREATE TABLE IF NOT EXISTS credentials (
			server_url   TEXT NOT NULL,
			user_id      TEXT NOT NULL,
			access_token TEXT NOT NULL,
			added_at     INTEGER NOT NULL,
			PRIMARY KEY (server_url, user_id)
		)`,
	},
	{
		name: "003_images",
		sql: `CREATE TABLE IF NOT EXISTS images (
			image_type TEXT NOT NULL,
			item_id    TEXT NOT NULL,
			tag        TEXT NOT NULL,
			data       BLOB NOT NULL,
			added_at   INTEGER NOT NULL,
			PRIMARY KEY (image_type, item_id, tag)
		)`,
	},
	{
		name: "004_images_added_at_index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_images_added_at ON images (added_at)`,
	},
	{
		name: "005_credentials_added_at_index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_credentials_added_at ON credentials (added_at)`,
	},
}

// migrate applies every migration not yet recorded in schema_version, in
// order, each inside its own transaction. Every step is idempotent
// (CREATE ... IF NOT EXISTS) so re-applying an already-applied migration
// is harmless — the recorded count is an optimization, not a correctness
// requirement.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(migrations[0].sql); err != nil {
		return err
	}

	var applied int
	row := db.QueryRow(`SELECT COUNT(*) FROM schema_version`)
	if err := row.Scan(&applied); err != nil {
		return err
	}

	for i := applied; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i].sql); err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
