package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateRetrievals, downCreateRetrievals)
}

func upCreateRetrievals(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE retrievals (
		id SERIAL PRIMARY KEY,
		batch_id VARCHAR NOT NULL,
		chat_id BIGINT NOT NULL DEFAULT 0,
		url TEXT NOT NULL DEFAULT '',
		shortcode VARCHAR NOT NULL DEFAULT '',
		status VARCHAR NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		media_count INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX idx_retrievals_batch_id ON retrievals (batch_id);
	CREATE INDEX idx_retrievals_chat_id ON retrievals (chat_id);
	CREATE INDEX idx_retrievals_created_at ON retrievals (created_at);
	`)
	return err
}

func downCreateRetrievals(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE retrievals;`)
	return err
}
