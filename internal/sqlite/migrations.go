package sqlite

func (s Storage) RunMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id VARCHAR NOT NULL PRIMARY KEY,
		auth TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id VARCHAR NOT NULL PRIMARY KEY,
		title VARCHAR NOT NULL,
		description TEXT NOT NULL DEFAULT "",
		location VARCHAR NOT NULL DEFAULT "",
		start_time VARCHAR NOT NULL,
		end_time VARCHAR NOT NULL,
		date VARCHAR NOT NULL,
		type VARCHAR NOT NULL,
		role VARCHAR NOT NULL,
		category VARCHAR NOT NULL,
		subcategory VARCHAR NOT NULL,
		source VARCHAR NOT NULL,
		synced_spreadsheet INTEGER NOT NULL DEFAULT 0,
		synced_document_db INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_date ON events (date)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key VARCHAR NOT NULL PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}
