package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"actsync/internal"
)

const DriverName = "sqlite3"

const settingsKey = "settings"

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sql.DB) *Storage {
	s := &Storage{
		db: sqlx.NewDb(db, DriverName),
	}
	err := s.RunMigrations()
	if err != nil {
		panic(fmt.Sprintf("sqlite: running migrations: %v", err))
	}
	return s
}

func (s Storage) AddAccount(ctx context.Context, account *internal.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, auth) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET auth=?;
	`, account.ID(), account.Auth, account.Auth)
	return err
}

func (s Storage) AccountAuth(ctx context.Context, accountID string) (string, error) {
	var auth string
	err := s.db.GetContext(ctx, &auth, `
		SELECT auth FROM accounts WHERE id = ?
	`, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("account %q is not configured, run configure first", accountID)
	}
	return auth, err
}

// LoadEvents reads the full ledger. The reconciler and ingestor treat
// the collection as read-modify-write: load everything, mutate in
// memory, save everything back.
func (s Storage) LoadEvents(ctx context.Context) ([]*internal.Event, error) {
	var events []Event

	err := s.db.SelectContext(ctx, &events, `
		SELECT id, title, description, location, start_time, end_time, date,
			type, role, category, subcategory, source,
			synced_spreadsheet, synced_document_db, created_at, updated_at
		FROM events
		ORDER BY date, start_time
	`)
	if err != nil {
		return nil, err
	}

	res := make([]*internal.Event, len(events))
	for i, e := range events {
		res[i] = e.Convert()
	}
	return res, nil
}

// SaveEvents writes the full collection in one transaction so a failed
// write leaves the previously persisted state untouched.
func (s Storage) SaveEvents(ctx context.Context, events []*internal.Event) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO events (id, title, description, location, start_time, end_time, date,
				type, role, category, subcategory, source,
				synced_spreadsheet, synced_document_db, created_at, updated_at)
			VALUES (:id, :title, :description, :location, :start_time, :end_time, :date,
				:type, :role, :category, :subcategory, :source,
				:synced_spreadsheet, :synced_document_db, :created_at, :updated_at)
			ON CONFLICT(id) DO UPDATE SET
				title = :title,
				description = :description,
				location = :location,
				start_time = :start_time,
				end_time = :end_time,
				date = :date,
				type = :type,
				role = :role,
				category = :category,
				subcategory = :subcategory,
				source = :source,
				synced_spreadsheet = :synced_spreadsheet,
				synced_document_db = :synced_document_db,
				updated_at = :updated_at;
		`, newEvent(e))
		if err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// PruneBefore drops events dated strictly before the given day and
// returns how many were removed.
func (s Storage) PruneBefore(ctx context.Context, date internal.Date) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM events WHERE date < ?
	`, date.String())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s Storage) LoadSettings(ctx context.Context) (*internal.Settings, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `
		SELECT value FROM settings WHERE key = ?
	`, settingsKey)
	if errors.Is(err, sql.ErrNoRows) {
		return internal.NewSettings(), nil
	}
	if err != nil {
		return nil, err
	}

	settings := internal.NewSettings()
	if err := json.Unmarshal([]byte(value), settings); err != nil {
		return nil, fmt.Errorf("sqlite: decoding settings: %w", err)
	}
	if settings.SpreadsheetIDs == nil {
		settings.SpreadsheetIDs = make(map[internal.Role]string)
	}
	return settings, nil
}

func (s Storage) SaveSettings(ctx context.Context, settings *internal.Settings) error {
	value, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=?;
	`, settingsKey, string(value), string(value))
	return err
}
