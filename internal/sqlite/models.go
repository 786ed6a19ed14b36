package sqlite

import (
	"time"

	"actsync/internal"
)

type Event struct {
	ID                string    `db:"id"`
	Title             string    `db:"title"`
	Description       string    `db:"description"`
	Location          string    `db:"location"`
	StartTime         string    `db:"start_time"`
	EndTime           string    `db:"end_time"`
	Date              string    `db:"date"`
	Type              string    `db:"type"`
	Role              string    `db:"role"`
	Category          string    `db:"category"`
	Subcategory       string    `db:"subcategory"`
	Source            string    `db:"source"`
	SyncedSpreadsheet bool      `db:"synced_spreadsheet"`
	SyncedDocumentDB  bool      `db:"synced_document_db"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (e Event) Convert() *internal.Event {
	return &internal.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Date:        e.Date,
		Type:        internal.ActivityType(e.Type),
		Role:        internal.Role(e.Role),
		Category:    e.Category,
		Subcategory: e.Subcategory,
		Source:      e.Source,
		Synced: map[string]bool{
			internal.DestSpreadsheet: e.SyncedSpreadsheet,
			internal.DestDocumentDB:  e.SyncedDocumentDB,
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func newEvent(e *internal.Event) Event {
	return Event{
		ID:                e.ID,
		Title:             e.Title,
		Description:       e.Description,
		Location:          e.Location,
		StartTime:         e.StartTime,
		EndTime:           e.EndTime,
		Date:              e.Date,
		Type:              e.Type.String(),
		Role:              e.Role.String(),
		Category:          e.Category,
		Subcategory:       e.Subcategory,
		Source:            e.Source,
		SyncedSpreadsheet: e.Synced[internal.DestSpreadsheet],
		SyncedDocumentDB:  e.Synced[internal.DestDocumentDB],
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}
