package internal

import "time"

// ActivityType is the coarse classification of an event.
type ActivityType string

func (t ActivityType) String() string {
	return string(t)
}

var (
	TypeLecture    ActivityType = "lecture"
	TypeEvaluation ActivityType = "evaluation"
	TypeMentoring  ActivityType = "mentoring"
	TypeOther      ActivityType = "other"
)

// Role is derived from ActivityType and never set independently.
type Role string

func (r Role) String() string {
	return string(r)
}

var (
	RoleInstructor Role = "instructor"
	RoleJudge      Role = "judge"
	RoleMentor     Role = "mentor"
	RoleOther      Role = "other"
)

// Roles is the fixed bucket order used when dispatching to destinations.
var Roles = []Role{RoleInstructor, RoleJudge, RoleMentor, RoleOther}

var roleByType = map[ActivityType]Role{
	TypeLecture:    RoleInstructor,
	TypeEvaluation: RoleJudge,
	TypeMentoring:  RoleMentor,
	TypeOther:      RoleOther,
}

var categoryByType = map[ActivityType]string{
	TypeLecture:    "teaching",
	TypeEvaluation: "assessment",
	TypeMentoring:  "guidance",
	TypeOther:      "misc",
}

// RoleFor returns the role for an activity type, folding unknown
// types into RoleOther.
func RoleFor(t ActivityType) Role {
	if r, ok := roleByType[t]; ok {
		return r
	}
	return RoleOther
}

// CategoryFor returns the category for an activity type.
func CategoryFor(t ActivityType) string {
	if c, ok := categoryByType[t]; ok {
		return c
	}
	return categoryByType[TypeOther]
}

// Destination names, used as sync-ledger keys.
const (
	DestSpreadsheet = "spreadsheet"
	DestDocumentDB  = "document_db"
)

var DestinationNames = []string{DestSpreadsheet, DestDocumentDB}

// Event is the canonical, provider-agnostic record kept in the ledger.
// StartTime and EndTime are ISO-8601 strings and may be date-only for
// all-day events. Date is always the date part of StartTime.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	StartTime   string
	EndTime     string
	Date        string
	Type        ActivityType
	Role        Role
	Category    string
	Subcategory string
	Source      string
	Synced      map[string]bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (e *Event) SyncedTo(dest string) bool {
	return e.Synced[dest]
}

// MarkSynced records a confirmed delivery. The transition is one-way;
// there is no API to revert a destination to unsynced.
func (e *Event) MarkSynced(dest string, now time.Time) {
	if e.Synced == nil {
		e.Synced = make(map[string]bool, len(DestinationNames))
	}
	e.Synced[dest] = true
	e.UpdatedAt = now
}

func (e Event) String() string {
	return e.ID + " " + e.Title
}

// Settings holds destination resource handles that are created lazily
// and reused on later sync passes.
type Settings struct {
	// SpreadsheetIDs maps a role to the spreadsheet created for it.
	SpreadsheetIDs map[Role]string `json:"spreadsheet_ids"`
	// DocDBDatabaseID is the document database all pages are created in.
	DocDBDatabaseID string `json:"docdb_database_id"`
}

func NewSettings() *Settings {
	return &Settings{
		SpreadsheetIDs: make(map[Role]string),
	}
}
