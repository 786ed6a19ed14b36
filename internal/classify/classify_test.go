package classify

import (
	"os"
	"path/filepath"
	"testing"

	"actsync/internal"
)

func TestClassifyTypes(t *testing.T) {
	rs := Default()

	tests := []struct {
		name        string
		title       string
		description string
		wantType    internal.ActivityType
		wantRole    internal.Role
	}{
		{"lecture english", "Database Systems Lecture", "", internal.TypeLecture, internal.RoleInstructor},
		{"lecture indonesian", "Mengajar Basis Data", "", internal.TypeLecture, internal.RoleInstructor},
		{"evaluation english", "Final Project Assessment", "", internal.TypeEvaluation, internal.RoleJudge},
		{"evaluation indonesian", "Sidang Tugas Akhir", "", internal.TypeEvaluation, internal.RoleJudge},
		{"mentoring english", "Startup Mentoring Session", "", internal.TypeMentoring, internal.RoleMentor},
		{"mentoring indonesian", "Bimbingan Mahasiswa", "", internal.TypeMentoring, internal.RoleMentor},
		{"keyword in description", "Weekly slot", "konsultasi skripsi", internal.TypeMentoring, internal.RoleMentor},
		{"no match", "Lunch with team", "at the cafeteria", internal.TypeOther, internal.RoleOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rs.Classify(tt.title, tt.description)
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
			if got.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", got.Role, tt.wantRole)
			}
		})
	}
}

// An event matching both lecture and evaluation keywords must resolve
// to lecture: rule order is the tie-break.
func TestClassifyPriorityOrder(t *testing.T) {
	rs := Default()

	got := rs.Classify("Guest Lecture and Paper Review", "")
	if got.Type != internal.TypeLecture {
		t.Fatalf("Type = %q, want %q", got.Type, internal.TypeLecture)
	}
	if got.Subcategory != "guest-lecture" {
		t.Errorf("Subcategory = %q, want %q", got.Subcategory, "guest-lecture")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	rs := Default()

	first := rs.Classify("Seminar Nasional", "review panel")
	second := rs.Classify("Seminar Nasional", "review panel")
	if first != second {
		t.Errorf("two runs differ: %+v vs %+v", first, second)
	}
}

func TestClassifyRoleNeverContradicts(t *testing.T) {
	rs := Default()

	titles := []string{
		"Kuliah Pagi", "Judging Finals", "Mentoring 1:1", "Random note",
		"Guest Lecture and Paper Review", "Workshop Go", "Sidang Skripsi",
	}
	for _, title := range titles {
		got := rs.Classify(title, "")
		if got.Role != internal.RoleFor(got.Type) {
			t.Errorf("title %q: role %q does not match type %q", title, got.Role, got.Type)
		}
	}
}

func TestClassifySubcategories(t *testing.T) {
	rs := Default()

	tests := []struct {
		title   string
		wantSub string
	}{
		{"Workshop Golang untuk Kelas A", "workshop"},
		{"Seminar Hasil kuliah", "seminar"},
		{"Kuliah Tamu AI", "guest-lecture"},
		{"Kuliah Pemrograman", "regular-lecture"},
		{"Sidang Skripsi Budi", "thesis-defense"},
		{"Juri Lomba Robotik", "competition-judging"},
		{"Paper Review Session", "paper-review"},
		{"Ujian Akhir", "general-assessment"},
		{"Bimbingan Skripsi", "thesis-supervision"},
		{"Career Mentoring", "career-mentoring"},
		{"Konsultasi Mingguan", "general-mentoring"},
		{"Team lunch", "uncategorized"},
	}
	for _, tt := range tests {
		got := rs.Classify(tt.title, "")
		if got.Subcategory != tt.wantSub {
			t.Errorf("Classify(%q).Subcategory = %q, want %q", tt.title, got.Subcategory, tt.wantSub)
		}
	}
}

func TestLoadRulesetOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")

	data := `version: 2
rules:
  - type: evaluation
    keywords: ["jury duty"]
  - type: lecture
    keywords: ["lecture"]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	rs, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rs.Version != 2 {
		t.Errorf("Version = %d, want 2", rs.Version)
	}

	// Override flips the priority: evaluation now wins the tie.
	got := rs.Classify("Lecture during jury duty", "")
	if got.Type != internal.TypeEvaluation {
		t.Errorf("Type = %q, want %q", got.Type, internal.TypeEvaluation)
	}
	// Fallback subcategories come from the defaults when omitted.
	if got.Subcategory == "" {
		t.Error("Subcategory is empty, want default fallback")
	}
}

func TestLoadRulesetMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("Load() of a missing file returned nil error")
	}
}
