package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"actsync/internal"
)

// Rule is one ordered keyword set. The first rule whose keywords match
// wins, so the slice order is the tie-break between types.
type Rule struct {
	Type     internal.ActivityType `yaml:"type"`
	Keywords []string              `yaml:"keywords"`
}

// SubRule refines a matched type into a subcategory. Subrules match
// against the title only.
type SubRule struct {
	Subcategory string   `yaml:"subcategory"`
	Keywords    []string `yaml:"keywords"`
}

// Ruleset is the full, versioned keyword configuration. The defaults
// carry both Indonesian and English terms; deployments can override
// them with a YAML file.
type Ruleset struct {
	Version  int                  `yaml:"version"`
	Rules    []Rule               `yaml:"rules"`
	SubRules map[string][]SubRule `yaml:"subrules"`
	Fallback map[string]string    `yaml:"fallback"`
}

// Default returns the built-in ruleset.
func Default() *Ruleset {
	return &Ruleset{
		Version: 1,
		Rules: []Rule{
			{
				Type: internal.TypeLecture,
				Keywords: []string{
					"kuliah", "mengajar", "perkuliahan", "kelas",
					"lecture", "teaching", "class",
				},
			},
			{
				Type: internal.TypeEvaluation,
				Keywords: []string{
					"penilaian", "menguji", "juri", "sidang", "ujian",
					"evaluation", "assessment", "review", "judging", "grading",
				},
			},
			{
				Type: internal.TypeMentoring,
				Keywords: []string{
					"bimbingan", "pendampingan", "konsultasi",
					"mentoring", "mentor", "coaching", "guidance",
				},
			},
		},
		SubRules: map[string][]SubRule{
			internal.TypeLecture.String(): {
				{Subcategory: "workshop", Keywords: []string{"workshop", "pelatihan"}},
				{Subcategory: "seminar", Keywords: []string{"seminar", "webinar"}},
				{Subcategory: "guest-lecture", Keywords: []string{"guest lecture", "kuliah tamu", "kuliah umum"}},
			},
			internal.TypeEvaluation.String(): {
				{Subcategory: "thesis-defense", Keywords: []string{"sidang", "skripsi", "thesis", "defense"}},
				{Subcategory: "competition-judging", Keywords: []string{"juri", "lomba", "competition"}},
				{Subcategory: "paper-review", Keywords: []string{"review", "paper"}},
			},
			internal.TypeMentoring.String(): {
				{Subcategory: "thesis-supervision", Keywords: []string{"bimbingan skripsi", "skripsi", "thesis"}},
				{Subcategory: "career-mentoring", Keywords: []string{"karir", "career"}},
			},
		},
		Fallback: map[string]string{
			internal.TypeLecture.String():    "regular-lecture",
			internal.TypeEvaluation.String(): "general-assessment",
			internal.TypeMentoring.String():  "general-mentoring",
			internal.TypeOther.String():      "uncategorized",
		},
	}
}

// Load reads a ruleset override from a YAML file. Missing fallback
// entries are filled from the defaults so a partial override cannot
// leave a type without a subcategory.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("classify: parsing ruleset %s: %w", path, err)
	}
	if len(rs.Rules) == 0 {
		return nil, fmt.Errorf("classify: ruleset %s has no rules", path)
	}

	def := Default()
	if rs.Fallback == nil {
		rs.Fallback = def.Fallback
	} else {
		for k, v := range def.Fallback {
			if _, ok := rs.Fallback[k]; !ok {
				rs.Fallback[k] = v
			}
		}
	}
	if rs.SubRules == nil {
		rs.SubRules = def.SubRules
	}
	return &rs, nil
}
