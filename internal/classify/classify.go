// Package classify maps event text to an activity type, role, category
// and subcategory using ordered keyword rules. Matching is pure string
// work: no network, no storage, same input always gives the same output.
package classify

import (
	"strings"

	"actsync/internal"
)

type Classification struct {
	Type        internal.ActivityType
	Role        internal.Role
	Category    string
	Subcategory string
}

// Classify runs the ordered keyword rules over title plus description.
// The first matching rule wins; no rule matching falls back to the
// "other" type, which is a defined outcome and not an error.
func (rs *Ruleset) Classify(title, description string) Classification {
	text := strings.ToLower(title + " " + description)

	typ := internal.TypeOther
	for _, rule := range rs.Rules {
		if containsAny(text, rule.Keywords) {
			typ = rule.Type
			break
		}
	}

	return Classification{
		Type:        typ,
		Role:        internal.RoleFor(typ),
		Category:    internal.CategoryFor(typ),
		Subcategory: rs.subcategory(typ, title),
	}
}

// subcategory runs the type-scoped second pass against the title only.
func (rs *Ruleset) subcategory(typ internal.ActivityType, title string) string {
	lower := strings.ToLower(title)
	for _, sub := range rs.SubRules[typ.String()] {
		if containsAny(lower, sub.Keywords) {
			return sub.Subcategory
		}
	}
	if fb, ok := rs.Fallback[typ.String()]; ok {
		return fb
	}
	return rs.Fallback[internal.TypeOther.String()]
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
