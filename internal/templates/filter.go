package templates

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/julianstephens/askeza/internal/models"
)

// Filter combines its set fields with AND. Nil or empty fields match everything.
type Filter struct {
	Category     *models.Category
	Difficulty   *int
	DurationDays *int
	SearchText   string
}

// Apply returns the matching templates in their original order.
func (f Filter) Apply(list []models.PracticeTemplate) []models.PracticeTemplate {
	needle := fold(strings.TrimSpace(f.SearchText))
	out := []models.PracticeTemplate{}
	for _, t := range list {
		if f.Category != nil && t.Category != *f.Category {
			continue
		}
		if f.Difficulty != nil && t.Difficulty != *f.Difficulty {
			continue
		}
		if f.DurationDays != nil && t.DurationDays != *f.DurationDays {
			continue
		}
		if needle != "" && !matchesText(t, needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesText(t models.PracticeTemplate, needle string) bool {
	for _, field := range []string{t.Title, t.Description, t.Intention} {
		if strings.Contains(fold(field), needle) {
			return true
		}
	}
	return false
}

// fold applies Unicode case folding so "ДУШ" matches "душ". A Caser keeps
// state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
