package templates

import (
	"regexp"
	"strconv"

	"github.com/julianstephens/askeza/internal/logger"
	"github.com/julianstephens/askeza/internal/models"
)

var titleDaysPattern = regexp.MustCompile(`(?i)(\d+)\s*(дней|дня|день|days|day)`)

// TitleDays extracts a day count written in the title, if any.
func TitleDays(title string) (int, bool) {
	m := titleDaysPattern.FindStringSubmatch(title)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// CheckTitleDuration reports whether the title agrees with the duration.
// Lifetime templates always pass. A mismatch is only logged.
func CheckTitleDuration(t models.PracticeTemplate) bool {
	if t.DurationDays == 0 {
		return true
	}
	n, ok := TitleDays(t.Title)
	if !ok || n == t.DurationDays {
		return true
	}
	logger.Warn("Template title does not match its duration",
		"template_key", t.TemplateKey, "title_days", n, "duration_days", t.DurationDays)
	return false
}
