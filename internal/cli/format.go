package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/progress"
	"github.com/julianstephens/askeza/internal/utils"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	barFull  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
)

const barWidth = 20

// ProgressBar renders done out of total as a fixed-width bar. A non-positive
// total renders an empty bar.
func ProgressBar(done, total int) string {
	filled := 0
	if total > 0 {
		if done > total {
			done = total
		}
		filled = done * barWidth / total
	}
	return barFull.Render(strings.Repeat("█", filled)) + barEmpty.Render(strings.Repeat("░", barWidth-filled))
}

// ProgressText is "12/30 days" for fixed askezas and an elapsed breakdown
// for lifetime ones.
func ProgressText(a models.Askeza, now time.Time) string {
	switch d := a.Duration.(type) {
	case models.Fixed:
		return fmt.Sprintf("%d/%d days", a.DisplayProgress(), d.TotalDays)
	case models.Lifetime:
		return fmt.Sprintf("day %d (%s)", a.DisplayProgress(), progress.LifetimeElapsed(a, now))
	default:
		panic(fmt.Sprintf("cli: unknown duration variant %T", a.Duration))
	}
}

// AskezaLine is the one-line summary used by list output.
func AskezaLine(a models.Askeza, now time.Time) string {
	bar := ProgressBar(a.DisplayProgress(), models.DurationDays(a.Duration))
	if models.IsLifetime(a.Duration) {
		bar = MutedStyle.Render("∞" + strings.Repeat(" ", barWidth-1))
	}
	line := fmt.Sprintf("%s  %s  %s  %s", MutedStyle.Render(ShortID(a.ID)), bar, TitleStyle.Render(a.Title), ProgressText(a, now))
	if a.IsCompleted && a.CompletedAt != nil {
		line += MutedStyle.Render("  completed " + humanize.RelTime(*a.CompletedAt, now, "ago", "from now"))
	}
	return line
}

// AskezaDetails is the multi-line view used by show.
func AskezaDetails(a models.Askeza, now time.Time, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", TitleStyle.Render(a.Title))
	fmt.Fprintf(&b, "  ID:        %s\n", a.ID)
	fmt.Fprintf(&b, "  Category:  %s\n", a.Category)
	fmt.Fprintf(&b, "  Duration:  %s\n", models.FormatDuration(a.Duration))
	fmt.Fprintf(&b, "  Started:   %s (%s)\n", utils.FormatDate(a.StartDate, loc), humanize.RelTime(a.StartDate, now, "ago", "from now"))
	fmt.Fprintf(&b, "  Progress:  %s %s\n", ProgressBar(a.DisplayProgress(), models.DurationDays(a.Duration)), ProgressText(a, now))
	if left, ok := progress.DaysRemaining(a); ok && !a.IsCompleted {
		fmt.Fprintf(&b, "  Remaining: %d days\n", left)
	}
	if a.Intention != "" {
		fmt.Fprintf(&b, "  Intention: %s\n", a.Intention)
	}
	if a.Wish != nil {
		status := "none"
		if a.WishStatus != nil {
			status = string(*a.WishStatus)
		}
		fmt.Fprintf(&b, "  Wish:      %s [%s]\n", *a.Wish, status)
	}
	if a.TemplateID != nil {
		fmt.Fprintf(&b, "  Template:  %s\n", *a.TemplateID)
	}
	if a.CompletedAt != nil {
		fmt.Fprintf(&b, "  Completed: %s\n", utils.FormatDate(*a.CompletedAt, loc))
	}
	return b.String()
}

// StatusBadge colours a template status.
func StatusBadge(s models.TemplateStatus) string {
	switch s {
	case models.StatusMastered:
		return TitleStyle.Render(string(s))
	case models.StatusCompleted:
		return SuccessStyle.Render(string(s))
	case models.StatusInProgress:
		return WarnStyle.Render(string(s))
	default:
		return MutedStyle.Render(string(s))
	}
}

// ShortID trims a uuid to its first block for compact listings.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
