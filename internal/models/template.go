package models

import "time"

// PracticeTemplate is a catalog entry an Askeza can be instantiated from.
type PracticeTemplate struct {
	ID           string   `json:"id" yaml:"id"`
	TemplateKey  string   `json:"template_key" yaml:"key"`
	Title        string   `json:"title" yaml:"title"`
	Category     Category `json:"category" yaml:"category"`
	DurationDays int      `json:"duration_days" yaml:"duration"` // 0 means lifetime
	Quote        string   `json:"quote,omitempty" yaml:"quote"`
	Difficulty   int      `json:"difficulty" yaml:"difficulty"`
	Description  string   `json:"description,omitempty" yaml:"description"`
	Intention    string   `json:"intention,omitempty" yaml:"intention"`
	CourseID     *string  `json:"course_id,omitempty" yaml:"course_id"`
}

// Duration converts the catalog's day count into a Duration.
func (t PracticeTemplate) Duration() Duration {
	return DurationFromDays(t.DurationDays)
}

// TemplateProgress holds cumulative stats for one template.
type TemplateProgress struct {
	TemplateID             string     `json:"template_id"`
	DateStarted            *time.Time `json:"date_started,omitempty"`
	DaysCompleted          int        `json:"days_completed"`
	TimesCompleted         int        `json:"times_completed"`
	CurrentStreak          int        `json:"current_streak"`
	BestStreak             int        `json:"best_streak"`
	IsProcessingCompletion bool       `json:"is_processing_completion"`
	LastUpdated            *time.Time `json:"last_updated,omitempty"`
}

type TemplateStatus string

const (
	StatusNotStarted TemplateStatus = "not_started"
	StatusInProgress TemplateStatus = "in_progress"
	StatusCompleted  TemplateStatus = "completed"
	StatusMastered   TemplateStatus = "mastered"
)

// CoursePath is an ordered chain of templates meant to be done in sequence.
type CoursePath struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description,omitempty" yaml:"description"`
	TemplateKeys []string `json:"template_keys" yaml:"templates"`
	Difficulty   int      `json:"difficulty" yaml:"difficulty"`
	Category     Category `json:"category" yaml:"category"`
}
