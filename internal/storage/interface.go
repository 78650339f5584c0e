package storage

import "github.com/julianstephens/askeza/internal/models"

// KeyValueStore is the flat load/save contract used for whole-collection snapshots.
// LoadValue returns (nil, nil) when the key has never been written.
type KeyValueStore interface {
	LoadValue(key string) ([]byte, error)
	SaveValue(key string, value []byte) error
}

// TemplateStore persists catalog entries. Lookups of missing records return an
// error matching errors.ErrNotFound.
type TemplateStore interface {
	GetAllTemplates() ([]models.PracticeTemplate, error)
	GetTemplate(id string) (models.PracticeTemplate, error)
	GetTemplateByKey(key string) (models.PracticeTemplate, error)
	SaveTemplate(models.PracticeTemplate) error

	GetAllCourses() ([]models.CoursePath, error)
	GetCourse(id string) (models.CoursePath, error)
	SaveCourse(models.CoursePath) error
}

// ProgressStore persists per-template cumulative stats.
type ProgressStore interface {
	GetProgress(templateID string) (models.TemplateProgress, error)
	GetAllProgress() ([]models.TemplateProgress, error)
	UpsertProgress(models.TemplateProgress) error
}

// ProfileStore persists the single user profile.
type ProfileStore interface {
	GetProfile() (models.UserProfile, error)
	SaveProfile(models.UserProfile) error
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	KeyValueStore
	TemplateStore
	ProgressStore
	ProfileStore

	// Utils
	GetConfigPath() string
}
