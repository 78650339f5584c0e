// Package templates is the catalog service: template and course CRUD,
// filtering, the advisory title validator and idempotent seeding.
package templates

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/askeza/internal/constants"
	apperrors "github.com/julianstephens/askeza/internal/errors"
	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/storage"
)

type Service struct {
	store storage.TemplateStore
}

func NewService(store storage.TemplateStore) *Service {
	return &Service{store: store}
}

func (s *Service) FetchAll() ([]models.PracticeTemplate, error) {
	return s.store.GetAllTemplates()
}

func (s *Service) GetByID(id string) (models.PracticeTemplate, error) {
	return s.store.GetTemplate(id)
}

func (s *Service) GetByTemplateKey(key string) (models.PracticeTemplate, error) {
	return s.store.GetTemplateByKey(key)
}

// Resolve accepts either a template id or a template key.
func (s *Service) Resolve(ref string) (models.PracticeTemplate, error) {
	t, err := s.store.GetTemplate(ref)
	if err == nil {
		return t, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return models.PracticeTemplate{}, err
	}
	return s.store.GetTemplateByKey(ref)
}

// Save stores t, assigning an id when it has none. Title and duration
// mismatches are logged by the validator and never block the save.
func (s *Service) Save(t models.PracticeTemplate) (models.PracticeTemplate, error) {
	if t.TemplateKey == "" {
		return models.PracticeTemplate{}, fmt.Errorf("%w: template key is required", apperrors.ErrInvalidArgument)
	}
	if t.DurationDays < 0 {
		return models.PracticeTemplate{}, fmt.Errorf("%w: duration cannot be negative", apperrors.ErrInvalidArgument)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Category = models.ParseCategory(string(t.Category))
	t.Difficulty = clampDifficulty(t.Difficulty)

	CheckTitleDuration(t)

	if err := s.store.SaveTemplate(t); err != nil {
		return models.PracticeTemplate{}, fmt.Errorf("failed to save template %s: %w", t.TemplateKey, err)
	}
	return t, nil
}

// Filtered returns the templates matching every criterion set in f.
func (s *Service) Filtered(f Filter) ([]models.PracticeTemplate, error) {
	all, err := s.store.GetAllTemplates()
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

func (s *Service) Courses() ([]models.CoursePath, error) {
	return s.store.GetAllCourses()
}

func (s *Service) Course(id string) (models.CoursePath, error) {
	return s.store.GetCourse(id)
}

// CourseTemplates resolves the course's template keys in order. Keys that do
// not resolve are skipped.
func (s *Service) CourseTemplates(c models.CoursePath) ([]models.PracticeTemplate, error) {
	out := make([]models.PracticeTemplate, 0, len(c.TemplateKeys))
	for _, key := range c.TemplateKeys {
		t, err := s.store.GetTemplateByKey(key)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func clampDifficulty(d int) int {
	if d < constants.MinDifficulty {
		return constants.MinDifficulty
	}
	if d > constants.MaxDifficulty {
		return constants.MaxDifficulty
	}
	return d
}
