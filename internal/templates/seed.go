package templates

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	apperrors "github.com/julianstephens/askeza/internal/errors"
	"github.com/julianstephens/askeza/internal/logger"
	"github.com/julianstephens/askeza/internal/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the static seed content.
type Catalog struct {
	Templates []models.PracticeTemplate `yaml:"templates"`
	Courses   []models.CoursePath       `yaml:"courses"`
}

type SeedReport struct {
	Added          int
	Skipped        int
	CoursesAdded   int
	CoursesSkipped int
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// Seed inserts catalog entries that are not stored yet. Templates are matched
// by template key and courses by id; existing entries are counted as skipped
// and never overwritten, so seeding on every start is safe.
func (s *Service) Seed(c Catalog) (SeedReport, error) {
	var report SeedReport

	for _, t := range c.Templates {
		_, err := s.store.GetTemplateByKey(t.TemplateKey)
		if err == nil {
			report.Skipped++
			continue
		}
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return report, err
		}
		if _, err := s.Save(t); err != nil {
			return report, err
		}
		report.Added++
	}

	for _, course := range c.Courses {
		_, err := s.store.GetCourse(course.ID)
		if err == nil {
			report.CoursesSkipped++
			continue
		}
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return report, err
		}
		course.Category = models.ParseCategory(string(course.Category))
		if err := s.store.SaveCourse(course); err != nil {
			return report, fmt.Errorf("failed to save course %s: %w", course.ID, err)
		}
		report.CoursesAdded++
	}

	logger.Info("Catalog seeded",
		"added", report.Added, "skipped", report.Skipped,
		"courses_added", report.CoursesAdded, "courses_skipped", report.CoursesSkipped)
	return report, nil
}

// SeedDefault seeds the built-in catalog.
func (s *Service) SeedDefault() (SeedReport, error) {
	c, err := DefaultCatalog()
	if err != nil {
		return SeedReport{}, err
	}
	return s.Seed(c)
}
