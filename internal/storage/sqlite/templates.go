package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/askeza/internal/errors"
	"github.com/julianstephens/askeza/internal/models"
)

const templateColumns = `id, template_key, title, category, duration_days, quote, difficulty, description, intention, course_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (models.PracticeTemplate, error) {
	var t models.PracticeTemplate
	var category string
	var courseID sql.NullString

	err := row.Scan(&t.ID, &t.TemplateKey, &t.Title, &category, &t.DurationDays,
		&t.Quote, &t.Difficulty, &t.Description, &t.Intention, &courseID)
	if err != nil {
		return models.PracticeTemplate{}, err
	}
	t.Category = models.ParseCategory(category)
	if courseID.Valid {
		id := courseID.String
		t.CourseID = &id
	}
	return t, nil
}

func (s *Store) GetAllTemplates() ([]models.PracticeTemplate, error) {
	rows, err := s.db.Query(`SELECT ` + templateColumns + ` FROM templates ORDER BY category, difficulty, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []models.PracticeTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (s *Store) GetTemplate(id string) (models.PracticeTemplate, error) {
	t, err := scanTemplate(s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.PracticeTemplate{}, fmt.Errorf("template %q: %w", id, apperrors.ErrNotFound)
	}
	return t, err
}

func (s *Store) GetTemplateByKey(key string) (models.PracticeTemplate, error) {
	t, err := scanTemplate(s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE template_key = ?`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return models.PracticeTemplate{}, fmt.Errorf("template key %q: %w", key, apperrors.ErrNotFound)
	}
	return t, err
}

func (s *Store) SaveTemplate(t models.PracticeTemplate) error {
	var courseID sql.NullString
	if t.CourseID != nil {
		courseID = sql.NullString{String: *t.CourseID, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			template_key = excluded.template_key,
			title = excluded.title,
			category = excluded.category,
			duration_days = excluded.duration_days,
			quote = excluded.quote,
			difficulty = excluded.difficulty,
			description = excluded.description,
			intention = excluded.intention,
			course_id = excluded.course_id`,
		t.ID, t.TemplateKey, t.Title, string(t.Category), t.DurationDays,
		t.Quote, t.Difficulty, t.Description, t.Intention, courseID)
	return err
}

func scanCourse(row rowScanner) (models.CoursePath, error) {
	var c models.CoursePath
	var keys, category string
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &keys, &c.Difficulty, &category); err != nil {
		return models.CoursePath{}, err
	}
	if err := json.Unmarshal([]byte(keys), &c.TemplateKeys); err != nil {
		return models.CoursePath{}, fmt.Errorf("failed to parse template keys for course %s: %w", c.ID, err)
	}
	c.Category = models.ParseCategory(category)
	return c, nil
}

func (s *Store) GetAllCourses() ([]models.CoursePath, error) {
	rows, err := s.db.Query(`SELECT id, title, description, template_keys, difficulty, category FROM courses ORDER BY difficulty, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []models.CoursePath{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (s *Store) GetCourse(id string) (models.CoursePath, error) {
	c, err := scanCourse(s.db.QueryRow(`SELECT id, title, description, template_keys, difficulty, category FROM courses WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CoursePath{}, fmt.Errorf("course %q: %w", id, apperrors.ErrNotFound)
	}
	return c, err
}

func (s *Store) SaveCourse(c models.CoursePath) error {
	keys := c.TemplateKeys
	if keys == nil {
		keys = []string{}
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to serialize template keys: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO courses (id, title, description, template_keys, difficulty, category)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			template_keys = excluded.template_keys,
			difficulty = excluded.difficulty,
			category = excluded.category`,
		c.ID, c.Title, c.Description, string(data), c.Difficulty, string(c.Category))
	return err
}
