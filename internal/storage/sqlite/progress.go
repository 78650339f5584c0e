package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/askeza/internal/errors"
	"github.com/julianstephens/askeza/internal/models"
)

const progressColumns = `template_id, date_started, days_completed, times_completed, current_streak, best_streak, is_processing_completion, last_updated`

func parseNullTime(ns sql.NullString, field, id string) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, ns.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s for %s: %w", field, id, err)
	}
	return &t, nil
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339Nano), Valid: true}
}

func scanProgress(row rowScanner) (models.TemplateProgress, error) {
	var p models.TemplateProgress
	var dateStarted, lastUpdated sql.NullString
	var processing int

	err := row.Scan(&p.TemplateID, &dateStarted, &p.DaysCompleted, &p.TimesCompleted,
		&p.CurrentStreak, &p.BestStreak, &processing, &lastUpdated)
	if err != nil {
		return models.TemplateProgress{}, err
	}
	p.IsProcessingCompletion = processing != 0

	if p.DateStarted, err = parseNullTime(dateStarted, "date_started", p.TemplateID); err != nil {
		return models.TemplateProgress{}, err
	}
	if p.LastUpdated, err = parseNullTime(lastUpdated, "last_updated", p.TemplateID); err != nil {
		return models.TemplateProgress{}, err
	}
	return p, nil
}

func (s *Store) GetProgress(templateID string) (models.TemplateProgress, error) {
	p, err := scanProgress(s.db.QueryRow(`SELECT `+progressColumns+` FROM template_progress WHERE template_id = ?`, templateID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.TemplateProgress{}, fmt.Errorf("progress for template %q: %w", templateID, apperrors.ErrNotFound)
	}
	return p, err
}

func (s *Store) GetAllProgress() ([]models.TemplateProgress, error) {
	rows, err := s.db.Query(`SELECT ` + progressColumns + ` FROM template_progress ORDER BY template_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := []models.TemplateProgress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, p)
	}
	return all, rows.Err()
}

func (s *Store) UpsertProgress(p models.TemplateProgress) error {
	processing := 0
	if p.IsProcessingCompletion {
		processing = 1
	}

	_, err := s.db.Exec(`
		INSERT INTO template_progress (`+progressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(template_id) DO UPDATE SET
			date_started = excluded.date_started,
			days_completed = excluded.days_completed,
			times_completed = excluded.times_completed,
			current_streak = excluded.current_streak,
			best_streak = excluded.best_streak,
			is_processing_completion = excluded.is_processing_completion,
			last_updated = excluded.last_updated`,
		p.TemplateID, formatNullTime(p.DateStarted), p.DaysCompleted, p.TimesCompleted,
		p.CurrentStreak, p.BestStreak, processing, formatNullTime(p.LastUpdated))
	return err
}
