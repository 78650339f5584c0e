package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	apperrors "github.com/julianstephens/askeza/internal/errors"
	"github.com/julianstephens/askeza/internal/models"
)

const progressColumns = `template_id, date_started, days_completed, times_completed, current_streak, best_streak, is_processing_completion, last_updated`

func scanProgress(row rowScanner) (models.TemplateProgress, error) {
	var p models.TemplateProgress
	var dateStarted, lastUpdated sql.NullTime

	err := row.Scan(&p.TemplateID, &dateStarted, &p.DaysCompleted, &p.TimesCompleted,
		&p.CurrentStreak, &p.BestStreak, &p.IsProcessingCompletion, &lastUpdated)
	if err != nil {
		return models.TemplateProgress{}, err
	}
	if dateStarted.Valid {
		t := dateStarted.Time
		p.DateStarted = &t
	}
	if lastUpdated.Valid {
		t := lastUpdated.Time
		p.LastUpdated = &t
	}
	return p, nil
}

func (s *Store) GetProgress(templateID string) (models.TemplateProgress, error) {
	p, err := scanProgress(s.db.QueryRow(`SELECT `+progressColumns+` FROM template_progress WHERE template_id = $1`, templateID))
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
	var dateStarted, lastUpdated sql.NullTime
	if p.DateStarted != nil {
		dateStarted = sql.NullTime{Time: *p.DateStarted, Valid: true}
	}
	if p.LastUpdated != nil {
		lastUpdated = sql.NullTime{Time: *p.LastUpdated, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO template_progress (`+progressColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (template_id) DO UPDATE SET
			date_started = EXCLUDED.date_started,
			days_completed = EXCLUDED.days_completed,
			times_completed = EXCLUDED.times_completed,
			current_streak = EXCLUDED.current_streak,
			best_streak = EXCLUDED.best_streak,
			is_processing_completion = EXCLUDED.is_processing_completion,
			last_updated = EXCLUDED.last_updated`,
		p.TemplateID, dateStarted, p.DaysCompleted, p.TimesCompleted,
		p.CurrentStreak, p.BestStreak, p.IsProcessingCompletion, lastUpdated)
	return err
}

func (s *Store) GetProfile() (models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.QueryRow(`SELECT nickname, avatar_url, xp, achievements FROM profile WHERE id = 1`).
		Scan(&p.Nickname, &p.AvatarURL, &p.XP, pq.Array(&p.Achievements))
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, nil
	}
	return p, err
}

func (s *Store) SaveProfile(p models.UserProfile) error {
	achievements := p.Achievements
	if achievements == nil {
		achievements = []string{}
	}
	_, err := s.db.Exec(`
		INSERT INTO profile (id, nickname, avatar_url, xp, achievements)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			nickname = EXCLUDED.nickname,
			avatar_url = EXCLUDED.avatar_url,
			xp = EXCLUDED.xp,
			achievements = EXCLUDED.achievements`,
		p.Nickname, p.AvatarURL, p.XP, pq.Array(achievements))
	return err
}
