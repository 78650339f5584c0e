package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/askeza/internal/models"
)

func (s *Store) GetProfile() (models.UserProfile, error) {
	var p models.UserProfile
	var achievements string
	err := s.db.QueryRow(`SELECT nickname, avatar_url, xp, achievements FROM profile WHERE id = 1`).
		Scan(&p.Nickname, &p.AvatarURL, &p.XP, &achievements)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserProfile{}, nil
		}
		return models.UserProfile{}, err
	}
	if err := json.Unmarshal([]byte(achievements), &p.Achievements); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to parse achievements: %w", err)
	}
	return p, nil
}

func (s *Store) SaveProfile(p models.UserProfile) error {
	achievements := p.Achievements
	if achievements == nil {
		achievements = []string{}
	}
	data, err := json.Marshal(achievements)
	if err != nil {
		return fmt.Errorf("failed to serialize achievements: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO profile (id, nickname, avatar_url, xp, achievements)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			nickname = excluded.nickname,
			avatar_url = excluded.avatar_url,
			xp = excluded.xp,
			achievements = excluded.achievements`,
		p.Nickname, p.AvatarURL, p.XP, string(data))
	return err
}
