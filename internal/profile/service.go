package profile

import (
	"fmt"

	"github.com/julianstephens/askeza/internal/logger"
	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/storage"
)

// Service wraps the single user profile.
type Service struct {
	store storage.ProfileStore
}

func NewService(store storage.ProfileStore) *Service {
	return &Service{store: store}
}

func (s *Service) Get() (models.UserProfile, error) {
	return s.store.GetProfile()
}

// AwardXP adds n XP and returns the updated profile. Non-positive amounts are
// ignored so XP never decreases.
func (s *Service) AwardXP(n int, reason string) (models.UserProfile, error) {
	p, err := s.store.GetProfile()
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	if n <= 0 {
		return p, nil
	}

	before := p.Level()
	p.XP += n
	if err := s.store.SaveProfile(p); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	logger.Info("XP awarded", "xp", n, "reason", reason, "total", p.XP)
	if after := p.Level(); after > before {
		logger.Info("Level up", "level", after)
	}
	return p, nil
}

func (s *Service) Level() (int, error) {
	p, err := s.store.GetProfile()
	if err != nil {
		return 0, err
	}
	return p.Level(), nil
}

// GrantAchievement records id once. It returns true only the first time.
func (s *Service) GrantAchievement(id string) (bool, error) {
	p, err := s.store.GetProfile()
	if err != nil {
		return false, fmt.Errorf("failed to load profile: %w", err)
	}
	if p.HasAchievement(id) {
		return false, nil
	}
	p.Achievements = append(p.Achievements, id)
	if err := s.store.SaveProfile(p); err != nil {
		return false, fmt.Errorf("failed to save profile: %w", err)
	}
	logger.Info("Achievement granted", "achievement", id)
	return true, nil
}

func (s *Service) UpdateIdentity(nickname, avatarURL string) (models.UserProfile, error) {
	p, err := s.store.GetProfile()
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	p.Nickname = nickname
	p.AvatarURL = avatarURL
	if err := s.store.SaveProfile(p); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	return p, nil
}
