package models

import "github.com/julianstephens/askeza/internal/constants"

// UserProfile is the single profile of an installation.
type UserProfile struct {
	Nickname     string   `json:"nickname"`
	AvatarURL    string   `json:"avatar_url,omitempty"`
	XP           int      `json:"xp"`
	Achievements []string `json:"achievements,omitempty"`
}

// Level is derived from XP: max(1, xp/100 + 1).
func (p UserProfile) Level() int {
	return LevelForXP(p.XP)
}

func LevelForXP(xp int) int {
	level := xp/constants.XPPerLevel + 1
	if level < 1 {
		return 1
	}
	return level
}

// HasAchievement reports whether id was already granted.
func (p UserProfile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}
