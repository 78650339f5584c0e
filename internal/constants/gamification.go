package constants

const (
	// XPPerLevel is the amount of XP needed to advance one level.
	XPPerLevel = 100

	// MasteryTimesCompleted and MasteryDaysCompleted are the thresholds at which a
	// template counts as mastered, independent of the current run.
	MasteryTimesCompleted = 3
	MasteryDaysCompleted  = 90

	// MasteryXPMultiplier scales the completion award for a mastered template.
	MasteryXPMultiplier = 3

	// StaleAfterDays is how many idle days turn a partially progressed template into completed.
	StaleAfterDays = 3

	// CategoryAchievementThreshold is the number of completed templates within one
	// category that unlocks the category bonus.
	CategoryAchievementThreshold = 5
	CategoryAchievementXP        = 100
	CategoryAchievementPrefix    = "category_master:"

	// MinDifficulty and MaxDifficulty bound a template's difficulty rating.
	MinDifficulty = 1
	MaxDifficulty = 5
)
