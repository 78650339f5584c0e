package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Category string

const (
	CategoryBody       Category = "body"
	CategoryMind       Category = "mind"
	CategorySpirit     Category = "spirit"
	CategoryEmotions   Category = "emotions"
	CategoryAbstinence Category = "abstinence"
	CategoryHabits     Category = "habits"
	CategoryCustom     Category = "custom"
)

// Categories lists the closed set in display order.
var Categories = []Category{
	CategoryBody,
	CategoryMind,
	CategorySpirit,
	CategoryEmotions,
	CategoryAbstinence,
	CategoryHabits,
	CategoryCustom,
}

// ParseCategory maps a stored or user-supplied value onto the closed set.
// Unknown values fall back to CategoryCustom.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryCustom
}

// IsValidCategory reports whether s names a category exactly.
func IsValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

type WishStatus string

const (
	WishWaiting     WishStatus = "waiting"
	WishFulfilled   WishStatus = "fulfilled"
	WishUnfulfilled WishStatus = "unfulfilled"
)

// ParseWishStatus validates a wish status string.
func ParseWishStatus(s string) (WishStatus, error) {
	switch WishStatus(s) {
	case WishWaiting, WishFulfilled, WishUnfulfilled:
		return WishStatus(s), nil
	default:
		return "", fmt.Errorf("invalid wish status %q (expected waiting, fulfilled or unfulfilled)", s)
	}
}

// Askeza is a user's commitment to a practice.
type Askeza struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Intention   string      `json:"intention,omitempty"`
	StartDate   time.Time   `json:"start_date"`
	Duration    Duration    `json:"-"`
	Progress    int         `json:"progress"`
	IsCompleted bool        `json:"is_completed"`
	Category    Category    `json:"category"`
	Wish        *string     `json:"wish,omitempty"`
	WishStatus  *WishStatus `json:"wish_status,omitempty"`
	TemplateID  *string     `json:"template_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

type askezaAlias Askeza

type askezaJSON struct {
	askezaAlias
	Duration json.RawMessage `json:"duration"`
}

func (a Askeza) MarshalJSON() ([]byte, error) {
	d, err := marshalDuration(a.Duration)
	if err != nil {
		return nil, fmt.Errorf("askeza %s: %w", a.ID, err)
	}
	return json.Marshal(askezaJSON{askezaAlias: askezaAlias(a), Duration: d})
}

func (a *Askeza) UnmarshalJSON(data []byte) error {
	var raw askezaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Duration) == 0 {
		return fmt.Errorf("askeza %s: missing duration", raw.ID)
	}
	d, err := unmarshalDuration(raw.Duration)
	if err != nil {
		return fmt.Errorf("askeza %s: %w", raw.ID, err)
	}
	*a = Askeza(raw.askezaAlias)
	a.Duration = d
	a.Category = ParseCategory(string(a.Category))
	// A status without a wish is meaningless; drop it on load.
	if a.Wish == nil {
		a.WishStatus = nil
	}
	return nil
}

// HasWish reports whether a wish is attached.
func (a Askeza) HasWish() bool {
	return a.Wish != nil
}

// MarkWishWaiting sets the wish status to waiting when a wish exists and no
// status has been chosen yet.
func (a *Askeza) MarkWishWaiting() {
	if a.Wish == nil || a.WishStatus != nil {
		return
	}
	s := WishWaiting
	a.WishStatus = &s
}

// DisplayProgress clamps progress into [0, total] for Fixed durations.
func (a Askeza) DisplayProgress() int {
	p := a.Progress
	if p < 0 {
		p = 0
	}
	switch d := a.Duration.(type) {
	case Fixed:
		if p > d.TotalDays {
			return d.TotalDays
		}
		return p
	case Lifetime:
		return p
	default:
		panic(fmt.Sprintf("models: unknown duration variant %T", a.Duration))
	}
}
