package models

import (
	"encoding/json"
	"fmt"
)

// Duration is either Fixed or Lifetime. The interface is sealed so that every
// consumer handles exactly these two variants.
type Duration interface {
	isDuration()
}

// Fixed is a commitment for a bounded number of days.
type Fixed struct {
	TotalDays int
}

// Lifetime is a commitment with no end day.
type Lifetime struct{}

func (Fixed) isDuration()    {}
func (Lifetime) isDuration() {}

const (
	durationKindFixed    = "fixed"
	durationKindLifetime = "lifetime"
)

type durationJSON struct {
	Kind string `json:"kind"`
	Days int    `json:"days,omitempty"`
}

// DurationFromDays converts the catalog's day count, where 0 means lifetime.
func DurationFromDays(days int) Duration {
	if days <= 0 {
		return Lifetime{}
	}
	return Fixed{TotalDays: days}
}

// DurationDays returns the fixed total, or 0 for Lifetime.
func DurationDays(d Duration) int {
	switch v := d.(type) {
	case Fixed:
		return v.TotalDays
	case Lifetime:
		return 0
	default:
		panic(fmt.Sprintf("models: unknown duration variant %T", d))
	}
}

// IsLifetime reports whether d has no end day.
func IsLifetime(d Duration) bool {
	switch d.(type) {
	case Fixed:
		return false
	case Lifetime:
		return true
	default:
		panic(fmt.Sprintf("models: unknown duration variant %T", d))
	}
}

// FormatDuration renders a duration for display.
func FormatDuration(d Duration) string {
	switch v := d.(type) {
	case Fixed:
		return fmt.Sprintf("%d days", v.TotalDays)
	case Lifetime:
		return "lifetime"
	default:
		panic(fmt.Sprintf("models: unknown duration variant %T", d))
	}
}

func marshalDuration(d Duration) ([]byte, error) {
	switch v := d.(type) {
	case Fixed:
		return json.Marshal(durationJSON{Kind: durationKindFixed, Days: v.TotalDays})
	case Lifetime:
		return json.Marshal(durationJSON{Kind: durationKindLifetime})
	case nil:
		return nil, fmt.Errorf("duration is not set")
	default:
		panic(fmt.Sprintf("models: unknown duration variant %T", d))
	}
}

// unmarshalDuration accepts the tagged object form and the legacy integer form
// (0 = lifetime, N = fixed).
func unmarshalDuration(data []byte) (Duration, error) {
	var days int
	if err := json.Unmarshal(data, &days); err == nil {
		return DurationFromDays(days), nil
	}

	var raw durationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid duration: %w", err)
	}
	switch raw.Kind {
	case durationKindLifetime:
		return Lifetime{}, nil
	case durationKindFixed:
		if raw.Days <= 0 {
			return nil, fmt.Errorf("invalid fixed duration: %d days", raw.Days)
		}
		return Fixed{TotalDays: raw.Days}, nil
	default:
		return nil, fmt.Errorf("unknown duration kind %q", raw.Kind)
	}
}
