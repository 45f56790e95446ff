package league

import (
	"fmt"
	"time"
)

// Type partitions leagues by roster exclusivity and leaderboard window policy.
type Type string

const (
	// TypeOpen leagues let a player appear on unlimited rosters and rank teams
	// over a rolling trailing-7-day window.
	TypeOpen Type = "OPEN"
	// TypeClosed leagues give each NBA player to at most one roster and rank
	// teams since league start.
	TypeClosed Type = "CLOSED"
)

type League struct {
	ID        string
	Name      string
	Type      Type
	StartsAt  time.Time
	CreatedAt time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Type != TypeOpen && l.Type != TypeClosed {
		return fmt.Errorf("invalid league type: %s", l.Type)
	}
	if l.StartsAt.IsZero() {
		return fmt.Errorf("league start date is required")
	}

	return nil
}
