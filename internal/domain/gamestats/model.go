package gamestats

import "fmt"

// CanonicalGameStats is the normalized box-score line for one player in one
// game. The ingestor maps every provider payload shape into this struct;
// fields absent from the source feed stay zero.
type CanonicalGameStats struct {
	Minutes             int
	Points              int
	TotalRebounds       int
	Assists             int
	Steals              int
	Blocks              int
	Turnovers           int
	PersonalFouls       int
	FieldGoalsMade      int
	FieldGoalsAttempted int
	ThreePointersMade   int
	FreeThrowsMade      int
	FreeThrowsAttempted int
}

// Validate rejects stat lines no real box score can produce. Lines failing
// here are dropped by the ingestor, not silently corrected.
func (s CanonicalGameStats) Validate() error {
	counts := map[string]int{
		"minutes":               s.Minutes,
		"points":                s.Points,
		"total_rebounds":        s.TotalRebounds,
		"assists":               s.Assists,
		"steals":                s.Steals,
		"blocks":                s.Blocks,
		"turnovers":             s.Turnovers,
		"personal_fouls":        s.PersonalFouls,
		"field_goals_made":      s.FieldGoalsMade,
		"field_goals_attempted": s.FieldGoalsAttempted,
		"three_pointers_made":   s.ThreePointersMade,
		"free_throws_made":      s.FreeThrowsMade,
		"free_throws_attempted": s.FreeThrowsAttempted,
	}
	for name, v := range counts {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, v)
		}
	}
	if s.FieldGoalsMade > s.FieldGoalsAttempted {
		return fmt.Errorf("field goals made %d exceeds attempts %d", s.FieldGoalsMade, s.FieldGoalsAttempted)
	}
	if s.FreeThrowsMade > s.FreeThrowsAttempted {
		return fmt.Errorf("free throws made %d exceeds attempts %d", s.FreeThrowsMade, s.FreeThrowsAttempted)
	}
	if s.ThreePointersMade > s.FieldGoalsMade {
		return fmt.Errorf("three pointers made %d exceeds field goals made %d", s.ThreePointersMade, s.FieldGoalsMade)
	}
	return nil
}
