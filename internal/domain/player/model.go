package player

import "fmt"

// Position represents the five basketball positions used for roster eligibility.
type Position string

const (
	PositionPointGuard    Position = "PG"
	PositionShootingGuard Position = "SG"
	PositionSmallForward  Position = "SF"
	PositionPowerForward  Position = "PF"
	PositionCenter        Position = "C"
)

var AllPositions = map[Position]struct{}{
	PositionPointGuard:    {},
	PositionShootingGuard: {},
	PositionSmallForward:  {},
	PositionPowerForward:  {},
	PositionCenter:        {},
}

func ValidPosition(p Position) bool {
	_, ok := AllPositions[p]
	return ok
}

// Player is a rosterable NBA athlete in the fantasy pool.
type Player struct {
	ID         string
	ExternalID int64
	Name       string
	Position   Position
	TeamCode   string
	IsActive   bool
	// Salary is the current fantasy cost in currency minor units.
	Salary int64
	// AvgFantasyScore is the rolling mean over the last 15 scored games.
	AvgFantasyScore float64
	// GamesPlayedWindow counts scored games inside the trailing 20-day window.
	GamesPlayedWindow int
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.ExternalID <= 0 {
		return fmt.Errorf("player external id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Salary < 0 {
		return fmt.Errorf("player salary cannot be negative")
	}

	return nil
}
