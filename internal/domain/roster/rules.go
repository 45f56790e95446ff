package roster

import (
	"errors"
	"time"
)

var (
	ErrSlotOccupied        = errors.New("roster slot already occupied")
	ErrSlotMismatch        = errors.New("player position not eligible for slot")
	ErrDuplicatePlayer     = errors.New("player already on roster")
	ErrSalaryCapExceeded   = errors.New("salary cap exceeded")
	ErrTransferLimit       = errors.New("weekly transfer limit reached")
	ErrCooldownActive      = errors.New("player is in re-acquisition cooldown")
	ErrExclusivityConflict = errors.New("player already rostered in this league")
	ErrPlayerNotOnRoster   = errors.New("player is not on this roster")
	ErrPlayerInactive      = errors.New("player is not active")
)

// Rules stores roster validation parameters. All values are sourced from
// configuration.
type Rules struct {
	SlotCount           int
	CapMax              int64
	MaxTransfersPerWeek int
	CooldownDays        int
}

func DefaultRules() Rules {
	return Rules{
		SlotCount:           6,
		CapMax:              60_000_000,
		MaxTransfersPerWeek: 2,
		CooldownDays:        7,
	}
}

// WeekStart returns the most recent Monday 00:00 UTC at or before now, the
// boundary the weekly transfer count resets on.
func WeekStart(now time.Time) time.Time {
	now = now.UTC()
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// CooldownEnd returns when a dropped player becomes re-addable again.
func (r Rules) CooldownEnd(droppedAt time.Time) time.Time {
	return droppedAt.Add(time.Duration(r.CooldownDays) * 24 * time.Hour)
}
