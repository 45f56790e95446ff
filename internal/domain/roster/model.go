package roster

import (
	"fmt"
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/player"
)

// Slot is one of the six fixed roster positions a team must fill.
type Slot string

const (
	SlotPointGuard    Slot = "PG"
	SlotShootingGuard Slot = "SG"
	SlotSmallForward  Slot = "SF"
	SlotPowerForward  Slot = "PF"
	SlotCenter        Slot = "C"
	SlotUtility       Slot = "UTIL"
)

var AllSlots = []Slot{
	SlotPointGuard,
	SlotShootingGuard,
	SlotSmallForward,
	SlotPowerForward,
	SlotCenter,
	SlotUtility,
}

func ValidSlot(s Slot) bool {
	for _, slot := range AllSlots {
		if slot == s {
			return true
		}
	}
	return false
}

// Eligible reports whether a player of the given position may occupy the
// given slot. The five named slots require an exact position match; the
// utility slot accepts any position.
func Eligible(pos player.Position, slot Slot) bool {
	if slot == SlotUtility {
		return true
	}
	return string(pos) == string(slot)
}

// Status is the roster lifecycle state derived from completeness.
type Status string

const (
	StatusConstruction Status = "CONSTRUCTION"
	StatusActive       Status = "ACTIVE"
)

// FantasyTeam is a user's team in one league. RosterComplete flips to true
// the instant the sixth slot is filled and never reverts, even if a slot is
// vacated afterwards.
type FantasyTeam struct {
	ID             string
	OwnerID        string
	LeagueID       string
	Name           string
	CapUsed        int64
	RosterComplete bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t FantasyTeam) Status() Status {
	if t.RosterComplete {
		return StatusActive
	}
	return StatusConstruction
}

func (t FantasyTeam) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.OwnerID == "" {
		return fmt.Errorf("team owner id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.CapUsed < 0 {
		return fmt.Errorf("team cap used cannot be negative")
	}

	return nil
}

// Entry binds a player to one slot on one team. SalaryAtAcquisition freezes
// the cost paid; later repricing never changes it.
type Entry struct {
	TeamID              string
	PlayerID            string
	Slot                Slot
	SalaryAtAcquisition int64
	AcquiredAt          time.Time
}

// TransferType distinguishes the two roster mutations.
type TransferType string

const (
	TransferAdd  TransferType = "ADD"
	TransferDrop TransferType = "DROP"
)

// TransferStatus mirrors the audit-trail states of the transfer ledger.
type TransferStatus string

const (
	TransferCompleted TransferStatus = "COMPLETED"
)

// Transfer is an immutable audit record of one add or drop. Rows created
// while the team was still under construction carry Construction=true and do
// not count toward the weekly limit.
type Transfer struct {
	ID           string
	TeamID       string
	PlayerID     string
	Type         TransferType
	Status       TransferStatus
	Slot         Slot
	Salary       int64
	Construction bool
	ProcessedAt  time.Time
}
