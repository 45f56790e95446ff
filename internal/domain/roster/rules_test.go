package roster

import (
	"testing"
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/player"
)

func TestEligible(t *testing.T) {
	cases := []struct {
		pos  player.Position
		slot Slot
		want bool
	}{
		{player.PositionPointGuard, SlotPointGuard, true},
		{player.PositionPointGuard, SlotShootingGuard, false},
		{player.PositionCenter, SlotCenter, true},
		{player.PositionCenter, SlotPowerForward, false},
		{player.PositionPointGuard, SlotUtility, true},
		{player.PositionShootingGuard, SlotUtility, true},
		{player.PositionSmallForward, SlotUtility, true},
		{player.PositionPowerForward, SlotUtility, true},
		{player.PositionCenter, SlotUtility, true},
	}

	for _, tc := range cases {
		if got := Eligible(tc.pos, tc.slot); got != tc.want {
			t.Fatalf("Eligible(%s, %s) = %v, want %v", tc.pos, tc.slot, got, tc.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	// Wednesday 2026-02-11 15:30 UTC -> Monday 2026-02-09 00:00 UTC.
	now := time.Date(2026, 2, 11, 15, 30, 0, 0, time.UTC)
	want := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	if got := WeekStart(now); !got.Equal(want) {
		t.Fatalf("WeekStart(%v) = %v, want %v", now, got, want)
	}

	// A Monday maps to itself at midnight.
	monday := time.Date(2026, 2, 9, 23, 59, 0, 0, time.UTC)
	if got := WeekStart(monday); !got.Equal(want) {
		t.Fatalf("WeekStart(%v) = %v, want %v", monday, got, want)
	}

	// Sunday still belongs to the preceding Monday's week.
	sunday := time.Date(2026, 2, 15, 1, 0, 0, 0, time.UTC)
	if got := WeekStart(sunday); !got.Equal(want) {
		t.Fatalf("WeekStart(%v) = %v, want %v", sunday, got, want)
	}
}

func TestStatusDerivation(t *testing.T) {
	team := FantasyTeam{}
	if team.Status() != StatusConstruction {
		t.Fatalf("expected CONSTRUCTION, got %s", team.Status())
	}
	team.RosterComplete = true
	if team.Status() != StatusActive {
		t.Fatalf("expected ACTIVE, got %s", team.Status())
	}
}

func TestCooldownEnd(t *testing.T) {
	rules := DefaultRules()
	droppedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	if got := rules.CooldownEnd(droppedAt); !got.Equal(want) {
		t.Fatalf("CooldownEnd = %v, want %v", got, want)
	}
}
