package usecase

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/roster"
	"github.com/courtcap/fantasy-nba/internal/infrastructure/repository/memory"
)

type sequenceIDGenerator struct {
	prefix string
	next   int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("%s-%03d", g.prefix, g.next), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type rosterFixture struct {
	service   *RosterService
	teamRepo  *memory.TeamRepository
	entryRepo *memory.RosterEntryRepository
}

func newRosterFixture(t *testing.T) *rosterFixture {
	t.Helper()

	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues())
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	teamRepo := memory.NewTeamRepository(nil)
	entryRepo := memory.NewRosterEntryRepository(teamRepo)
	transferRepo := memory.NewTransferRepository()

	service := NewRosterService(
		leagueRepo,
		playerRepo,
		teamRepo,
		entryRepo,
		transferRepo,
		roster.DefaultRules(),
		&sequenceIDGenerator{prefix: "id"},
		discardLogger(),
	)

	return &rosterFixture{
		service:   service,
		teamRepo:  teamRepo,
		entryRepo: entryRepo,
	}
}

// fullRoster is a seed lineup that fits under the 60M cap (48.9M total).
var fullRoster = []struct {
	playerID string
	slot     roster.Slot
	salary   int64
}{
	{"pg-white", roster.SlotPointGuard, 8_400_000},
	{"sg-quickley", roster.SlotShootingGuard, 7_100_000},
	{"sf-bridges", roster.SlotSmallForward, 9_300_000},
	{"pf-kuminga", roster.SlotPowerForward, 6_800_000},
	{"c-duren", roster.SlotCenter, 7_500_000},
	{"pg-maxey", roster.SlotUtility, 9_800_000},
}

func TestRosterService_CreateTeam(t *testing.T) {
	fix := newRosterFixture(t)
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	fix.service.now = func() time.Time { return now }

	team, err := fix.service.CreateTeam(t.Context(), "user-1", memory.LeagueIDGlobal, "Bay Bombers")
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}
	if team.CapUsed != 0 || team.RosterComplete {
		t.Fatalf("expected empty construction team, got cap=%d complete=%v", team.CapUsed, team.RosterComplete)
	}
	if team.Status() != roster.StatusConstruction {
		t.Fatalf("expected CONSTRUCTION status, got %s", team.Status())
	}

	_, err = fix.service.CreateTeam(t.Context(), "user-1", memory.LeagueIDGlobal, "Second Team")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate team, got %v", err)
	}

	_, err = fix.service.CreateTeam(t.Context(), "user-2", "no-such-league", "Ghost Team")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing league, got %v", err)
	}
}

func TestRosterService_AddPlayer_Validations(t *testing.T) {
	fix := newRosterFixture(t)
	fix.service.now = func() time.Time { return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC) }

	team, err := fix.service.CreateTeam(t.Context(), "user-1", memory.LeagueIDGlobal, "Bay Bombers")
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	if _, err := fix.service.AddPlayer(t.Context(), "user-2", team.ID, "pg-curry", roster.SlotPointGuard); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, "no-such-player", roster.SlotPointGuard); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown player, got %v", err)
	}
	if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, "sf-george", roster.SlotSmallForward); !errors.Is(err, roster.ErrPlayerInactive) {
		t.Fatalf("expected ErrPlayerInactive, got %v", err)
	}
	if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, "c-jokic", roster.SlotPointGuard); !errors.Is(err, roster.ErrSlotMismatch) {
		t.Fatalf("expected ErrSlotMismatch for center at PG, got %v", err)
	}

	if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, "pg-curry", roster.SlotPointGuard); err != nil {
		t.Fatalf("add curry failed: %v", err)
	}
	if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, "pg-morant", roster.SlotPointGuard); !errors.Is(err, roster.ErrSlotOccupied) {
		t.Fatalf("expected ErrSlotOccupied, got %v", err)
	}
	if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, "pg-curry", roster.SlotUtility); !errors.Is(err, roster.ErrDuplicatePlayer) {
		t.Fatalf("expected ErrDuplicatePlayer, got %v", err)
	}
}

func TestRosterService_AddPlayer_CapExceeded(t *testing.T) {
	fix := newRosterFixture(t)
	fix.service.now = func() time.Time { return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC) }

	team, err := fix.service.CreateTeam(t.Context(), "user-1", memory.LeagueIDGlobal, "Cap Busters")
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	// Four stars at 16.5M + 15.3M + 15.8M + 17.6M = 65.2M, the fourth breaks 60M.
	expensive := []struct {
		playerID string
		slot     roster.Slot
	}{
		{"pg-curry", roster.SlotPointGuard},
		{"sg-edwards", roster.SlotShootingGuard},
		{"sf-tatum", roster.SlotSmallForward},
	}
	for _, pick := range expensive {
		if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, pick.playerID, pick.slot); err != nil {
			t.Fatalf("add %s failed: %v", pick.playerID, err)
		}
	}

	_, err = fix.service.AddPlayer(t.Context(), "user-1", team.ID, "pf-giannis", roster.SlotPowerForward)
	if !errors.Is(err, roster.ErrSalaryCapExceeded) {
		t.Fatalf("expected ErrSalaryCapExceeded, got %v", err)
	}

	current, _, err := fix.teamRepo.GetByID(t.Context(), team.ID)
	if err != nil {
		t.Fatalf("reload team: %v", err)
	}
	if want := int64(16_500_000 + 15_300_000 + 15_800_000); current.CapUsed != want {
		t.Fatalf("expected cap used %d after rejected add, got %d", want, current.CapUsed)
	}
}

func TestRosterService_OneWayActivationAndCapInvariant(t *testing.T) {
	fix := newRosterFixture(t)
	fix.service.now = func() time.Time { return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC) }

	team, err := fix.service.CreateTeam(t.Context(), "user-1", memory.LeagueIDGlobal, "Invariant FC")
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	for _, pick := range fullRoster {
		if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, pick.playerID, pick.slot); err != nil {
			t.Fatalf("add %s failed: %v", pick.playerID, err)
		}
	}

	view, err := fix.service.GetRoster(t.Context(), "user-1", team.ID)
	if err != nil {
		t.Fatalf("get roster failed: %v", err)
	}
	if !view.RosterComplete || view.Status != roster.StatusActive {
		t.Fatalf("expected active complete roster, got complete=%v status=%s", view.RosterComplete, view.Status)
	}

	entries, err := fix.entryRepo.ListByTeam(t.Context(), team.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	var sum int64
	for _, entry := range entries {
		sum += entry.SalaryAtAcquisition
	}
	if view.CapUsed != sum {
		t.Fatalf("cap used %d does not equal entry sum %d", view.CapUsed, sum)
	}

	transfer, err := fix.service.DropPlayer(t.Context(), "user-1", team.ID, "pg-maxey")
	if err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if transfer.Type != roster.TransferDrop {
		t.Fatalf("expected DROP transfer, got %s", transfer.Type)
	}

	view, err = fix.service.GetRoster(t.Context(), "user-1", team.ID)
	if err != nil {
		t.Fatalf("get roster after drop failed: %v", err)
	}
	if !view.RosterComplete {
		t.Fatal("roster completion must not reset after dropping down to five slots")
	}
	if view.CapUsed != sum-9_800_000 {
		t.Fatalf("expected cap %d after drop, got %d", sum-9_800_000, view.CapUsed)
	}
	if view.CapUsed < 0 {
		t.Fatalf("cap went negative: %d", view.CapUsed)
	}
}

func TestRosterService_DropRefundsFrozenSalaryNotCurrent(t *testing.T) {
	fix := newRosterFixture(t)
	fix.service.now = func() time.Time { return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC) }

	team, err := fix.service.CreateTeam(t.Context(), "user-1", memory.LeagueIDGlobal, "Frozen FC")
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}
	if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, "pg-curry", roster.SlotPointGuard); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// Salary rises after acquisition; the drop must refund the frozen value.
	if err := fix.service.playerRepo.UpdateSalary(t.Context(), "pg-curry", 17_900_000, 0, 0); err != nil {
		t.Fatalf("update salary: %v", err)
	}

	transfer, err := fix.service.DropPlayer(t.Context(), "user-1", team.ID, "pg-curry")
	if err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if transfer.Salary != 16_500_000 {
		t.Fatalf("expected frozen salary 16500000 in transfer, got %d", transfer.Salary)
	}

	current, _, err := fix.teamRepo.GetByID(t.Context(), team.ID)
	if err != nil {
		t.Fatalf("reload team: %v", err)
	}
	if current.CapUsed != 0 {
		t.Fatalf("expected cap 0 after refunding frozen salary, got %d", current.CapUsed)
	}
}

func TestRosterService_CooldownEnforcement(t *testing.T) {
	fix := newRosterFixture(t)
	dropTime := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	fix.service.now = func() time.Time { return dropTime }

	team, err := fix.service.CreateTeam(t.Context(), "user-1", memory.LeagueIDGlobal, "Cooldown FC")
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}
	if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, "pg-curry", roster.SlotPointGuard); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := fix.service.DropPlayer(t.Context(), "user-1", team.ID, "pg-curry"); err != nil {
		t.Fatalf("drop failed: %v", err)
	}

	fix.service.now = func() time.Time { return dropTime.AddDate(0, 0, 6) }
	if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, "pg-curry", roster.SlotPointGuard); !errors.Is(err, roster.ErrCooldownActive) {
		t.Fatalf("expected ErrCooldownActive at +6d, got %v", err)
	}

	fix.service.now = func() time.Time { return dropTime.AddDate(0, 0, 8) }
	if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, "pg-curry", roster.SlotPointGuard); err != nil {
		t.Fatalf("expected re-add to succeed at +8d, got %v", err)
	}
}

func TestRosterService_WeeklyTransferLimitExhausted(t *testing.T) {
	fix := newRosterFixture(t)
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	fix.service.now = func() time.Time { return now }

	team, err := fix.service.CreateTeam(t.Context(), "user-1", memory.LeagueIDGlobal, "Limit FC")
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}
	for _, pick := range fullRoster {
		if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, pick.playerID, pick.slot); err != nil {
			t.Fatalf("construction add %s failed: %v", pick.playerID, err)
		}
	}

	if _, err := fix.service.DropPlayer(t.Context(), "user-1", team.ID, "pg-maxey"); err != nil {
		t.Fatalf("first transfer failed: %v", err)
	}
	if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, "sg-booker", roster.SlotUtility); err != nil {
		t.Fatalf("second transfer failed: %v", err)
	}

	if _, err := fix.service.DropPlayer(t.Context(), "user-1", team.ID, "sg-booker"); !errors.Is(err, roster.ErrTransferLimit) {
		t.Fatalf("expected ErrTransferLimit on third transfer, got %v", err)
	}

	// Next Monday the window resets.
	fix.service.now = func() time.Time { return time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC) }
	if _, err := fix.service.DropPlayer(t.Context(), "user-1", team.ID, "sg-booker"); err != nil {
		t.Fatalf("transfer after window reset failed: %v", err)
	}
}

func TestRosterService_ClosedLeagueExclusivity(t *testing.T) {
	fix := newRosterFixture(t)
	fix.service.now = func() time.Time { return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC) }

	teamA, err := fix.service.CreateTeam(t.Context(), "user-1", memory.LeagueIDOfficeDraft, "Alpha")
	if err != nil {
		t.Fatalf("create team A failed: %v", err)
	}
	teamB, err := fix.service.CreateTeam(t.Context(), "user-2", memory.LeagueIDOfficeDraft, "Beta")
	if err != nil {
		t.Fatalf("create team B failed: %v", err)
	}

	if _, err := fix.service.AddPlayer(t.Context(), "user-1", teamA.ID, "c-jokic", roster.SlotCenter); err != nil {
		t.Fatalf("add to team A failed: %v", err)
	}
	if _, err := fix.service.AddPlayer(t.Context(), "user-2", teamB.ID, "c-jokic", roster.SlotCenter); !errors.Is(err, roster.ErrExclusivityConflict) {
		t.Fatalf("expected ErrExclusivityConflict in closed league, got %v", err)
	}

	// The same player is fine on two teams in the open league.
	openA, err := fix.service.CreateTeam(t.Context(), "user-1", memory.LeagueIDGlobal, "Open Alpha")
	if err != nil {
		t.Fatalf("create open team A failed: %v", err)
	}
	openB, err := fix.service.CreateTeam(t.Context(), "user-2", memory.LeagueIDGlobal, "Open Beta")
	if err != nil {
		t.Fatalf("create open team B failed: %v", err)
	}
	if _, err := fix.service.AddPlayer(t.Context(), "user-1", openA.ID, "c-embiid", roster.SlotCenter); err != nil {
		t.Fatalf("add to open team A failed: %v", err)
	}
	if _, err := fix.service.AddPlayer(t.Context(), "user-2", openB.ID, "c-embiid", roster.SlotCenter); err != nil {
		t.Fatalf("add to open team B failed: %v", err)
	}
}

func TestRosterService_ListAvailablePlayers(t *testing.T) {
	fix := newRosterFixture(t)
	fix.service.now = func() time.Time { return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC) }

	team, err := fix.service.CreateTeam(t.Context(), "user-1", memory.LeagueIDGlobal, "Scout FC")
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}
	if _, err := fix.service.AddPlayer(t.Context(), "user-1", team.ID, "pg-curry", roster.SlotPointGuard); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	available, err := fix.service.ListAvailablePlayers(t.Context(), "user-1", team.ID, AvailablePlayerFilter{})
	if err != nil {
		t.Fatalf("list available failed: %v", err)
	}
	for _, item := range available {
		if item.ID == "pg-curry" {
			t.Fatal("rostered player must not appear in availability listing")
		}
		if item.ID == "sf-george" {
			t.Fatal("inactive player must not appear in availability listing")
		}
	}

	// 60M - 16.5M leaves 43.5M; Jokic at 18M is affordable, but after filling
	// with stars he would not be. Check the flag against remaining budget.
	for _, item := range available {
		wantAffordable := item.Salary <= 60_000_000-16_500_000
		if item.IsAffordable != wantAffordable {
			t.Fatalf("player %s affordability flag wrong: got %v", item.ID, item.IsAffordable)
		}
	}
}
