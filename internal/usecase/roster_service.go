package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/league"
	"github.com/courtcap/fantasy-nba/internal/domain/player"
	"github.com/courtcap/fantasy-nba/internal/domain/roster"
	idgen "github.com/courtcap/fantasy-nba/internal/platform/id"
)

// RosterService owns every user-initiated roster mutation. Mutations on the
// same team are serialized through a per-team lock so two concurrent adds can
// never both pass the cap check.
type RosterService struct {
	leagueRepo   league.Repository
	playerRepo   player.Repository
	teamRepo     roster.TeamRepository
	entryRepo    roster.EntryRepository
	transferRepo roster.TransferRepository
	rules        roster.Rules
	idGen        idgen.Generator
	logger       *slog.Logger
	now          func() time.Time

	locksMu   sync.Mutex
	teamLocks map[string]*sync.Mutex
}

func NewRosterService(
	leagueRepo league.Repository,
	playerRepo player.Repository,
	teamRepo roster.TeamRepository,
	entryRepo roster.EntryRepository,
	transferRepo roster.TransferRepository,
	rules roster.Rules,
	idGen idgen.Generator,
	logger *slog.Logger,
) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RosterService{
		leagueRepo:   leagueRepo,
		playerRepo:   playerRepo,
		teamRepo:     teamRepo,
		entryRepo:    entryRepo,
		transferRepo: transferRepo,
		rules:        rules,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
		teamLocks:    make(map[string]*sync.Mutex),
	}
}

// CreateTeam registers an empty team (cap 0, under construction) for a user
// joining a league. One team per user per league.
func (s *RosterService) CreateTeam(ctx context.Context, ownerID, leagueID, name string) (roster.FantasyTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreateTeam")
	defer span.End()

	ownerID = strings.TrimSpace(ownerID)
	leagueID = strings.TrimSpace(leagueID)
	name = strings.TrimSpace(name)
	if ownerID == "" || leagueID == "" {
		return roster.FantasyTeam{}, fmt.Errorf("%w: owner_id and league_id are required", ErrInvalidInput)
	}
	if name == "" {
		return roster.FantasyTeam{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	if _, exists, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return roster.FantasyTeam{}, fmt.Errorf("get league by id: %w", err)
	} else if !exists {
		return roster.FantasyTeam{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	if _, exists, err := s.teamRepo.GetByOwnerAndLeague(ctx, ownerID, leagueID); err != nil {
		return roster.FantasyTeam{}, fmt.Errorf("get team by owner and league: %w", err)
	} else if exists {
		return roster.FantasyTeam{}, fmt.Errorf("%w: user already has a team in league=%s", ErrInvalidInput, leagueID)
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return roster.FantasyTeam{}, fmt.Errorf("generate team id: %w", err)
	}

	now := s.now().UTC()
	team := roster.FantasyTeam{
		ID:        teamID,
		OwnerID:   ownerID,
		LeagueID:  leagueID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := team.Validate(); err != nil {
		return roster.FantasyTeam{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return roster.FantasyTeam{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "fantasy team created",
		"team_id", team.ID,
		"owner_id", ownerID,
		"league_id", leagueID,
	)

	return team, nil
}

// AddPlayer validates and applies an acquisition. Checks run in a fixed
// order; the first failing check determines the returned error.
func (s *RosterService) AddPlayer(ctx context.Context, requesterID, teamID, playerID string, slot roster.Slot) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddPlayer")
	defer span.End()

	if err := validateMutationInput(requesterID, teamID, playerID); err != nil {
		return roster.Entry{}, err
	}
	if !roster.ValidSlot(slot) {
		return roster.Entry{}, fmt.Errorf("%w: invalid slot %q", ErrInvalidInput, slot)
	}

	unlock := s.lockTeam(teamID)
	defer unlock()

	team, err := s.ownedTeam(ctx, requesterID, teamID)
	if err != nil {
		return roster.Entry{}, err
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return roster.Entry{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	if !item.IsActive {
		return roster.Entry{}, fmt.Errorf("%w: player=%s", roster.ErrPlayerInactive, playerID)
	}

	entries, err := s.entryRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("list roster entries: %w", err)
	}
	for _, entry := range entries {
		if entry.Slot == slot {
			return roster.Entry{}, fmt.Errorf("%w: slot=%s player=%s", roster.ErrSlotOccupied, slot, entry.PlayerID)
		}
	}

	if !roster.Eligible(item.Position, slot) {
		return roster.Entry{}, fmt.Errorf("%w: position=%s slot=%s", roster.ErrSlotMismatch, item.Position, slot)
	}

	for _, entry := range entries {
		if entry.PlayerID == playerID {
			return roster.Entry{}, fmt.Errorf("%w: player=%s slot=%s", roster.ErrDuplicatePlayer, playerID, entry.Slot)
		}
	}

	if team.CapUsed+item.Salary > s.rules.CapMax {
		remaining := s.rules.CapMax - team.CapUsed
		return roster.Entry{}, fmt.Errorf("%w: salary=%d remaining_budget=%d", roster.ErrSalaryCapExceeded, item.Salary, remaining)
	}

	if err := s.checkLeagueExclusivity(ctx, team.LeagueID, playerID); err != nil {
		return roster.Entry{}, err
	}

	now := s.now().UTC()

	if lastDrop, dropped, err := s.transferRepo.LastDrop(ctx, teamID, playerID); err != nil {
		return roster.Entry{}, fmt.Errorf("get last drop: %w", err)
	} else if dropped {
		cooldownEnd := s.rules.CooldownEnd(lastDrop.ProcessedAt)
		if now.Before(cooldownEnd) {
			return roster.Entry{}, fmt.Errorf("%w: player=%s cooldown_ends=%s",
				roster.ErrCooldownActive, playerID, cooldownEnd.Format(time.RFC3339))
		}
	}

	wasActive := team.RosterComplete
	if wasActive {
		if err := s.checkWeeklyTransferBudget(ctx, teamID, now); err != nil {
			return roster.Entry{}, err
		}
	}

	entry := roster.Entry{
		TeamID:              teamID,
		PlayerID:            playerID,
		Slot:                slot,
		SalaryAtAcquisition: item.Salary,
		AcquiredAt:          now,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return roster.Entry{}, fmt.Errorf("create roster entry: %w", err)
	}

	team.CapUsed += item.Salary
	team.UpdatedAt = now
	if !team.RosterComplete && len(entries)+1 >= s.rules.SlotCount {
		// One-way transition: the team stays ACTIVE even if slots are later
		// vacated.
		team.RosterComplete = true
		s.logger.InfoContext(ctx, "roster complete, team activated", "team_id", teamID)
	}
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return roster.Entry{}, fmt.Errorf("update team cap: %w", err)
	}

	if err := s.recordTransfer(ctx, teamID, playerID, roster.TransferAdd, slot, item.Salary, !wasActive, now); err != nil {
		return roster.Entry{}, err
	}

	s.logger.InfoContext(ctx, "player added to roster",
		"team_id", teamID,
		"player_id", playerID,
		"slot", slot,
		"salary", item.Salary,
		"cap_used", team.CapUsed,
	)

	return entry, nil
}

// DropPlayer removes a player and refunds the frozen acquisition salary, not
// the current price.
func (s *RosterService) DropPlayer(ctx context.Context, requesterID, teamID, playerID string) (roster.Transfer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.DropPlayer")
	defer span.End()

	if err := validateMutationInput(requesterID, teamID, playerID); err != nil {
		return roster.Transfer{}, err
	}

	unlock := s.lockTeam(teamID)
	defer unlock()

	team, err := s.ownedTeam(ctx, requesterID, teamID)
	if err != nil {
		return roster.Transfer{}, err
	}

	entries, err := s.entryRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return roster.Transfer{}, fmt.Errorf("list roster entries: %w", err)
	}
	var dropped *roster.Entry
	for idx := range entries {
		if entries[idx].PlayerID == playerID {
			dropped = &entries[idx]
			break
		}
	}
	if dropped == nil {
		return roster.Transfer{}, fmt.Errorf("%w: player=%s team=%s", roster.ErrPlayerNotOnRoster, playerID, teamID)
	}

	now := s.now().UTC()
	if team.RosterComplete {
		if err := s.checkWeeklyTransferBudget(ctx, teamID, now); err != nil {
			return roster.Transfer{}, err
		}
	}

	if err := s.entryRepo.Delete(ctx, teamID, playerID); err != nil {
		return roster.Transfer{}, fmt.Errorf("delete roster entry: %w", err)
	}

	team.CapUsed -= dropped.SalaryAtAcquisition
	if team.CapUsed < 0 {
		// A negative cap means capUsed diverged from the entries, a logic
		// bug rather than a runtime condition.
		panic(fmt.Sprintf("cap used went negative for team %s: %d", teamID, team.CapUsed))
	}
	team.UpdatedAt = now
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return roster.Transfer{}, fmt.Errorf("update team cap: %w", err)
	}

	transferID, err := s.idGen.NewID()
	if err != nil {
		return roster.Transfer{}, fmt.Errorf("generate transfer id: %w", err)
	}
	transfer := roster.Transfer{
		ID:           transferID,
		TeamID:       teamID,
		PlayerID:     playerID,
		Type:         roster.TransferDrop,
		Status:       roster.TransferCompleted,
		Slot:         dropped.Slot,
		Salary:       dropped.SalaryAtAcquisition,
		Construction: !team.RosterComplete,
		ProcessedAt:  now,
	}
	if err := s.transferRepo.Create(ctx, transfer); err != nil {
		return roster.Transfer{}, fmt.Errorf("create drop transfer: %w", err)
	}

	s.logger.InfoContext(ctx, "player dropped from roster",
		"team_id", teamID,
		"player_id", playerID,
		"slot", dropped.Slot,
		"refunded_salary", dropped.SalaryAtAcquisition,
		"cooldown_ends", s.rules.CooldownEnd(now),
	)

	return transfer, nil
}

// RosterSlotView is one of the six slots, filled or empty.
type RosterSlotView struct {
	Slot                roster.Slot
	Player              *player.Player
	SalaryAtAcquisition int64
	AcquiredAt          *time.Time
}

type RosterView struct {
	TeamID             string
	TeamName           string
	Slots              []RosterSlotView
	CapUsed            int64
	CapRemaining       int64
	TransfersUsed      int
	TransfersRemaining int
	RosterComplete     bool
	Status             roster.Status
}

func (s *RosterService) GetRoster(ctx context.Context, requesterID, teamID string) (RosterView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetRoster")
	defer span.End()

	requesterID = strings.TrimSpace(requesterID)
	teamID = strings.TrimSpace(teamID)
	if requesterID == "" || teamID == "" {
		return RosterView{}, fmt.Errorf("%w: requester_id and team_id are required", ErrInvalidInput)
	}

	team, err := s.ownedTeam(ctx, requesterID, teamID)
	if err != nil {
		return RosterView{}, err
	}

	entries, err := s.entryRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return RosterView{}, fmt.Errorf("list roster entries: %w", err)
	}

	entryBySlot := make(map[roster.Slot]roster.Entry, len(entries))
	for _, entry := range entries {
		entryBySlot[entry.Slot] = entry
	}

	slots := make([]RosterSlotView, 0, len(roster.AllSlots))
	for _, slot := range roster.AllSlots {
		view := RosterSlotView{Slot: slot}
		if entry, filled := entryBySlot[slot]; filled {
			item, exists, err := s.playerRepo.GetByID(ctx, entry.PlayerID)
			if err != nil {
				return RosterView{}, fmt.Errorf("get rostered player %s: %w", entry.PlayerID, err)
			}
			if exists {
				view.Player = &item
			}
			view.SalaryAtAcquisition = entry.SalaryAtAcquisition
			acquiredAt := entry.AcquiredAt
			view.AcquiredAt = &acquiredAt
		}
		slots = append(slots, view)
	}

	used, remaining, err := s.transferBudget(ctx, team, s.now().UTC())
	if err != nil {
		return RosterView{}, err
	}

	return RosterView{
		TeamID:             team.ID,
		TeamName:           team.Name,
		Slots:              slots,
		CapUsed:            team.CapUsed,
		CapRemaining:       s.rules.CapMax - team.CapUsed,
		TransfersUsed:      used,
		TransfersRemaining: remaining,
		RosterComplete:     team.RosterComplete,
		Status:             team.Status(),
	}, nil
}

// TransfersRemaining exposes the weekly budget on its own for UI display.
func (s *RosterService) TransfersRemaining(ctx context.Context, requesterID, teamID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.TransfersRemaining")
	defer span.End()

	team, err := s.ownedTeam(ctx, strings.TrimSpace(requesterID), strings.TrimSpace(teamID))
	if err != nil {
		return 0, err
	}
	_, remaining, err := s.transferBudget(ctx, team, s.now().UTC())
	return remaining, err
}

// AvailablePlayerFilter narrows the availability listing.
type AvailablePlayerFilter struct {
	Position     *player.Position
	TeamCode     string
	MaxSalary    *int64
	NameContains string
}

type AvailablePlayer struct {
	player.Player
	IsAffordable   bool
	HasCooldown    bool
	CooldownEndsAt *time.Time
}

// ListAvailablePlayers returns active players not on this roster (and, in
// closed leagues, not on any roster in the league), flagged with
// affordability and cooldown state.
func (s *RosterService) ListAvailablePlayers(ctx context.Context, requesterID, teamID string, filter AvailablePlayerFilter) ([]AvailablePlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListAvailablePlayers")
	defer span.End()

	team, err := s.ownedTeam(ctx, strings.TrimSpace(requesterID), strings.TrimSpace(teamID))
	if err != nil {
		return nil, err
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, team.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, team.LeagueID)
	}

	excluded := make(map[string]struct{})
	if lg.Type == league.TypeClosed {
		leagueEntries, err := s.entryRepo.ListByLeague(ctx, team.LeagueID)
		if err != nil {
			return nil, fmt.Errorf("list league roster entries: %w", err)
		}
		for _, entry := range leagueEntries {
			excluded[entry.PlayerID] = struct{}{}
		}
	} else {
		ownEntries, err := s.entryRepo.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("list roster entries: %w", err)
		}
		for _, entry := range ownEntries {
			excluded[entry.PlayerID] = struct{}{}
		}
	}

	pool, err := s.playerRepo.List(ctx, player.ListFilter{
		Position:     filter.Position,
		TeamCode:     strings.TrimSpace(filter.TeamCode),
		MaxSalary:    filter.MaxSalary,
		NameContains: strings.TrimSpace(filter.NameContains),
		ActiveOnly:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	now := s.now().UTC()
	capRemaining := s.rules.CapMax - team.CapUsed

	out := make([]AvailablePlayer, 0, len(pool))
	for _, item := range pool {
		if _, rostered := excluded[item.ID]; rostered {
			continue
		}

		available := AvailablePlayer{
			Player:       item,
			IsAffordable: item.Salary <= capRemaining,
		}
		if lastDrop, dropped, err := s.transferRepo.LastDrop(ctx, teamID, item.ID); err != nil {
			return nil, fmt.Errorf("get last drop for %s: %w", item.ID, err)
		} else if dropped {
			cooldownEnd := s.rules.CooldownEnd(lastDrop.ProcessedAt)
			if now.Before(cooldownEnd) {
				available.HasCooldown = true
				available.CooldownEndsAt = &cooldownEnd
			}
		}
		out = append(out, available)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Salary != out[j].Salary {
			return out[i].Salary > out[j].Salary
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}

func (s *RosterService) ownedTeam(ctx context.Context, requesterID, teamID string) (roster.FantasyTeam, error) {
	team, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return roster.FantasyTeam{}, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return roster.FantasyTeam{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if team.OwnerID != requesterID {
		return roster.FantasyTeam{}, fmt.Errorf("%w: team=%s is not owned by requester", ErrForbidden, teamID)
	}
	return team, nil
}

func (s *RosterService) checkLeagueExclusivity(ctx context.Context, leagueID, playerID string) error {
	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if lg.Type != league.TypeClosed {
		return nil
	}

	entries, err := s.entryRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list league roster entries: %w", err)
	}
	for _, entry := range entries {
		if entry.PlayerID == playerID {
			return fmt.Errorf("%w: player=%s team=%s", roster.ErrExclusivityConflict, playerID, entry.TeamID)
		}
	}
	return nil
}

func (s *RosterService) checkWeeklyTransferBudget(ctx context.Context, teamID string, now time.Time) error {
	count, err := s.transferRepo.CountCompletedSince(ctx, teamID, roster.WeekStart(now))
	if err != nil {
		return fmt.Errorf("count weekly transfers: %w", err)
	}
	if count >= s.rules.MaxTransfersPerWeek {
		return fmt.Errorf("%w: used=%d max=%d", roster.ErrTransferLimit, count, s.rules.MaxTransfersPerWeek)
	}
	return nil
}

// transferBudget returns (used, remaining) for the current week. Teams under
// construction have no limit and report zero usage.
func (s *RosterService) transferBudget(ctx context.Context, team roster.FantasyTeam, now time.Time) (int, int, error) {
	if !team.RosterComplete {
		return 0, s.rules.MaxTransfersPerWeek, nil
	}
	used, err := s.transferRepo.CountCompletedSince(ctx, team.ID, roster.WeekStart(now))
	if err != nil {
		return 0, 0, fmt.Errorf("count weekly transfers: %w", err)
	}
	remaining := s.rules.MaxTransfersPerWeek - used
	if remaining < 0 {
		remaining = 0
	}
	return used, remaining, nil
}

func (s *RosterService) recordTransfer(ctx context.Context, teamID, playerID string, kind roster.TransferType, slot roster.Slot, salary int64, construction bool, now time.Time) error {
	transferID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate transfer id: %w", err)
	}
	transfer := roster.Transfer{
		ID:           transferID,
		TeamID:       teamID,
		PlayerID:     playerID,
		Type:         kind,
		Status:       roster.TransferCompleted,
		Slot:         slot,
		Salary:       salary,
		Construction: construction,
		ProcessedAt:  now,
	}
	if err := s.transferRepo.Create(ctx, transfer); err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

func (s *RosterService) lockTeam(teamID string) func() {
	s.locksMu.Lock()
	lock, exists := s.teamLocks[teamID]
	if !exists {
		lock = &sync.Mutex{}
		s.teamLocks[teamID] = lock
	}
	s.locksMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func validateMutationInput(requesterID, teamID, playerID string) error {
	if strings.TrimSpace(requesterID) == "" {
		return fmt.Errorf("%w: requester_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(teamID) == "" {
		return fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(playerID) == "" {
		return fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}
	return nil
}
