package httpapi

import (
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/league"
	"github.com/courtcap/fantasy-nba/internal/domain/player"
	"github.com/courtcap/fantasy-nba/internal/domain/roster"
	"github.com/courtcap/fantasy-nba/internal/usecase"
)

type createTeamRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
}

type addPlayerRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Slot     string `json:"slot" validate:"required,oneof=PG SG SF PF C UTIL"`
}

type ingestGameRequest struct {
	GameID string `json:"game_id" validate:"required"`
}

type ingestDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type recalculateSalariesRequest struct {
	AsOf string `json:"as_of" validate:"omitempty,datetime=2006-01-02"`
}

type aggregateDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type leagueDTO struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	StartsAt time.Time `json:"starts_at"`
}

func leagueToDTO(l league.League) leagueDTO {
	return leagueDTO{
		ID:       l.ID,
		Name:     l.Name,
		Type:     string(l.Type),
		StartsAt: l.StartsAt,
	}
}

type teamDTO struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	LeagueID       string    `json:"league_id"`
	Name           string    `json:"name"`
	CapUsed        int64     `json:"cap_used"`
	RosterComplete bool      `json:"roster_complete"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func teamToDTO(t roster.FantasyTeam) teamDTO {
	return teamDTO{
		ID:             t.ID,
		OwnerID:        t.OwnerID,
		LeagueID:       t.LeagueID,
		Name:           t.Name,
		CapUsed:        t.CapUsed,
		RosterComplete: t.RosterComplete,
		Status:         string(t.Status()),
		CreatedAt:      t.CreatedAt,
	}
}

type playerDTO struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Position          string  `json:"position"`
	TeamCode          string  `json:"team_code"`
	IsActive          bool    `json:"is_active"`
	Salary            int64   `json:"salary"`
	AvgFantasyScore   float64 `json:"avg_fantasy_score"`
	GamesPlayedWindow int     `json:"games_played_window"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:                p.ID,
		Name:              p.Name,
		Position:          string(p.Position),
		TeamCode:          p.TeamCode,
		IsActive:          p.IsActive,
		Salary:            p.Salary,
		AvgFantasyScore:   p.AvgFantasyScore,
		GamesPlayedWindow: p.GamesPlayedWindow,
	}
}

type rosterSlotDTO struct {
	Slot                string     `json:"slot"`
	Player              *playerDTO `json:"player,omitempty"`
	SalaryAtAcquisition int64      `json:"salary_at_acquisition,omitempty"`
	AcquiredAt          *time.Time `json:"acquired_at,omitempty"`
}

type rosterViewDTO struct {
	TeamID             string          `json:"team_id"`
	TeamName           string          `json:"team_name"`
	Slots              []rosterSlotDTO `json:"slots"`
	CapUsed            int64           `json:"cap_used"`
	CapRemaining       int64           `json:"cap_remaining"`
	TransfersUsed      int             `json:"transfers_used"`
	TransfersRemaining int             `json:"transfers_remaining"`
	RosterComplete     bool            `json:"roster_complete"`
	Status             string          `json:"status"`
}

func rosterViewToDTO(view usecase.RosterView) rosterViewDTO {
	slots := make([]rosterSlotDTO, 0, len(view.Slots))
	for _, slot := range view.Slots {
		item := rosterSlotDTO{
			Slot:                string(slot.Slot),
			SalaryAtAcquisition: slot.SalaryAtAcquisition,
			AcquiredAt:          slot.AcquiredAt,
		}
		if slot.Player != nil {
			dto := playerToDTO(*slot.Player)
			item.Player = &dto
		}
		slots = append(slots, item)
	}

	return rosterViewDTO{
		TeamID:             view.TeamID,
		TeamName:           view.TeamName,
		Slots:              slots,
		CapUsed:            view.CapUsed,
		CapRemaining:       view.CapRemaining,
		TransfersUsed:      view.TransfersUsed,
		TransfersRemaining: view.TransfersRemaining,
		RosterComplete:     view.RosterComplete,
		Status:             string(view.Status),
	}
}

type availablePlayerDTO struct {
	playerDTO
	IsAffordable   bool       `json:"is_affordable"`
	HasCooldown    bool       `json:"has_cooldown"`
	CooldownEndsAt *time.Time `json:"cooldown_ends_at,omitempty"`
}

func availablePlayerToDTO(item usecase.AvailablePlayer) availablePlayerDTO {
	return availablePlayerDTO{
		playerDTO:      playerToDTO(item.Player),
		IsAffordable:   item.IsAffordable,
		HasCooldown:    item.HasCooldown,
		CooldownEndsAt: item.CooldownEndsAt,
	}
}

type transferDTO struct {
	ID           string    `json:"id"`
	PlayerID     string    `json:"player_id"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Slot         string    `json:"slot"`
	Salary       int64     `json:"salary"`
	Construction bool      `json:"construction"`
	ProcessedAt  time.Time `json:"processed_at"`
}

func transferToDTO(t roster.Transfer) transferDTO {
	return transferDTO{
		ID:           t.ID,
		PlayerID:     t.PlayerID,
		Type:         string(t.Type),
		Status:       string(t.Status),
		Slot:         string(t.Slot),
		Salary:       t.Salary,
		Construction: t.Construction,
		ProcessedAt:  t.ProcessedAt,
	}
}
