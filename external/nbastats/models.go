package nbastats

import (
	"strings"
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/gamestats"
	"github.com/courtcap/fantasy-nba/internal/usecase"
)

type scoreboardEnvelope struct {
	Scoreboard struct {
		GameDate string `json:"gameDate"`
		Games    []struct {
			GameID string `json:"gameId"`
		} `json:"games"`
	} `json:"scoreboard"`
}

type boxScoreEnvelope struct {
	Game struct {
		GameID      string       `json:"gameId"`
		GameTimeUTC string       `json:"gameTimeUTC"`
		GameDate    string       `json:"gameDate"`
		HomeTeam    boxScoreTeam `json:"homeTeam"`
		AwayTeam    boxScoreTeam `json:"awayTeam"`
	} `json:"game"`
}

type boxScoreTeam struct {
	TeamTricode string           `json:"teamTricode"`
	Players     []boxScorePlayer `json:"players"`
}

// boxScorePlayer carries both feed generations: live rows use personId/name
// with a nested statistics object, historical rows use PLAYER_ID/PLAYER_NAME
// with stats inlined at the top level.
type boxScorePlayer struct {
	PersonID   int64          `json:"personId"`
	Name       string         `json:"name"`
	Statistics playerStatLine `json:"statistics"`

	PlayerID   int64  `json:"PLAYER_ID"`
	PlayerName string `json:"PLAYER_NAME"`
	playerStatLine
}

// playerStatLine holds one stat under either naming scheme; exactly one side
// is populated per row. Minutes stay raw strings because the live feed sends
// ISO-8601 durations.
type playerStatLine struct {
	Minutes             string `json:"minutes"`
	Points              *int   `json:"points"`
	ReboundsTotal       *int   `json:"reboundsTotal"`
	Assists             *int   `json:"assists"`
	Steals              *int   `json:"steals"`
	Blocks              *int   `json:"blocks"`
	Turnovers           *int   `json:"turnovers"`
	FoulsPersonal       *int   `json:"foulsPersonal"`
	FieldGoalsMade      *int   `json:"fieldGoalsMade"`
	FieldGoalsAttempted *int   `json:"fieldGoalsAttempted"`
	ThreePointersMade   *int   `json:"threePointersMade"`
	FreeThrowsMade      *int   `json:"freeThrowsMade"`
	FreeThrowsAttempted *int   `json:"freeThrowsAttempted"`

	MinutesLegacy *int `json:"MIN"`
	PTS           *int `json:"PTS"`
	REB           *int `json:"REB"`
	AST           *int `json:"AST"`
	STL           *int `json:"STL"`
	BLK           *int `json:"BLK"`
	TO            *int `json:"TO"`
	PF            *int `json:"PF"`
	FGM           *int `json:"FGM"`
	FGA           *int `json:"FGA"`
	FG3M          *int `json:"FG3M"`
	FTM           *int `json:"FTM"`
	FTA           *int `json:"FTA"`
}

type playersEnvelope struct {
	League struct {
		Standard []struct {
			PersonID    int64  `json:"personId"`
			FirstName   string `json:"firstName"`
			LastName    string `json:"lastName"`
			Name        string `json:"name"`
			Position    string `json:"pos"`
			TeamTricode string `json:"teamTricode"`
			IsActive    bool   `json:"isActive"`
		} `json:"standard"`
	} `json:"league"`
}

func mapPlayerLine(item boxScorePlayer, teamCode string, gameDate time.Time) (usecase.ExternalStatLine, bool) {
	externalID := item.PersonID
	if externalID <= 0 {
		externalID = item.PlayerID
	}
	if externalID <= 0 {
		return usecase.ExternalStatLine{}, false
	}

	name := strings.TrimSpace(item.Name)
	if name == "" {
		name = strings.TrimSpace(item.PlayerName)
	}

	stats := item.Statistics
	if isEmptyStatLine(stats) {
		stats = item.playerStatLine
	}

	minutes := parseMinutes(stats.Minutes)
	if minutes == 0 && stats.MinutesLegacy != nil {
		minutes = *stats.MinutesLegacy
	}

	return usecase.ExternalStatLine{
		PlayerExternalID: externalID,
		PlayerName:       name,
		TeamCode:         strings.ToUpper(strings.TrimSpace(teamCode)),
		GameDate:         gameDate,
		Stats: gamestats.CanonicalGameStats{
			Minutes:             minutes,
			Points:              coalesce(stats.Points, stats.PTS),
			TotalRebounds:       coalesce(stats.ReboundsTotal, stats.REB),
			Assists:             coalesce(stats.Assists, stats.AST),
			Steals:              coalesce(stats.Steals, stats.STL),
			Blocks:              coalesce(stats.Blocks, stats.BLK),
			Turnovers:           coalesce(stats.Turnovers, stats.TO),
			PersonalFouls:       coalesce(stats.FoulsPersonal, stats.PF),
			FieldGoalsMade:      coalesce(stats.FieldGoalsMade, stats.FGM),
			FieldGoalsAttempted: coalesce(stats.FieldGoalsAttempted, stats.FGA),
			ThreePointersMade:   coalesce(stats.ThreePointersMade, stats.FG3M),
			FreeThrowsMade:      coalesce(stats.FreeThrowsMade, stats.FTM),
			FreeThrowsAttempted: coalesce(stats.FreeThrowsAttempted, stats.FTA),
		},
	}, true
}

func isEmptyStatLine(line playerStatLine) bool {
	return line.Points == nil && line.ReboundsTotal == nil && line.Assists == nil &&
		line.FieldGoalsMade == nil && strings.TrimSpace(line.Minutes) == ""
}

// coalesce prefers the live-shape value, falls back to the historical one,
// and defaults missing fields to zero.
func coalesce(live, historical *int) int {
	if live != nil {
		return *live
	}
	if historical != nil {
		return *historical
	}
	return 0
}
