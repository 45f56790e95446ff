package memory

import (
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/league"
	"github.com/courtcap/fantasy-nba/internal/domain/player"
)

const (
	LeagueIDGlobal      = "nba-global-2025"
	LeagueIDOfficeDraft = "office-draft-2025"
)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:        LeagueIDGlobal,
			Name:      "Global Open League",
			Type:      league.TypeOpen,
			StartsAt:  time.Date(2025, time.October, 21, 0, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        LeagueIDOfficeDraft,
			Name:      "Office Draft League",
			Type:      league.TypeClosed,
			StartsAt:  time.Date(2025, time.October, 21, 0, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC),
		},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "pg-curry", ExternalID: 201939, Name: "Stephen Curry", Position: player.PositionPointGuard, TeamCode: "GSW", IsActive: true, Salary: 16_500_000},
		{ID: "pg-haliburton", ExternalID: 1630169, Name: "Tyrese Haliburton", Position: player.PositionPointGuard, TeamCode: "IND", IsActive: true, Salary: 13_200_000},
		{ID: "pg-morant", ExternalID: 1629630, Name: "Ja Morant", Position: player.PositionPointGuard, TeamCode: "MEM", IsActive: true, Salary: 12_800_000},
		{ID: "sg-booker", ExternalID: 1626164, Name: "Devin Booker", Position: player.PositionShootingGuard, TeamCode: "PHX", IsActive: true, Salary: 14_100_000},
		{ID: "sg-mitchell", ExternalID: 1628378, Name: "Donovan Mitchell", Position: player.PositionShootingGuard, TeamCode: "CLE", IsActive: true, Salary: 13_900_000},
		{ID: "sg-edwards", ExternalID: 1630162, Name: "Anthony Edwards", Position: player.PositionShootingGuard, TeamCode: "MIN", IsActive: true, Salary: 15_300_000},
		{ID: "sf-tatum", ExternalID: 1628369, Name: "Jayson Tatum", Position: player.PositionSmallForward, TeamCode: "BOS", IsActive: true, Salary: 15_800_000},
		{ID: "sf-durant", ExternalID: 201142, Name: "Kevin Durant", Position: player.PositionSmallForward, TeamCode: "PHX", IsActive: true, Salary: 14_700_000},
		{ID: "sf-george", ExternalID: 202331, Name: "Paul George", Position: player.PositionSmallForward, TeamCode: "PHI", IsActive: false, Salary: 11_200_000},
		{ID: "pf-giannis", ExternalID: 203507, Name: "Giannis Antetokounmpo", Position: player.PositionPowerForward, TeamCode: "MIL", IsActive: true, Salary: 17_600_000},
		{ID: "pf-davis", ExternalID: 203076, Name: "Anthony Davis", Position: player.PositionPowerForward, TeamCode: "DAL", IsActive: true, Salary: 15_100_000},
		{ID: "pf-siakam", ExternalID: 1627783, Name: "Pascal Siakam", Position: player.PositionPowerForward, TeamCode: "IND", IsActive: true, Salary: 11_900_000},
		{ID: "c-jokic", ExternalID: 203999, Name: "Nikola Jokic", Position: player.PositionCenter, TeamCode: "DEN", IsActive: true, Salary: 18_000_000},
		{ID: "c-embiid", ExternalID: 203954, Name: "Joel Embiid", Position: player.PositionCenter, TeamCode: "PHI", IsActive: true, Salary: 16_200_000},
		{ID: "c-sabonis", ExternalID: 1627734, Name: "Domantas Sabonis", Position: player.PositionCenter, TeamCode: "SAC", IsActive: true, Salary: 12_400_000},
		{ID: "pg-white", ExternalID: 1628401, Name: "Derrick White", Position: player.PositionPointGuard, TeamCode: "BOS", IsActive: true, Salary: 8_400_000},
		{ID: "pg-maxey", ExternalID: 1630178, Name: "Tyrese Maxey", Position: player.PositionPointGuard, TeamCode: "PHI", IsActive: true, Salary: 9_800_000},
		{ID: "sg-quickley", ExternalID: 1630193, Name: "Immanuel Quickley", Position: player.PositionShootingGuard, TeamCode: "TOR", IsActive: true, Salary: 7_100_000},
		{ID: "sf-bridges", ExternalID: 1628969, Name: "Mikal Bridges", Position: player.PositionSmallForward, TeamCode: "NYK", IsActive: true, Salary: 9_300_000},
		{ID: "pf-kuminga", ExternalID: 1630228, Name: "Jonathan Kuminga", Position: player.PositionPowerForward, TeamCode: "GSW", IsActive: true, Salary: 6_800_000},
		{ID: "c-duren", ExternalID: 1631105, Name: "Jalen Duren", Position: player.PositionCenter, TeamCode: "DET", IsActive: true, Salary: 7_500_000},
	}
}
