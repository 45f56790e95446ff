package scoring

import (
	"math"

	"github.com/courtcap/fantasy-nba/internal/domain/gamestats"
)

// Weights stores the per-stat multipliers and bonus thresholds of the fantasy
// score formula.
type Weights struct {
	Points        float64
	TotalRebounds float64
	Assists       float64
	Steals        float64
	Blocks        float64
	Turnovers     float64
	PersonalFouls float64

	// Efficiency bonus thresholds.
	EfficientFGMinAttempts int
	EfficientFGMinPct      float64
	EfficientFGBonus       float64
	ThreesMadeMin          int
	ThreesBonus            float64
	PerfectFTMinAttempts   int
	PerfectFTBonus         float64
	StocksMin              int
	StocksBonus            float64
	BigReboundsMin         int
	BigReboundsBonus       float64

	// Performance bonus tiers keyed by the number of statistical categories
	// (points, rebounds, assists, steals, blocks) reaching DoubleStatMin.
	DoubleStatMin     int
	DoubleDoubleBonus float64
	TripleDoubleBonus float64
	QuadDoubleBonus   float64
	BigPointsMin      int
	BigPointsBonus    float64

	HighTurnoverMin     int
	HighTurnoverPenalty float64
}

func DefaultWeights() Weights {
	return Weights{
		Points:        1.0,
		TotalRebounds: 1.2,
		Assists:       1.5,
		Steals:        3.0,
		Blocks:        3.0,
		Turnovers:     1.5,
		PersonalFouls: 0.5,

		EfficientFGMinAttempts: 10,
		EfficientFGMinPct:      0.60,
		EfficientFGBonus:       3,
		ThreesMadeMin:          3,
		ThreesBonus:            2,
		PerfectFTMinAttempts:   4,
		PerfectFTBonus:         1,
		StocksMin:              4,
		StocksBonus:            2,
		BigReboundsMin:         12,
		BigReboundsBonus:       2,

		DoubleStatMin:     10,
		DoubleDoubleBonus: 5,
		TripleDoubleBonus: 12,
		QuadDoubleBonus:   25,
		BigPointsMin:      30,
		BigPointsBonus:    3,

		HighTurnoverMin:     5,
		HighTurnoverPenalty: 2,
	}
}

// Breakdown itemizes how a fantasy score was assembled so users disputing a
// score can audit every contribution.
type Breakdown struct {
	Base        float64            `json:"base"`
	Efficiency  map[string]float64 `json:"efficiency"`
	Performance map[string]float64 `json:"performance"`
	Penalty     map[string]float64 `json:"penalty"`
	Final       float64            `json:"final"`
}

// Score computes the fantasy value of one box-score line. Pure and
// deterministic; negative results are valid for poor performances.
func Score(stats gamestats.CanonicalGameStats, w Weights) (float64, Breakdown) {
	base := float64(stats.Points)*w.Points +
		float64(stats.TotalRebounds)*w.TotalRebounds +
		float64(stats.Assists)*w.Assists +
		float64(stats.Steals)*w.Steals +
		float64(stats.Blocks)*w.Blocks -
		float64(stats.Turnovers)*w.Turnovers -
		float64(stats.PersonalFouls)*w.PersonalFouls

	breakdown := Breakdown{
		Base:        roundScore(base),
		Efficiency:  make(map[string]float64),
		Performance: make(map[string]float64),
		Penalty:     make(map[string]float64),
	}

	total := base

	if stats.FieldGoalsAttempted >= w.EfficientFGMinAttempts {
		fgPct := float64(stats.FieldGoalsMade) / float64(stats.FieldGoalsAttempted)
		if fgPct >= w.EfficientFGMinPct {
			breakdown.Efficiency["efficient_fg"] = w.EfficientFGBonus
			total += w.EfficientFGBonus
		}
	}
	if stats.ThreePointersMade >= w.ThreesMadeMin {
		breakdown.Efficiency["threes_made"] = w.ThreesBonus
		total += w.ThreesBonus
	}
	if stats.FreeThrowsAttempted >= w.PerfectFTMinAttempts && stats.FreeThrowsMade == stats.FreeThrowsAttempted {
		breakdown.Efficiency["perfect_ft"] = w.PerfectFTBonus
		total += w.PerfectFTBonus
	}
	if stats.Steals+stats.Blocks >= w.StocksMin {
		breakdown.Efficiency["stocks"] = w.StocksBonus
		total += w.StocksBonus
	}
	if stats.TotalRebounds >= w.BigReboundsMin {
		breakdown.Efficiency["big_rebounds"] = w.BigReboundsBonus
		total += w.BigReboundsBonus
	}

	switch d := doubleStatCount(stats, w.DoubleStatMin); {
	case d >= 4:
		breakdown.Performance["quadruple_double"] = w.QuadDoubleBonus
		total += w.QuadDoubleBonus
	case d == 3:
		breakdown.Performance["triple_double"] = w.TripleDoubleBonus
		total += w.TripleDoubleBonus
	case d == 2:
		breakdown.Performance["double_double"] = w.DoubleDoubleBonus
		total += w.DoubleDoubleBonus
	}
	if stats.Points >= w.BigPointsMin {
		breakdown.Performance["big_points"] = w.BigPointsBonus
		total += w.BigPointsBonus
	}

	if stats.Turnovers >= w.HighTurnoverMin {
		breakdown.Penalty["high_turnovers"] = w.HighTurnoverPenalty
		total -= w.HighTurnoverPenalty
	}

	final := roundScore(total)
	breakdown.Final = final

	return final, breakdown
}

func doubleStatCount(stats gamestats.CanonicalGameStats, min int) int {
	count := 0
	for _, value := range []int{stats.Points, stats.TotalRebounds, stats.Assists, stats.Steals, stats.Blocks} {
		if value >= min {
			count++
		}
	}
	return count
}

// roundScore rounds to one decimal place, the precision scores are stored at.
func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
