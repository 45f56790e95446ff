package salary

import "math"

// Params stores the tunables of the weekly salary formula. All values come
// from configuration; nothing here is hard-coded at call sites.
type Params struct {
	// Min and Max clamp the final salary, in currency minor units.
	Min int64
	Max int64
	// MinGames is the minimum scored games inside the window required before
	// a salary is recomputed at all.
	MinGames int
	// WindowDays is the availability reference window length.
	WindowDays int
	// HistoryGames caps how many recent scores feed the average.
	HistoryGames int
}

func DefaultParams() Params {
	return Params{
		Min:          2_000_000,
		Max:          18_000_000,
		MinGames:     5,
		WindowDays:   20,
		HistoryGames: 15,
	}
}

// Compute derives a player's new salary from their recent fantasy scores and
// availability. recentScores must already be limited to the most recent
// HistoryGames entries inside the window; gamesPlayed counts scored games in
// the trailing WindowDays. The second return value is false when there is not
// enough data, in which case the current salary must be left untouched.
func Compute(recentScores []float64, gamesPlayed int, p Params) (int64, bool) {
	if len(recentScores) < p.MinGames {
		return 0, false
	}

	avg := mean(recentScores)
	sd := sampleStdDev(recentScores, avg)

	baseSalary := (avg / 5) * 1_000_000

	consistencyFactor := 0.0
	if avg > 0 {
		consistencyFactor = math.Max(0, 1-sd/avg)
	}
	consistencyBonus := baseSalary * consistencyFactor * 0.15

	availabilityFactor := float64(gamesPlayed) / float64(p.WindowDays)

	final := (baseSalary + consistencyBonus) * availabilityFactor
	return clamp(int64(math.Round(final)), p.Min, p.Max), true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev returns the sample standard deviation, 0 for fewer than two
// samples.
func sampleStdDev(values []float64, avg float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - avg
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

func clamp(v, min, max int64) int64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
