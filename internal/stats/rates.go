package stats

import (
	"math"

	"github.com/gullyscore/cricket-scoring-service/internal/model"
)

// Rates are the derived per-player rate figures, rounded to two decimal
// places. Divisions by zero yield a defined zero (or, for batting
// average, the raw run count for a never-dismissed batsman).
type Rates struct {
	BattingAverage float64 `json:"batting_average"`
	StrikeRate     float64 `json:"strike_rate"`
	BowlingAverage float64 `json:"bowling_average"`
	EconomyRate    float64 `json:"economy_rate"`
}

// DeriveRates computes all rate figures from a stats snapshot.
func DeriveRates(s model.PlayerStats) Rates {
	return Rates{
		BattingAverage: BattingAverage(s),
		StrikeRate:     StrikeRate(s),
		BowlingAverage: BowlingAverage(s),
		EconomyRate:    EconomyRate(s),
	}
}

// BattingAverage is runs per dismissal; a never-dismissed batsman's
// average is their raw run count.
func BattingAverage(s model.PlayerStats) float64 {
	if s.TimesOut == 0 {
		return round2(float64(s.Runs))
	}
	return round2(float64(s.Runs) / float64(s.TimesOut))
}

// StrikeRate is runs per hundred balls faced.
func StrikeRate(s model.PlayerStats) float64 {
	if s.BallsFaced == 0 {
		return 0
	}
	return round2(float64(s.Runs) / float64(s.BallsFaced) * 100)
}

// BowlingAverage is runs conceded per wicket; zero without a wicket.
func BowlingAverage(s model.PlayerStats) float64 {
	if s.Wickets == 0 {
		return 0
	}
	return round2(float64(s.RunsConceded) / float64(s.Wickets))
}

// EconomyRate is runs conceded per six-ball over.
func EconomyRate(s model.PlayerStats) float64 {
	if s.BallsBowled == 0 {
		return 0
	}
	return round2(float64(s.RunsConceded) / float64(s.BallsBowled) * 6)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
