// Package scheduler converts review outcomes into due dates with an
// exponential forgetting model: recall after t days is R(t) = exp(-t/S),
// where the stability S grows with the item's progress score.
package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

// Settings tunes the model.
type Settings struct {
	TargetRecall      float64
	MinIntervalDays   float64
	MaxIntervalDays   float64
	BaseStabilityDays float64
	GrowthPerProgress float64
	PassBoost         float64
	FailPenalty       float64
	// FailIntervalScale shortens the interval after a lapse.
	FailIntervalScale float64
}

// DefaultSettings returns the production defaults.
func DefaultSettings() Settings {
	return Settings{
		TargetRecall:      0.9,
		MinIntervalDays:   1,
		MaxIntervalDays:   3650,
		BaseStabilityDays: 1.2,
		GrowthPerProgress: 0.22,
		PassBoost:         1.0,
		FailPenalty:       1.5,
		FailIntervalScale: 0.25,
	}
}

// Validate checks that the settings describe a usable model.
func (s Settings) Validate() error {
	switch {
	case s.MinIntervalDays <= 0:
		return fmt.Errorf("min interval must be positive, got %v", s.MinIntervalDays)
	case s.MaxIntervalDays < s.MinIntervalDays:
		return fmt.Errorf("max interval %v is below min interval %v", s.MaxIntervalDays, s.MinIntervalDays)
	case s.BaseStabilityDays <= 0:
		return fmt.Errorf("base stability must be positive, got %v", s.BaseStabilityDays)
	case s.GrowthPerProgress < 0:
		return fmt.Errorf("growth per progress must be non-negative, got %v", s.GrowthPerProgress)
	case s.PassBoost < 0 || s.FailPenalty < 0:
		return fmt.Errorf("pass boost and fail penalty must be non-negative")
	case s.FailIntervalScale <= 0 || s.FailIntervalScale > 1:
		return fmt.Errorf("fail interval scale must be in (0, 1], got %v", s.FailIntervalScale)
	}
	return nil
}

// Result is the outcome of one scheduling step.
type Result struct {
	NextDueAt time.Time
	Progress  int
}

// NextReview schedules the next review of an item with the given progress.
//
// ReviewNone (a freshly added item) is due after the minimum interval with
// its progress unchanged. For pass and fail the progress is moved by the
// boost or penalty, the stability derived from it is turned into the
// interval at which recall drops to TargetRecall, and a fail shortens that
// interval by FailIntervalScale. The interval is always clamped to
// [MinIntervalDays, MaxIntervalDays].
func NextReview(progress int, outcome domain.ReviewOutcome, lastReviewedAt time.Time, s Settings) Result {
	if outcome != domain.ReviewPass && outcome != domain.ReviewFail {
		return Result{
			NextDueAt: addDays(lastReviewedAt, s.MinIntervalDays),
			Progress:  progress,
		}
	}

	pass := outcome == domain.ReviewPass
	delta := -s.FailPenalty
	if pass {
		delta = s.PassBoost
	}
	next := math.Round(math.Max(0, float64(progress)+delta))

	stability := math.Max(s.MinIntervalDays, s.BaseStabilityDays*math.Exp(s.GrowthPerProgress*next))
	interval := -stability * math.Log(clamp(s.TargetRecall, 0.01, 0.999))
	if !pass {
		interval *= s.FailIntervalScale
	}
	interval = clamp(interval, s.MinIntervalDays, s.MaxIntervalDays)

	return Result{
		NextDueAt: addDays(lastReviewedAt, interval),
		Progress:  int(next),
	}
}

// PercentageProgress maps an unbounded progress score to [0, 100).
func PercentageProgress(progress float64) float64 {
	return 100 * (1 - math.Exp(-0.1*progress))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func addDays(t time.Time, days float64) time.Time {
	return t.Add(time.Duration(days * float64(24*time.Hour)))
}
