package analysis

import (
	"fmt"
	"math"

	"pulse/internal/domain"
)

// Compare relates a current metric value to its historical baseline. A
// missing or zero baseline yields has_baseline=false with an unknown
// direction; diff_percentage is always non-negative.
func Compare(current, baseline float64, metric string) domain.Comparison {
	if baseline == 0 {
		return domain.Comparison{
			HasBaseline:    false,
			Direction:      domain.DirectionUnknown,
			DiffPercentage: 0,
			Message:        fmt.Sprintf("no baseline for %s", metric),
		}
	}

	diff := current - baseline
	direction := domain.DirectionEqual
	switch {
	case diff > 0:
		direction = domain.DirectionAbove
	case diff < 0:
		direction = domain.DirectionBelow
	}

	return domain.Comparison{
		HasBaseline:    true,
		Direction:      direction,
		DiffPercentage: math.Abs(diff/baseline) * 100,
		Message:        fmt.Sprintf("%s: %g (%s the average of %.1f)", metric, current, direction, baseline),
	}
}

// CompareToBaseline is Compare against a Baseline record's daily average; a
// nil baseline counts as absent.
func CompareToBaseline(current float64, baseline *domain.Baseline, metric string) domain.Comparison {
	if baseline == nil {
		return Compare(current, 0, metric)
	}
	return Compare(current, baseline.AvgMessagesPerDay, metric)
}
