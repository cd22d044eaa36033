package pipeline

import (
	"fmt"

	"github.com/droplab/droptower/internal/dropdata"
)

// FilterWindow trims one sensor's series to the scientifically valid
// span. The start is the first sample at or after the settling skip,
// measured on the adjusted time axis from the zero point (the target
// is 0 + minSecondsAfterStart, not a sample-count skip). The end is
// the first sample at or after the start whose gravity level reaches
// endGravityLevel, or the series length when it never does.
//
// An adjusted axis that never reaches zero is fatal for this sensor.
// An empty filtered range is legal and propagates as empty slices.
func FilterWindow(time, gravity, adjusted []float64, minSecondsAfterStart, endGravityLevel float64) (*dropdata.FilteredSeries, error) {
	if len(gravity) != len(time) || len(adjusted) != len(time) {
		return nil, fmt.Errorf("%w: series lengths differ: time %d, gravity %d, adjusted %d",
			dropdata.ErrContract, len(time), len(gravity), len(adjusted))
	}

	zeroIndex := -1
	for i, t := range adjusted {
		if t >= 0 {
			zeroIndex = i
			break
		}
	}
	if zeroIndex < 0 {
		return nil, fmt.Errorf("%w: adjusted time axis never reaches zero", dropdata.ErrProcessing)
	}

	start := len(adjusted)
	for i := zeroIndex; i < len(adjusted); i++ {
		if adjusted[i] >= minSecondsAfterStart {
			start = i
			break
		}
	}

	end := len(gravity)
	for i := start; i < len(gravity); i++ {
		if gravity[i] >= endGravityLevel {
			end = i
			break
		}
	}

	return &dropdata.FilteredSeries{
		Time:         time[start:end],
		GravityLevel: gravity[start:end],
		AdjustedTime: adjusted[start:end],
		StartIndex:   start,
		EndIndex:     end,
	}, nil
}
