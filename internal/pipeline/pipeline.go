// Package pipeline implements the numeric core of the drop-tower
// analysis: synchronizing the two independently clocked acceleration
// channels to a common zero-time reference, converting raw
// acceleration into gravity levels, and trimming each channel to its
// scientifically valid window.
//
// Every function here is pure: in-memory slices and parameters in,
// values out, no I/O and no shared state. This is what makes the
// result cache at the boundary safe.
package pipeline

import (
	"fmt"

	"github.com/droplab/droptower/internal/dropdata"
)

// Params is the subset of the analysis configuration that affects the
// pipeline's output. It is part of the cache fingerprint, so adding a
// field here invalidates previously cached results.
type Params struct {
	GravityConstant       float64 `json:"gravityConstant"`
	AccelerationThreshold float64 `json:"accelerationThreshold"`
	EndGravityLevel       float64 `json:"endGravityLevel"`
	MinSecondsAfterStart  float64 `json:"minSecondsAfterStart"`
	InvertInner           bool    `json:"invertInner"`
	UseInner              bool    `json:"useInner"`
	UseDrag               bool    `json:"useDrag"`
}

// Process runs the synchronize, convert and filter stages over one
// recording. Disabled channels are excluded entirely and come back as
// nil entries in the result.
//
// accelInner and accelDrag may be nil for a disabled channel; an
// enabled channel must be aligned with the time axis.
func Process(time, accelInner, accelDrag []float64, p Params) (*dropdata.ProcessedData, error) {
	if !p.UseInner && !p.UseDrag {
		return nil, fmt.Errorf("%w: both acceleration channels are disabled", dropdata.ErrProcessing)
	}
	if p.GravityConstant <= 0 {
		return nil, fmt.Errorf("%w: gravity constant must be positive, got %g", dropdata.ErrContract, p.GravityConstant)
	}

	if !p.UseInner {
		accelInner = nil
	}
	if !p.UseDrag {
		accelDrag = nil
	}

	if accelInner != nil && len(accelInner) != len(time) {
		return nil, fmt.Errorf("%w: inner channel has %d samples, time axis has %d",
			dropdata.ErrContract, len(accelInner), len(time))
	}
	if accelDrag != nil && len(accelDrag) != len(time) {
		return nil, fmt.Errorf("%w: drag channel has %d samples, time axis has %d",
			dropdata.ErrContract, len(accelDrag), len(time))
	}

	sync := Synchronize(time, accelInner, accelDrag, p.AccelerationThreshold)

	data := dropdata.ProcessedData{Sync: sync}

	if accelInner != nil {
		gravity := ToGravity(accelInner, p.GravityConstant, p.InvertInner)

		filtered, err := FilterWindow(time, gravity, sync.AdjustedInner, p.MinSecondsAfterStart, p.EndGravityLevel)
		if err != nil {
			return nil, fmt.Errorf("filtering %s: %w", dropdata.SensorInner, err)
		}
		data.Inner = filtered
	}

	if accelDrag != nil {
		gravity := ToGravity(accelDrag, p.GravityConstant, false)

		filtered, err := FilterWindow(time, gravity, sync.AdjustedDrag, p.MinSecondsAfterStart, p.EndGravityLevel)
		if err != nil {
			return nil, fmt.Errorf("filtering %s: %w", dropdata.SensorDrag, err)
		}
		data.Drag = filtered
	}

	return &data, nil
}
