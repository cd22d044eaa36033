package pipeline

import (
	"math"

	"github.com/droplab/droptower/internal/dropdata"
)

// Synchronize finds, per sensor, the first sample whose acceleration
// magnitude drops below threshold and shifts that sensor's time axis
// so the chosen sample becomes t = 0.
//
// The drag shield is the reference sensor: when the inner capsule has
// no crossing it borrows the drag shield's index, but the reverse
// borrow never happens. A sensor with no usable index falls back to
// index 0 rather than failing; the Found flags record whether a
// genuine crossing was observed.
//
// A nil channel slice means the sensor is disabled; its adjusted axis
// comes back nil.
func Synchronize(time, accelInner, accelDrag []float64, threshold float64) dropdata.SyncResult {
	var r dropdata.SyncResult

	innerIdx, innerFound := firstBelowThreshold(accelInner, threshold)
	dragIdx, dragFound := firstBelowThreshold(accelDrag, threshold)

	r.InnerFound = innerFound
	r.DragFound = dragFound
	r.DragIndex = dragIdx

	switch {
	case innerFound:
		r.InnerIndex = innerIdx
	case dragFound:
		// The inner capsule borrows the reference sensor's zero point.
		r.InnerIndex = dragIdx
	default:
		r.InnerIndex = 0
	}

	if accelInner != nil {
		r.AdjustedInner = shiftTime(time, r.InnerIndex)
	}
	if accelDrag != nil {
		r.AdjustedDrag = shiftTime(time, r.DragIndex)
	}

	return r
}

// firstBelowThreshold scans samples in order and returns the index of
// the first one with |a| < threshold. It reports false when no sample
// qualifies or the series is empty.
func firstBelowThreshold(accel []float64, threshold float64) (int, bool) {
	for i, a := range accel {
		if math.Abs(a) < threshold {
			return i, true
		}
	}
	return 0, false
}

func shiftTime(time []float64, syncIndex int) []float64 {
	adjusted := make([]float64, len(time))
	if len(time) == 0 {
		return adjusted
	}

	zero := time[syncIndex]
	for i, t := range time {
		adjusted[i] = t - zero
	}
	return adjusted
}
