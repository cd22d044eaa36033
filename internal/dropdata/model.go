package dropdata

// Sensor identifies one of the two acceleration channels recorded
// during a drop. The drag shield is the reference channel for
// synchronization.
type Sensor string

const (
	SensorInner Sensor = "inner-capsule"
	SensorDrag  Sensor = "drag-shield"
)

// String returns a human-readable channel name for logs and sheet labels.
func (s Sensor) String() string {
	switch s {
	case SensorInner:
		return "Inner Capsule"
	case SensorDrag:
		return "Drag Shield"
	}
	return string(s)
}

// SyncResult holds the zero-time reference chosen for each sensor and
// the per-sensor time axes shifted to that reference.
//
// InnerFound and DragFound report whether a genuine threshold crossing
// was observed. When a sensor has no crossing its index falls back to
// the other sensor's (inner only) or to 0, and the flag stays false so
// callers can tell a real sync from the fallback without inspecting
// the index.
type SyncResult struct {
	InnerIndex int  `json:"innerIndex"` // Sample index of the inner capsule zero point
	DragIndex  int  `json:"dragIndex"`  // Sample index of the drag shield zero point
	InnerFound bool `json:"innerFound"` // Whether the inner index is a genuine crossing
	DragFound  bool `json:"dragFound"`  // Whether the drag index is a genuine crossing

	AdjustedInner []float64 `json:"adjustedInner,omitempty"` // time - time[InnerIndex]
	AdjustedDrag  []float64 `json:"adjustedDrag,omitempty"`  // time - time[DragIndex]
}

// FilteredSeries is the scientifically valid slice of one sensor's
// gravity-level series: the settling period after the zero point is
// skipped and the series is cut where the gravity level exceeds the
// quality ceiling.
//
// Invariant: 0 <= StartIndex <= EndIndex <= len of the source series,
// and the three slices are aligned and of equal length
// (EndIndex - StartIndex). An empty filtered range is legal.
type FilteredSeries struct {
	Time         []float64 `json:"time"`         // Original time axis slice, seconds
	GravityLevel []float64 `json:"gravityLevel"` // Dimensionless gravity level slice
	AdjustedTime []float64 `json:"adjustedTime"` // Zero-referenced time axis slice, seconds

	StartIndex int `json:"startIndex"` // Slice start in the source series
	EndIndex   int `json:"endIndex"`   // Slice end in the source series (exclusive)
}

// Len returns the number of samples in the filtered range.
func (f *FilteredSeries) Len() int {
	if f == nil {
		return 0
	}
	return len(f.GravityLevel)
}

// StatResult is the outcome of one stability analysis: the sliding
// window with the smallest standard deviation. The three values are
// simultaneously present or simultaneously absent; Valid == false
// signals insufficient data, which is an expected condition and not
// an error.
type StatResult struct {
	MeanAbs   float64 `json:"meanAbs"`   // Mean of absolute gravity levels in the best window
	StartTime float64 `json:"startTime"` // Time at the best window's first sample, seconds
	MinStd    float64 `json:"minStd"`    // Smallest window standard deviation
	Valid     bool    `json:"valid"`     // False when the series is shorter than the window
}

// SweepEntry is the stability analysis of both sensors at one window
// size within a quality sweep.
type SweepEntry struct {
	WindowSize float64    `json:"windowSize"` // Window size in seconds
	Inner      StatResult `json:"inner"`
	Drag       StatResult `json:"drag"`
}

// QualitySweepResult is the fully materialized quality-vs-scale curve,
// one entry per swept window size in ascending order. It is a plain
// slice because export needs random access.
type QualitySweepResult []SweepEntry

// ProcessedData bundles the outcome of the synchronize, convert and
// filter stages for one recording. A nil sensor entry means the
// channel was disabled by configuration.
type ProcessedData struct {
	Sync  SyncResult      `json:"sync"`
	Inner *FilteredSeries `json:"inner,omitempty"`
	Drag  *FilteredSeries `json:"drag,omitempty"`
}

// ResultBundle is everything the pipeline produces for one recording,
// in the shape the cache persists and the exporters consume.
type ResultBundle struct {
	Processed *ProcessedData     `json:"processed"`
	InnerStat StatResult         `json:"innerStat"`
	DragStat  StatResult         `json:"dragStat"`
	Sweep     QualitySweepResult `json:"sweep,omitempty"`
}
