package pipeline

// ToGravity converts raw acceleration in m/s² into dimensionless
// gravity levels by dividing by the reference constant, negating every
// value when invert is set (a sensor mounted upside down). The input
// slice is never modified.
//
// The gravity constant is validated as positive at configuration load;
// Process re-checks it before calling here.
func ToGravity(accel []float64, gravityConstant float64, invert bool) []float64 {
	gravity := make([]float64, len(accel))

	for i, a := range accel {
		v := a / gravityConstant
		if invert {
			v = -v
		}
		gravity[i] = v
	}
	return gravity
}

// Invert flips the sign of every value, returning a new slice.
// Inverting twice restores the original values.
func Invert(values []float64) []float64 {
	inverted := make([]float64, len(values))
	for i, v := range values {
		inverted[i] = -v
	}
	return inverted
}
