package cardtable

// Ease is the smoothstep curve t²(3−2t). Input is clamped to [0, 1]; the
// curve has zero slope at both ends.
func Ease(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	return t * t * (3 - 2*t)
}

// Smoothstep is Ease in gween's ease.TweenFunc form: t is elapsed time, b
// the begin value, c the change and d the duration.
func Smoothstep(t, b, c, d float32) float32 {
	if d <= 0 {
		return b + c
	}
	return b + c*float32(Ease(float64(t)/float64(d)))
}
