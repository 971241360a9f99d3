package component

// addNumeric sums current and delta when both are numeric. The result is an
// int when both sides are integral, float64 otherwise. Returns false when
// either side is non-numeric, in which case Update replaces instead of adds.
func addNumeric(current, delta any) (any, bool) {
	c, cFloat, ok := numeric(current)
	if !ok {
		return nil, false
	}
	d, dFloat, ok := numeric(delta)
	if !ok {
		return nil, false
	}
	if cFloat || dFloat {
		return c + d, true
	}
	return int(c) + int(d), true
}

// numeric converts v to float64, reporting whether it was a floating-point
// kind and whether it was numeric at all.
func numeric(v any) (f float64, isFloat bool, ok bool) {
	switch n := v.(type) {
	case int:
		return float64(n), false, true
	case int8:
		return float64(n), false, true
	case int16:
		return float64(n), false, true
	case int32:
		return float64(n), false, true
	case int64:
		return float64(n), false, true
	case uint:
		return float64(n), false, true
	case uint8:
		return float64(n), false, true
	case uint16:
		return float64(n), false, true
	case uint32:
		return float64(n), false, true
	case uint64:
		return float64(n), false, true
	case float32:
		return float64(n), true, true
	case float64:
		return n, true, true
	default:
		return 0, false, false
	}
}
