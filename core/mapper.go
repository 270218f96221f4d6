package core

// MapValue linearly maps value from [fromMin, fromMax] onto [toMin, toMax].
// fromMax must differ from fromMin.
func MapValue(value, fromMin, fromMax, toMin, toMax float32) float32 {
	return (value-fromMin)*(toMax-toMin)/(fromMax-fromMin) + toMin
}

// clampLevel limits v to [0, PowerLevels].
func clampLevel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > PowerLevels {
		return PowerLevels
	}
	return uint8(v)
}

// clampUnit limits v to [0, 1].
func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
