package accessors

import "github.com/chewxy/math32"

func clamp01(f float32) float32 {

	// Written so that NaN ends up as 0
	if !(f > 0) {
		return 0
	}

	return math32.Min(f, 1)
}

func unormToFloat(v uint8) float32 {
	return float32(v) / 255
}

// floatToUnorm clamps f to [0,1] and rounds it to the nearest of the 256 byte steps
func floatToUnorm(f float32) uint8 {
	return uint8(math32.Floor(clamp01(f)*255 + 0.5))
}

func snormToFloat(v uint8) float32 {
	// Both -128 and -127 map to -1
	return math32.Max(float32(int8(v))/127, -1)
}

// floatToSnorm clamps f to [-1,1] and rounds it (half away from zero) to a signed byte
func floatToSnorm(f float32) uint8 {

	if math32.IsNaN(f) {
		return 0
	}

	f = math32.Max(math32.Min(f, 1), -1) * 127
	if f < 0 {
		return uint8(int8(-math32.Floor(-f + 0.5)))
	}

	return uint8(int8(math32.Floor(f + 0.5)))
}
