package colormath

import "math"

// CMYK is a subtractive color; every channel is nominally in [0, 1].
type CMYK struct {
	C float64 `json:"c"`
	M float64 `json:"m"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// CMYKToHex renders a CMYK color as #rrggbb. Channels outside [0, 1] are
// clamped before conversion.
func CMYKToHex(c, m, y, k float64) string {
	r, g, b := CMYKToRGB(c, m, y, k)
	return FormatHex(r, g, b)
}

// CMYKToRGB converts CMYK to 8-bit RGB with the naive device formula
// R = 255(1-c)(1-k).
func CMYKToRGB(c, m, y, k float64) (r, g, b uint8) {
	c, m, y, k = unit(c), unit(m), unit(y), unit(k)
	return toByte(maxChannel * (1 - c) * (1 - k)),
		toByte(maxChannel * (1 - m) * (1 - k)),
		toByte(maxChannel * (1 - y) * (1 - k))
}

// RGBToCMYK converts 8-bit RGB to CMYK. Pure black maps to (0, 0, 0, 1).
func RGBToCMYK(r, g, b uint8) CMYK {
	rf := float64(r) / maxChannel
	gf := float64(g) / maxChannel
	bf := float64(b) / maxChannel

	k := 1 - math.Max(rf, math.Max(gf, bf))
	if k == 1 {
		return CMYK{K: 1}
	}
	return CMYK{
		C: (1 - rf - k) / (1 - k),
		M: (1 - gf - k) / (1 - k),
		Y: (1 - bf - k) / (1 - k),
		K: k,
	}
}

// HexToCMYK parses a hex color and converts it to CMYK.
func HexToCMYK(hex string) (CMYK, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return CMYK{}, err
	}
	return RGBToCMYK(r, g, b), nil
}

func unit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
