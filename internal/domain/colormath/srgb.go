package colormath

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// sRGB companding thresholds (IEC 61966-2-1).
const (
	srgbEncodeThreshold = 0.0031308
	srgbDecodeThreshold = 0.04045
	srgbGamma           = 2.4
	maxChannel          = 255
)

// XYZToRGB converts tristimulus values to gamma-encoded 8-bit sRGB.
// Each channel is rounded and clamped to [0, 255].
func XYZToRGB(x, y, z float64) (r, g, b uint8) {
	lr := x*3.2404542 - y*1.5371385 - z*0.4985314
	lg := -x*0.9692660 + y*1.8760108 + z*0.0415560
	lb := x*0.0556434 - y*0.2040259 + z*1.0572252

	return toByte(srgbEncode(lr) * maxChannel),
		toByte(srgbEncode(lg) * maxChannel),
		toByte(srgbEncode(lb) * maxChannel)
}

// RGBToXYZ converts 8-bit sRGB to tristimulus values.
func RGBToXYZ(r, g, b uint8) XYZ {
	lr := srgbDecode(float64(r) / maxChannel)
	lg := srgbDecode(float64(g) / maxChannel)
	lb := srgbDecode(float64(b) / maxChannel)

	return XYZ{
		X: lr*0.4124564 + lg*0.3575761 + lb*0.1804375,
		Y: lr*0.2126729 + lg*0.7151522 + lb*0.0721750,
		Z: lr*0.0193339 + lg*0.1191920 + lb*0.9503041,
	}
}

func srgbEncode(c float64) float64 {
	if c <= srgbEncodeThreshold {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/srgbGamma) - 0.055
}

func srgbDecode(c float64) float64 {
	if c <= srgbDecodeThreshold {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, srgbGamma)
}

// toByte rounds v and clamps it into a color channel.
func toByte(v float64) uint8 {
	v = math.Round(v)
	switch {
	case v < 0:
		return 0
	case v > maxChannel:
		return maxChannel
	}
	return uint8(v)
}

// FormatHex formats a color as lowercase #rrggbb.
func FormatHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// ParseHex parses #rrggbb or #rgb (the leading # is optional).
func ParseHex(s string) (r, g, b uint8, err error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// RelativeLuminance returns the WCAG relative luminance of an sRGB color.
func RelativeLuminance(r, g, b uint8) float64 {
	return 0.2126*srgbDecode(float64(r)/maxChannel) +
		0.7152*srgbDecode(float64(g)/maxChannel) +
		0.0722*srgbDecode(float64(b)/maxChannel)
}

// ContrastRatio returns the WCAG contrast ratio between two L*a*b* colors,
// in [1, 21].
func ContrastRatio(c1, c2 Lab) float64 {
	l1 := RelativeLuminance(LabToRGB(c1.L, c1.A, c1.B))
	l2 := RelativeLuminance(LabToRGB(c2.L, c2.A, c2.B))
	lighter, darker := math.Max(l1, l2), math.Min(l1, l2)
	return (lighter + 0.05) / (darker + 0.05)
}
