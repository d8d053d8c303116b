// Package colormath converts between CIE XYZ, CIE L*a*b*, CMYK and sRGB hex,
// and derives the polar descriptors (chroma, hue angle) of the a*b* plane.
//
// Every function is pure and safe for concurrent use. Callers must not pass
// NaN or Inf; the functions do not validate their inputs and clamp instead
// of failing wherever a result would leave the displayable range.
package colormath

import (
	"math"
)

// CIE 1976 and D65 constants. Xn, Yn, Zn are the D65 reference white.
const (
	Xn = 0.95047
	Yn = 1.00000
	Zn = 1.08883

	// Epsilon is the CIE ε = 216/24389 threshold between the cube-root and linear branches.
	Epsilon = 216.0 / 24389.0
	// Kappa is the CIE κ = 24389/27.
	Kappa = 24389.0 / 27.0
)

// Lab is a color in CIE L*a*b*.
type Lab struct {
	L float64 `json:"L"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// XYZ holds CIE 1931 tristimulus values relative to D65.
type XYZ struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// labF is the forward companding function of CIE 1976.
func labF(t float64) float64 {
	if t > Epsilon {
		return math.Cbrt(t)
	}
	return (Kappa*t + 16) / 116
}

// labFInv inverts labF. The branch is picked on t³ so that labF(labFInv(t)) == t.
func labFInv(t float64) float64 {
	if t3 := t * t * t; t3 > Epsilon {
		return t3
	}
	return (116*t - 16) / Kappa
}

// XYZToLab converts tristimulus values to L*a*b*.
func XYZToLab(x, y, z float64) Lab {
	fx := labF(x / Xn)
	fy := labF(y / Yn)
	fz := labF(z / Zn)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// LabToXYZ converts L*a*b* back to tristimulus values.
func LabToXYZ(l, a, b float64) XYZ {
	fy := (l + 16) / 116
	fx := a/500 + fy
	fz := fy - b/200

	return XYZ{
		X: Xn * labFInv(fx),
		Y: Yn * labFInv(fy),
		Z: Zn * labFInv(fz),
	}
}

// Chroma returns the radial distance from neutral gray in the a*b* plane.
func Chroma(a, b float64) float64 {
	return math.Sqrt(a*a + b*b)
}

// HueAngle returns the polar angle of (a, b) in degrees, in (-180, 180].
// The neutral axis (0, 0) has no hue and reports 0.
func HueAngle(a, b float64) float64 {
	if b == 0 && a < 0 {
		// atan2(-0, x<0) would land on the excluded end of the range
		return 180
	}
	return math.Atan2(b, a) * (180 / math.Pi)
}

// LabToHex renders an L*a*b* color as #rrggbb. Colors outside the sRGB gamut
// are clamped channel by channel.
func LabToHex(l, a, b float64) string {
	r, g, bl := LabToRGB(l, a, b)
	return FormatHex(r, g, bl)
}

// LabToRGB converts L*a*b* to clamped 8-bit sRGB.
func LabToRGB(l, a, b float64) (r, g, bl uint8) {
	xyz := LabToXYZ(l, a, b)
	return XYZToRGB(xyz.X, xyz.Y, xyz.Z)
}

// RGBToLab converts 8-bit sRGB to L*a*b*.
func RGBToLab(r, g, b uint8) Lab {
	xyz := RGBToXYZ(r, g, b)
	return XYZToLab(xyz.X, xyz.Y, xyz.Z)
}
