package colormath_test

import (
	"fmt"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/remonster/internal/domain/colormath"
)

func TestLabXYZRoundTrip(t *testing.T) {
	for l := 0.0; l <= 100; l += 5 {
		for a := -150.0; a <= 150; a += 10 {
			for b := -150.0; b <= 150; b += 10 {
				xyz := colormath.LabToXYZ(l, a, b)
				got := colormath.XYZToLab(xyz.X, xyz.Y, xyz.Z)
				assert.InDelta(t, l, got.L, 1e-6, "L for (%v, %v, %v)", l, a, b)
				assert.InDelta(t, a, got.A, 1e-6, "a for (%v, %v, %v)", l, a, b)
				assert.InDelta(t, b, got.B, 1e-6, "b for (%v, %v, %v)", l, a, b)
			}
		}
	}
}

func TestXYZToLabWhitePoint(t *testing.T) {
	lab := colormath.XYZToLab(colormath.Xn, colormath.Yn, colormath.Zn)
	assert.InDelta(t, 100.0, lab.L, 1e-9)
	assert.InDelta(t, 0.0, lab.A, 1e-9)
	assert.InDelta(t, 0.0, lab.B, 1e-9)

	black := colormath.XYZToLab(0, 0, 0)
	assert.InDelta(t, 0.0, black.L, 1e-9)
}

func TestChromaAndHue(t *testing.T) {
	assert.InDelta(t, 5.0, colormath.Chroma(3, 4), 1e-12)
	assert.InDelta(t, 0.0, colormath.Chroma(0, 0), 1e-12)

	tests := []struct {
		a, b, want float64
	}{
		{1, 0, 0},
		{0, 1, 90},
		{-1, 0, 180},
		{0, -1, -90},
		{1, 1, 45},
		{-1, -1, -135},
		{0, 0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, colormath.HueAngle(tt.a, tt.b), 1e-9, "hue(%v, %v)", tt.a, tt.b)
	}
}

func TestHueAngleNegativeZero(t *testing.T) {
	negZero := 0.0
	negZero = -negZero
	assert.InDelta(t, 180.0, colormath.HueAngle(-1, negZero), 1e-9)
}

func TestCMYKToHex(t *testing.T) {
	tests := []struct {
		c, m, y, k float64
		want       string
	}{
		{0, 0, 0, 0, "#ffffff"},
		{0, 0, 0, 1, "#000000"},
		{1, 0, 0, 0, "#00ffff"},
		{0, 1, 0, 0, "#ff00ff"},
		{0, 0, 1, 0, "#ffff00"},
		{0, 0, 0, 0.5, "#808080"},
		{1, 1, 1, 0, "#000000"},
		// out of range channels are clamped rather than rejected
		{-1, 2, 0, 0, "#ff00ff"},
		{0, 0, 0, 7, "#000000"},
	}
	for _, tt := range tests {
		name := fmt.Sprintf("%v,%v,%v,%v", tt.c, tt.m, tt.y, tt.k)
		assert.Equal(t, tt.want, colormath.CMYKToHex(tt.c, tt.m, tt.y, tt.k), name)
	}
}

func TestLabToHex(t *testing.T) {
	assert.Equal(t, "#ffffff", colormath.LabToHex(100, 0, 0))
	assert.Equal(t, "#000000", colormath.LabToHex(0, 0, 0))

	// far outside the gamut still yields a valid, clamped color
	hex := colormath.LabToHex(65, 100, -100)
	require.Len(t, hex, 7)
	assert.Equal(t, byte('#'), hex[0])
}

func TestLabToHexMatchesRGBRoundTrip(t *testing.T) {
	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 17 {
			for b := 0; b < 256; b += 17 {
				lab := colormath.RGBToLab(uint8(r), uint8(g), uint8(b))
				want := colormath.FormatHex(uint8(r), uint8(g), uint8(b))
				assert.Equal(t, want, colormath.LabToHex(lab.L, lab.A, lab.B))
			}
		}
	}
}

func TestRGBToLabAgreesWithColorful(t *testing.T) {
	for _, hex := range []string{"#00ff00", "#ffff00", "#0000ff", "#800080", "#ffc0cb", "#ff0000", "#808080", "#3a7bd5"} {
		c, err := colorful.Hex(hex)
		require.NoError(t, err)
		wl, wa, wb := c.Lab()

		r, g, b, err := colormath.ParseHex(hex)
		require.NoError(t, err)
		got := colormath.RGBToLab(r, g, b)

		assert.InDelta(t, wl*100, got.L, 0.1, hex)
		assert.InDelta(t, wa*100, got.A, 0.1, hex)
		assert.InDelta(t, wb*100, got.B, 0.1, hex)
	}
}

func TestParseHex(t *testing.T) {
	r, g, b, err := colormath.ParseHex("#FFC0CB")
	require.NoError(t, err)
	assert.Equal(t, []uint8{0xff, 0xc0, 0xcb}, []uint8{r, g, b})

	r, g, b, err = colormath.ParseHex("0af")
	require.NoError(t, err)
	assert.Equal(t, []uint8{0x00, 0xaa, 0xff}, []uint8{r, g, b})

	for _, bad := range []string{"", "#12345", "#gggggg", "#1234567"} {
		_, _, _, err := colormath.ParseHex(bad)
		assert.ErrorIs(t, err, colormath.ErrInvalidHex, bad)
	}
}

func TestRGBToCMYK(t *testing.T) {
	assert.Equal(t, colormath.CMYK{K: 1}, colormath.RGBToCMYK(0, 0, 0))
	assert.Equal(t, colormath.CMYK{}, colormath.RGBToCMYK(255, 255, 255))

	red := colormath.RGBToCMYK(255, 0, 0)
	assert.InDelta(t, 0.0, red.C, 1e-12)
	assert.InDelta(t, 1.0, red.M, 1e-12)
	assert.InDelta(t, 1.0, red.Y, 1e-12)
	assert.InDelta(t, 0.0, red.K, 1e-12)

	cmyk, err := colormath.HexToCMYK("#808080")
	require.NoError(t, err)
	assert.Equal(t, "#808080", colormath.CMYKToHex(cmyk.C, cmyk.M, cmyk.Y, cmyk.K))
}

func TestContrastRatio(t *testing.T) {
	white := colormath.Lab{L: 100}
	black := colormath.Lab{}
	assert.InDelta(t, 21.0, colormath.ContrastRatio(white, black), 1e-6)
	assert.InDelta(t, 21.0, colormath.ContrastRatio(black, white), 1e-6)
	assert.InDelta(t, 1.0, colormath.ContrastRatio(white, white), 1e-12)
}
