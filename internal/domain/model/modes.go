package model

import (
	"fmt"
	"strings"
)

// ColorSpace selects which plane the visualization samples.
type ColorSpace uint8

// Supported color spaces. LAB is the initial mode of every workflow.
const (
	ColorSpaceLAB ColorSpace = iota
	ColorSpaceCMYK
)

// Toggle returns the other color space.
func (c ColorSpace) Toggle() ColorSpace {
	if c == ColorSpaceLAB {
		return ColorSpaceCMYK
	}
	return ColorSpaceLAB
}

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceLAB:
		return "LAB"
	case ColorSpaceCMYK:
		return "CMYK"
	default:
		return fmt.Sprintf("ColorSpace(%d)", uint8(c))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c ColorSpace) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ColorSpace) UnmarshalText(b []byte) error {
	v, err := ParseColorSpace(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseColorSpace parses "lab" or "cmyk", case-insensitively.
func ParseColorSpace(s string) (ColorSpace, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LAB":
		return ColorSpaceLAB, nil
	case "CMYK":
		return ColorSpaceCMYK, nil
	}
	return ColorSpaceLAB, fmt.Errorf("%w: %q", ErrUnknownColorSpace, s)
}

// Phase is the lifecycle phase of an analysis workflow.
type Phase uint8

// Workflow phases. Exactly one is active at a time.
const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseSuccess
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseSuccess:
		return "success"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	v, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePhase parses a phase name as produced by String.
func ParsePhase(s string) (Phase, error) {
	for p := PhaseIdle; p <= PhaseSuccess; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PhaseIdle, fmt.Errorf("%w: %q", ErrUnknownPhase, s)
}
