// Package models defines the settings data shared across the launcher.
package models

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a 24-bit RGB color packed as 0xRRGGBB.
type Color uint32

const colorMask = 0xFFFFFF

// RGB builds a color from its channels.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// WithR returns a copy with the red channel replaced.
func (c Color) WithR(r uint8) Color { return RGB(r, c.G(), c.B()) }

// WithG returns a copy with the green channel replaced.
func (c Color) WithG(g uint8) Color { return RGB(c.R(), g, c.B()) }

// WithB returns a copy with the blue channel replaced.
func (c Color) WithB(b uint8) Color { return RGB(c.R(), c.G(), b) }

// Invert returns the channel-wise complement.
func (c Color) Invert() Color {
	return (^c) & colorMask
}

// Hex formats the color as #RRGGBB.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c)&colorMask)
}

// Digit returns the hex character for digit i (0 is the high nibble of red).
func (c Color) Digit(i int) string {
	if i < 0 || i > 5 {
		return ""
	}
	return c.Hex()[i+1 : i+2]
}

func (c Color) String() string {
	return c.Hex()
}

// Colorful converts the color for perceptual math.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R()) / 255,
		G: float64(c.G()) / 255,
		B: float64(c.B()) / 255,
	}
}

// Contrast returns black or white, whichever reads better on top of c.
func (c Color) Contrast() Color {
	l, _, _ := c.Colorful().Lab()
	if l > 0.6 {
		return RGB(0, 0, 0)
	}
	return RGB(0xFF, 0xFF, 0xFF)
}

// ParseColor accepts #RRGGBB or #RGB (the leading # is optional).
func ParseColor(value string) (Color, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "#") {
		value = "#" + value
	}
	parsed, err := colorful.Hex(value)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", value, err)
	}
	r, g, b := parsed.RGB255()
	return RGB(r, g, b), nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
