package models

import "fmt"

// DisplaySettings holds the panel adjustments. Each field is a percentage.
type DisplaySettings struct {
	Luminance  uint8 `json:"luminance" yaml:"luminance"`
	Hue        uint8 `json:"hue" yaml:"hue"`
	Saturation uint8 `json:"saturation" yaml:"saturation"`
	Contrast   uint8 `json:"contrast" yaml:"contrast"`
}

// DisplayField names an editable display setting.
type DisplayField int

const (
	DisplayLuminance DisplayField = iota
	DisplayHue
	DisplaySaturation
	DisplayContrast
)

// DisplayFields lists the editable fields in on-screen order.
var DisplayFields = []DisplayField{DisplayLuminance, DisplayHue, DisplaySaturation, DisplayContrast}

func (f DisplayField) String() string {
	switch f {
	case DisplayLuminance:
		return "luminance"
	case DisplayHue:
		return "hue"
	case DisplaySaturation:
		return "saturation"
	case DisplayContrast:
		return "contrast"
	default:
		return fmt.Sprintf("display_field(%d)", int(f))
	}
}

// ParseDisplayField resolves a field by name.
func ParseDisplayField(name string) (DisplayField, bool) {
	for _, f := range DisplayFields {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}

// DefaultDisplaySettings returns neutral panel settings.
func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{Luminance: 50, Hue: 50, Saturation: 50, Contrast: 50}
}

// Get returns the value of a field.
func (d DisplaySettings) Get(f DisplayField) (int, bool) {
	switch f {
	case DisplayLuminance:
		return int(d.Luminance), true
	case DisplayHue:
		return int(d.Hue), true
	case DisplaySaturation:
		return int(d.Saturation), true
	case DisplayContrast:
		return int(d.Contrast), true
	default:
		return 0, false
	}
}

// Set stores a field, clamping the value to 0..100.
func (d *DisplaySettings) Set(f DisplayField, value int) bool {
	v := uint8(clampPercent(value))
	switch f {
	case DisplayLuminance:
		d.Luminance = v
	case DisplayHue:
		d.Hue = v
	case DisplaySaturation:
		d.Saturation = v
	case DisplayContrast:
		d.Contrast = v
	default:
		return false
	}
	return true
}

// Clamp forces every field into 0..100.
func (d *DisplaySettings) Clamp() {
	for _, f := range DisplayFields {
		v, _ := d.Get(f)
		d.Set(f, v)
	}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
