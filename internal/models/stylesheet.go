package models

// FontSpec names a font face and its pixel size. Glyph rendering lives with
// the display driver; the stylesheet only carries the handle.
type FontSpec struct {
	Name string `json:"name" yaml:"name"`
	Size int    `json:"size" yaml:"size"`
}

// Stylesheet is the complete set of color and font parameters used by every
// screen. It is saved as one unit.
type Stylesheet struct {
	DarkMode     bool `json:"dark_mode" yaml:"dark_mode"`
	EnableBoxArt bool `json:"enable_box_art" yaml:"enable_box_art"`

	HighlightColor  Color `json:"highlight_color" yaml:"highlight_color"`
	ForegroundColor Color `json:"foreground_color" yaml:"foreground_color"`
	BackgroundColor Color `json:"background_color" yaml:"background_color"`
	DisabledColor   Color `json:"disabled_color" yaml:"disabled_color"`

	ButtonAColor Color `json:"button_a_color" yaml:"button_a_color"`
	ButtonBColor Color `json:"button_b_color" yaml:"button_b_color"`
	ButtonXColor Color `json:"button_x_color" yaml:"button_x_color"`
	ButtonYColor Color `json:"button_y_color" yaml:"button_y_color"`

	UIFont    FontSpec `json:"ui_font" yaml:"ui_font"`
	GuideFont FontSpec `json:"guide_font" yaml:"guide_font"`
}

// DefaultStylesheet returns the factory theme that "Reset to Default" restores.
func DefaultStylesheet() Stylesheet {
	return Stylesheet{
		DarkMode:        true,
		EnableBoxArt:    true,
		HighlightColor:  RGB(0x7E, 0x4F, 0xD6),
		ForegroundColor: RGB(0xFF, 0xFF, 0xFF),
		BackgroundColor: RGB(0x00, 0x00, 0x00),
		DisabledColor:   RGB(0x80, 0x80, 0x80),
		ButtonAColor:    RGB(0xEB, 0x1A, 0x1D),
		ButtonBColor:    RGB(0xFE, 0xCE, 0x15),
		ButtonXColor:    RGB(0x07, 0x49, 0xB2),
		ButtonYColor:    RGB(0x00, 0x8C, 0x3B),
		UIFont:          FontSpec{Name: "Nunito", Size: 32},
		GuideFont:       FontSpec{Name: "Nunito", Size: 24},
	}
}

// ToggleDarkMode swaps the foreground and background for their complements.
func (s *Stylesheet) ToggleDarkMode() {
	s.ForegroundColor = s.ForegroundColor.Invert()
	s.BackgroundColor = s.BackgroundColor.Invert()
	s.DarkMode = !s.DarkMode
}

// ButtonColor returns the color assigned to a face button ("A", "B", "X", "Y").
func (s Stylesheet) ButtonColor(button string) (Color, bool) {
	switch button {
	case "A":
		return s.ButtonAColor, true
	case "B":
		return s.ButtonBColor, true
	case "X":
		return s.ButtonXColor, true
	case "Y":
		return s.ButtonYColor, true
	default:
		return 0, false
	}
}

// Validate checks font handles and masks colors into 24-bit range.
func (s *Stylesheet) Validate() error {
	validation := &ValidationErrors{}
	for _, c := range []*Color{
		&s.HighlightColor, &s.ForegroundColor, &s.BackgroundColor, &s.DisabledColor,
		&s.ButtonAColor, &s.ButtonBColor, &s.ButtonXColor, &s.ButtonYColor,
	} {
		*c &= colorMask
	}
	if s.UIFont.Size <= 0 {
		validation.AddMessage("ui_font.size", "must be positive")
	}
	if s.GuideFont.Size <= 0 {
		validation.AddMessage("guide_font.size", "must be positive")
	}
	return validation.Err()
}

// ColorFields lists the color names accepted by ColorField, in display order.
var ColorFields = []string{
	"highlight", "foreground", "background", "disabled",
	"button_a", "button_b", "button_x", "button_y",
}

// ColorField returns a pointer to the named color.
func (s *Stylesheet) ColorField(name string) (*Color, bool) {
	switch name {
	case "highlight":
		return &s.HighlightColor, true
	case "foreground":
		return &s.ForegroundColor, true
	case "background":
		return &s.BackgroundColor, true
	case "disabled":
		return &s.DisabledColor, true
	case "button_a":
		return &s.ButtonAColor, true
	case "button_b":
		return &s.ButtonBColor, true
	case "button_x":
		return &s.ButtonXColor, true
	case "button_y":
		return &s.ButtonYColor, true
	default:
		return nil, false
	}
}
