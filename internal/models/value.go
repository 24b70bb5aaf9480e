package models

import "fmt"

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	ValueAction ValueKind = iota
	ValueBool
	ValueInt
	ValueColor
	ValueString
)

// Value is the payload of a value-changed notification.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Int    int
	Color  Color
	String string
}

// ActionValue marks an activated action entry.
func ActionValue() Value { return Value{Kind: ValueAction} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// IntValue wraps an integer.
func IntValue(i int) Value { return Value{Kind: ValueInt, Int: i} }

// ColorValue wraps a color.
func ColorValue(c Color) Value { return Value{Kind: ValueColor, Color: c} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: ValueString, String: s} }

// AsInt returns the integer payload.
func (v Value) AsInt() (int, bool) {
	if v.Kind != ValueInt {
		return 0, false
	}
	return v.Int, true
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != ValueBool {
		return false, false
	}
	return v.Bool, true
}

// AsColor returns the color payload.
func (v Value) AsColor() (Color, bool) {
	if v.Kind != ValueColor {
		return 0, false
	}
	return v.Color, true
}

func (v Value) GoString() string {
	switch v.Kind {
	case ValueBool:
		return fmt.Sprintf("bool(%t)", v.Bool)
	case ValueInt:
		return fmt.Sprintf("int(%d)", v.Int)
	case ValueColor:
		return fmt.Sprintf("color(%s)", v.Color.Hex())
	case ValueString:
		return fmt.Sprintf("string(%q)", v.String)
	default:
		return "action"
	}
}
