package domain

import (
	"fmt"
	"strings"
)

const (
	SwitchOn  = "ON"
	SwitchOff = "OFF"
)

// SwitchState is a normalized readState() value
type SwitchState struct {
	Raw   string `json:"raw"`
	Label string `json:"label"`
	On    bool   `json:"on"`
}

// ParseSwitchState normalizes the string returned by readState()
func ParseSwitchState(raw string) (SwitchState, error) {
	label := strings.ToUpper(strings.TrimSpace(raw))
	switch label {
	case SwitchOn:
		return SwitchState{Raw: raw, Label: label, On: true}, nil
	case SwitchOff:
		return SwitchState{Raw: raw, Label: label, On: false}, nil
	default:
		return SwitchState{}, fmt.Errorf("%w: %q", ErrInvalidState, raw)
	}
}

// Opposite returns the label a toggle is expected to produce
func (s SwitchState) Opposite() string {
	if s.On {
		return SwitchOff
	}
	return SwitchOn
}

// StateLabel renders a boolean flag the way the contract does
func StateLabel(on bool) string {
	if on {
		return SwitchOn
	}
	return SwitchOff
}
