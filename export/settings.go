package export

import (
	"fmt"
	"strconv"
)

// Settings are the three GIF encoding knobs collected by the configurator.
type Settings struct {
	Width     int
	FrameRate int
	Colors    int
}

// Defaults seeding the configurator fields. The width field is normally
// pre-filled with the capture's native width instead.
const (
	DefaultWidth     = 320
	DefaultFrameRate = 10
	DefaultColors    = 128
)

// FieldError reports an unusable settings field by name so the configurator
// can show which input to fix.
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}

func parseField(field, text string) (int, error) {
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, &FieldError{Field: field, Value: text, Reason: "not an integer"}
	}
	return v, nil
}

// Parse converts the raw field texts into validated Settings. It runs before
// the export pipeline starts, so bad input never reaches a tool.
func Parse(widthText, frameRateText, colorsText string) (Settings, error) {
	width, err := parseField("width", widthText)
	if err != nil {
		return Settings{}, err
	}
	if width < 1 {
		return Settings{}, &FieldError{Field: "width", Value: widthText, Reason: "must be positive"}
	}

	frameRate, err := parseField("frame rate", frameRateText)
	if err != nil {
		return Settings{}, err
	}
	if frameRate < 1 {
		return Settings{}, &FieldError{Field: "frame rate", Value: frameRateText, Reason: "must be positive"}
	}

	colors, err := parseField("max. colors", colorsText)
	if err != nil {
		return Settings{}, err
	}
	if colors < 1 || colors > 256 {
		return Settings{}, &FieldError{Field: "max. colors", Value: colorsText, Reason: "must be between 1 and 256"}
	}

	return Settings{Width: width, FrameRate: frameRate, Colors: colors}, nil
}
