// Package prefs validates and edits user preferences.
package prefs

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/codetype/internal/model"
)

// ErrInvalid wraps preference validation failures.
var ErrInvalid = errors.New("invalid preferences")

var validate = validator.New()

// Defaults returns the preferences used when a user has none stored.
func Defaults() model.Preferences {
	return model.Preferences{
		Theme:           "system",
		FontSize:        "medium",
		KeyboardSounds:  false,
		ShowLineNumbers: true,
		TestDuration:    60,
		AutoComplete:    false,
		IncludeComments: true,
	}
}

// Validate checks every field against its allowed values.
func Validate(p model.Preferences) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", keyForField(fe.Field()), fe.Param()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// FontSizePoints maps a font size name to its stored point size.
func FontSizePoints(size string) int {
	switch size {
	case "small":
		return 12
	case "large":
		return 16
	default:
		return 14
	}
}

// FontSizeFromPoints maps a stored point size back to its name.
func FontSizeFromPoints(points int) string {
	switch {
	case points <= 12:
		return "small"
	case points >= 16:
		return "large"
	default:
		return "medium"
	}
}

var fieldKeys = map[string]string{
	"Theme":           "theme",
	"FontSize":        "font-size",
	"KeyboardSounds":  "keyboard-sounds",
	"ShowLineNumbers": "line-numbers",
	"TestDuration":    "test-duration",
	"AutoComplete":    "auto-complete",
	"IncludeComments": "include-comments",
}

func keyForField(field string) string {
	if key, ok := fieldKeys[field]; ok {
		return key
	}
	return field
}

// Keys lists the settable preference keys.
func Keys() []string {
	keys := make([]string, 0, len(fieldKeys))
	for _, k := range fieldKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set applies one key=value assignment and validates the result.
func Set(p model.Preferences, key, value string) (model.Preferences, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "theme":
		p.Theme = strings.ToLower(value)
	case "font-size":
		p.FontSize = strings.ToLower(value)
	case "keyboard-sounds":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return p, fmt.Errorf("%w: keyboard-sounds must be true or false", ErrInvalid)
		}
		p.KeyboardSounds = b
	case "line-numbers":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return p, fmt.Errorf("%w: line-numbers must be true or false", ErrInvalid)
		}
		p.ShowLineNumbers = b
	case "test-duration":
		n, err := strconv.Atoi(value)
		if err != nil {
			return p, fmt.Errorf("%w: test-duration must be a number of seconds", ErrInvalid)
		}
		p.TestDuration = n
	case "auto-complete":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return p, fmt.Errorf("%w: auto-complete must be true or false", ErrInvalid)
		}
		p.AutoComplete = b
	case "include-comments":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return p, fmt.Errorf("%w: include-comments must be true or false", ErrInvalid)
		}
		p.IncludeComments = b
	default:
		return p, fmt.Errorf("%w: unknown key %q (known: %s)", ErrInvalid, key, strings.Join(Keys(), ", "))
	}
	if err := Validate(p); err != nil {
		return p, err
	}
	return p, nil
}

// ParseAssignment splits "key=value".
func ParseAssignment(arg string) (string, string, error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", arg)
	}
	return key, value, nil
}

// Lines renders preferences as "key = value" lines in key order.
func Lines(p model.Preferences) []string {
	values := map[string]string{
		"theme":            p.Theme,
		"font-size":        p.FontSize,
		"keyboard-sounds":  strconv.FormatBool(p.KeyboardSounds),
		"line-numbers":     strconv.FormatBool(p.ShowLineNumbers),
		"test-duration":    strconv.Itoa(p.TestDuration),
		"auto-complete":    strconv.FormatBool(p.AutoComplete),
		"include-comments": strconv.FormatBool(p.IncludeComments),
	}
	lines := make([]string, 0, len(values))
	for _, key := range Keys() {
		lines = append(lines, fmt.Sprintf("%s = %s", key, values[key]))
	}
	return lines
}
