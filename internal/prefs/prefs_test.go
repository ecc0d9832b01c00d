package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	p := Defaults()
	p.Theme = "neon"
	p.TestDuration = 45

	err := Validate(p)
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "theme must be one of [light dark system]")
	assert.Contains(t, err.Error(), "test-duration must be one of [15 30 60 120 300]")
}

func TestSet(t *testing.T) {
	p, err := Set(Defaults(), "theme", "Dark")
	require.NoError(t, err)
	assert.Equal(t, "dark", p.Theme)

	p, err = Set(p, "line-numbers", "false")
	require.NoError(t, err)
	assert.False(t, p.ShowLineNumbers)

	p, err = Set(p, "test-duration", "120")
	require.NoError(t, err)
	assert.Equal(t, 120, p.TestDuration)

	_, err = Set(p, "test-duration", "7")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Set(p, "keyboard-sounds", "loud")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Set(p, "colour", "red")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFontSizeMapping(t *testing.T) {
	for _, size := range []string{"small", "medium", "large"} {
		assert.Equal(t, size, FontSizeFromPoints(FontSizePoints(size)))
	}
	assert.Equal(t, "small", FontSizeFromPoints(10))
	assert.Equal(t, "large", FontSizeFromPoints(20))
	assert.Equal(t, 14, FontSizePoints("unknown"))
}

func TestParseAssignment(t *testing.T) {
	key, value, err := ParseAssignment("theme=light")
	require.NoError(t, err)
	assert.Equal(t, "theme", key)
	assert.Equal(t, "light", value)

	_, _, err = ParseAssignment("theme")
	assert.Error(t, err)
}

func TestLinesSorted(t *testing.T) {
	lines := Lines(Defaults())
	require.Len(t, lines, 7)
	assert.Equal(t, "auto-complete = false", lines[0])
	assert.Equal(t, "test-duration = 60", lines[len(lines)-2])
	assert.Equal(t, "theme = system", lines[len(lines)-1])
}
