package scorer

import (
	"errors"
	"math"

	"github.com/verte-zerg/codetype/internal/model"
)

// ErrIncomplete is returned when aggregating a session that has not completed.
var ErrIncomplete = errors.New("session is not completed")

// Aggregate derives the final result from a completed session snapshot.
// A nil special yields a result without code metrics. The output depends
// only on its arguments.
func Aggregate(state State, special *model.SpecialCharStats, target string) (model.Result, error) {
	if !state.Completed {
		return model.Result{}, ErrIncomplete
	}
	durationMs := state.EndTime.Sub(state.StartTime).Milliseconds()
	result := model.Result{
		WPM:               WPM(state.CorrectChars, durationMs),
		Accuracy:          Accuracy(state.CorrectChars, state.TotalChars),
		Errors:            state.Errors,
		Time:              int(math.Round(float64(durationMs) / 1000)),
		CharactersTyped:   state.TotalChars,
		CorrectCharacters: state.CorrectChars,
	}
	if special != nil {
		result.Code = &model.CodeMetrics{
			SpecialCharCount:  CountSpecialChars(target),
			SyntaxErrorCount:  SyntaxErrorCount(*special),
			IndentationErrors: special.Indentation.Incorrect,
		}
	}
	return result, nil
}

// WPM converts correct characters over a duration into words per minute,
// five characters to a word. Durations under a millisecond yield 0.
func WPM(correct int, durationMs int64) int {
	if durationMs <= 0 {
		return 0
	}
	minutes := float64(durationMs) / 60000.0
	return int(math.Round((float64(correct) / 5.0) / minutes))
}

// Accuracy is the rounded percentage of correct characters. An empty
// target is fully accurate.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 100
	}
	acc := int(math.Round(float64(correct) / float64(total) * 100))
	if acc < 0 {
		return 0
	}
	if acc > 100 {
		return 100
	}
	return acc
}
