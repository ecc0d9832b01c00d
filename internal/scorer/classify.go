// Package scorer scores typing sessions against a code snippet.
package scorer

import (
	"strings"

	"github.com/verte-zerg/codetype/internal/model"
)

// specialChars is wider than the tracked classes: '<', '>' and ':' count
// toward the special-character total but never toward a class counter.
const specialChars = "{}[]()<>:;"

// Class is a tracked category of special characters.
type Class int

const (
	ClassNone Class = iota
	ClassBracket
	ClassSemicolon
	ClassParenthesis
)

// Bucket names as used in stored aggregates and weak-class selection.
const (
	BucketBrackets    = "brackets"
	BucketSemicolons  = "semicolons"
	BucketParentheses = "parentheses"
	BucketIndentation = "indentation"
)

// Buckets lists every counter bucket in display order.
var Buckets = []string{BucketBrackets, BucketSemicolons, BucketParentheses, BucketIndentation}

func (c Class) String() string {
	switch c {
	case ClassBracket:
		return BucketBrackets
	case ClassSemicolon:
		return BucketSemicolons
	case ClassParenthesis:
		return BucketParentheses
	default:
		return "none"
	}
}

// Classify returns the tracked class of r.
func Classify(r rune) Class {
	switch r {
	case '{', '}', '[', ']':
		return ClassBracket
	case ';':
		return ClassSemicolon
	case '(', ')':
		return ClassParenthesis
	default:
		return ClassNone
	}
}

// IsSpecial reports whether r belongs to the special-character set.
func IsSpecial(r rune) bool {
	return strings.ContainsRune(specialChars, r)
}

// CountSpecialChars counts the special characters in text.
func CountSpecialChars(text string) int {
	count := 0
	for _, r := range text {
		if IsSpecial(r) {
			count++
		}
	}
	return count
}

// RecordClassification increments one counter of the class bucket.
// ClassNone is ignored.
func RecordClassification(c Class, correct bool, stats *model.SpecialCharStats) {
	var counter *model.Counter
	switch c {
	case ClassBracket:
		counter = &stats.Brackets
	case ClassSemicolon:
		counter = &stats.Semicolons
	case ClassParenthesis:
		counter = &stats.Parentheses
	default:
		return
	}
	bump(counter, correct)
}

// RecordIndentation records whether an inserted indent matched the expected one.
func RecordIndentation(expected, actual string, stats *model.SpecialCharStats) {
	bump(&stats.Indentation, expected == actual)
}

// SyntaxErrorCount sums incorrect brackets, semicolons and parentheses.
func SyntaxErrorCount(stats model.SpecialCharStats) int {
	return stats.Brackets.Incorrect + stats.Semicolons.Incorrect + stats.Parentheses.Incorrect
}

// BucketCounter returns the counter stored under a bucket name.
func BucketCounter(stats model.SpecialCharStats, bucket string) (model.Counter, bool) {
	switch bucket {
	case BucketBrackets:
		return stats.Brackets, true
	case BucketSemicolons:
		return stats.Semicolons, true
	case BucketParentheses:
		return stats.Parentheses, true
	case BucketIndentation:
		return stats.Indentation, true
	default:
		return model.Counter{}, false
	}
}

func bump(counter *model.Counter, correct bool) {
	if correct {
		counter.Correct++
		return
	}
	counter.Incorrect++
}
