package scorer

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/codetype/internal/model"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time {
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newClock() *manualClock {
	return &manualClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

type progressCall struct {
	index  int
	errors int
}

func TestProcessInputTwoCharTarget(t *testing.T) {
	clock := newClock()
	var calls []progressCall
	var results []model.Result
	s, err := New("ab", Config{
		Now:        clock.Now,
		OnProgress: func(i, e int) { calls = append(calls, progressCall{i, e}) },
		OnComplete: func(r model.Result) { results = append(results, r) },
	})
	require.NoError(t, err)

	st := s.ProcessInput("a")
	assert.Equal(t, 1, st.CurrentIndex)
	assert.Equal(t, 1, st.CorrectChars)
	assert.Equal(t, 0, st.Errors)
	assert.True(t, st.Started)
	assert.False(t, st.Completed)
	assert.Equal(t, []progressCall{{1, 0}}, calls)

	st = s.ProcessInput("ax")
	assert.Equal(t, 2, st.CurrentIndex)
	assert.Equal(t, 1, st.CorrectChars)
	assert.Equal(t, 1, st.Errors)
	assert.True(t, st.Completed)
	assert.Equal(t, []progressCall{{1, 0}, {2, 1}}, calls)

	require.Len(t, results, 1)
	assert.Equal(t, 50, results[0].Accuracy)
	assert.Equal(t, 0, results[0].WPM)
	assert.Equal(t, 1, results[0].Errors)
	assert.Equal(t, 2, results[0].CharactersTyped)
	assert.Equal(t, 1, results[0].CorrectCharacters)
}

func TestProcessInputSemicolonMismatch(t *testing.T) {
	s, err := New("a;b", Config{Now: newClock().Now})
	require.NoError(t, err)

	st := s.ProcessInput("a,b")
	require.True(t, st.Completed)
	special := s.Special()
	assert.Equal(t, 1, special.Semicolons.Incorrect)
	assert.Equal(t, 0, special.Semicolons.Correct)

	result, err := s.Result()
	require.NoError(t, err)
	require.NotNil(t, result.Code)
	assert.GreaterOrEqual(t, result.Code.SyntaxErrorCount, 1)
	assert.Equal(t, 1, result.Code.SpecialCharCount)
}

func TestEmptyTargetRejected(t *testing.T) {
	_, err := New("", Config{})
	assert.ErrorIs(t, err, ErrEmptyTarget)

	s, err := New("x", Config{})
	require.NoError(t, err)
	assert.ErrorIs(t, s.ResetTarget(""), ErrEmptyTarget)
	assert.Equal(t, "x", s.Target())
}

func TestEmptySubmissionDoesNotStart(t *testing.T) {
	calls := 0
	s, err := New("abc", Config{OnProgress: func(int, int) { calls++ }})
	require.NoError(t, err)

	st := s.ProcessInput("")
	assert.False(t, st.Started)
	assert.True(t, st.StartTime.IsZero())
	assert.Equal(t, 0, st.CurrentIndex)
	assert.Equal(t, 1, calls)
}

func TestUnclassifiedSpecialChars(t *testing.T) {
	target := "a<b>c:d;"
	assert.Equal(t, 4, CountSpecialChars(target))

	s, err := New(target, Config{Now: newClock().Now})
	require.NoError(t, err)
	s.ProcessInput("a.b.c.d;")

	special := s.Special()
	assert.Equal(t, model.Counter{}, special.Brackets)
	assert.Equal(t, model.Counter{}, special.Parentheses)
	assert.Equal(t, model.Counter{Correct: 1}, special.Semicolons)

	result, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 4, result.Code.SpecialCharCount)
	assert.Equal(t, 0, result.Code.SyntaxErrorCount)
	assert.Equal(t, 3, result.Errors)
}

func TestInsertIndent(t *testing.T) {
	target := "if x {\n  y;\n}"
	tests := []struct {
		name    string
		unit    string
		correct int
		wrong   int
	}{
		{name: "two spaces", unit: "  ", correct: 1},
		{name: "one space", unit: " ", wrong: 1},
		{name: "four spaces", unit: "    ", wrong: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(target, Config{IndentUnit: tt.unit, Now: newClock().Now})
			require.NoError(t, err)
			s.ProcessInput("if x {\n")

			text, st := s.InsertIndent("if x {\n", 7)
			assert.Equal(t, "if x {\n"+tt.unit, text)
			assert.Equal(t, model.Counter{Correct: tt.correct, Incorrect: tt.wrong}, s.Special().Indentation)
			assert.Equal(t, len([]rune(text)), st.CurrentIndex)
			assert.Equal(t, st.CurrentIndex, st.CorrectChars+st.Errors)
		})
	}
}

func TestInsertIndentOutsideIndentation(t *testing.T) {
	s, err := New("ab\n  c", Config{})
	require.NoError(t, err)

	text, st := s.InsertIndent("a", 1)
	assert.Equal(t, "a  ", text)
	assert.Equal(t, model.Counter{Incorrect: 1}, s.Special().Indentation)
	assert.Equal(t, 3, st.CurrentIndex)
	assert.Equal(t, 2, st.Errors)
}

func TestInsertIndentCursorClamped(t *testing.T) {
	s, err := New("x\n  y", Config{})
	require.NoError(t, err)

	text, _ := s.InsertIndent("x\n", 99)
	assert.Equal(t, "x\n  ", text)
	assert.Equal(t, model.Counter{Correct: 1}, s.Special().Indentation)
}

func TestExpectedIndent(t *testing.T) {
	target := []rune("a\n    b\n\tc")
	assert.Equal(t, "    ", ExpectedIndent(target, 2))
	assert.Equal(t, "  ", ExpectedIndent(target, 4))
	assert.Equal(t, "", ExpectedIndent(target, 6))
	assert.Equal(t, "\t", ExpectedIndent(target, 8))
	assert.Equal(t, "", ExpectedIndent(target, 0))
	assert.Equal(t, "", ExpectedIndent(target, -1))
	assert.Equal(t, "", ExpectedIndent(target, 100))
}

func TestProcessInputIdempotent(t *testing.T) {
	s, err := New("func() { x; }", Config{Now: newClock().Now})
	require.NoError(t, err)

	first := s.ProcessInput("func[) {")
	firstSpecial := s.Special()
	second := s.ProcessInput("func[) {")
	assert.Equal(t, first, second)
	assert.Equal(t, firstSpecial, s.Special())
}

func TestProcessInputMonotonic(t *testing.T) {
	target := "for (i = 0; i < n; i++) {\n  sum += i;\n}"
	s, err := New(target, Config{Now: newClock().Now})
	require.NoError(t, err)

	typed := "for (i = 0: i < n; i++) {\n  sum -= i;\n}"
	prev := s.ProcessInput("")
	for i := 1; i <= len(typed); i++ {
		next := s.ProcessInput(typed[:i])
		assert.Equal(t, prev.CurrentIndex+1, next.CurrentIndex)
		assert.Equal(t, prev.Errors+prev.CorrectChars+1, next.Errors+next.CorrectChars)
		prev = next
	}
	assert.True(t, prev.Completed)
	assert.Equal(t, 2, prev.Errors)
	assert.Equal(t, model.Counter{Correct: 2, Incorrect: 1}, s.Special().Semicolons)
	assert.Equal(t, model.Counter{Correct: 2}, s.Special().Parentheses)
	assert.Equal(t, model.Counter{Correct: 2}, s.Special().Brackets)
}

func TestInvariantHoldsForArbitraryInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	alphabet := []rune("ab;{}()[] \n")
	target := "a{b;}(a)\n [b]"
	for round := 0; round < 200; round++ {
		s, err := New(target, Config{Now: newClock().Now})
		require.NoError(t, err)
		for step := 0; step < 10; step++ {
			n := rnd.Intn(len(target) + 4)
			buf := make([]rune, n)
			for i := range buf {
				buf[i] = alphabet[rnd.Intn(len(alphabet))]
			}
			st := s.ProcessInput(string(buf))
			assert.Equal(t, st.CurrentIndex, st.Errors+st.CorrectChars)
			assert.LessOrEqual(t, st.CurrentIndex, st.TotalChars)
			assert.Equal(t, st.Completed, st.CurrentIndex == st.TotalChars)
			if st.Completed {
				result, err := s.Result()
				require.NoError(t, err)
				assert.GreaterOrEqual(t, result.Accuracy, 0)
				assert.LessOrEqual(t, result.Accuracy, 100)
				break
			}
		}
	}
}

func TestSpecialCountsNotRepeatedOnBackspace(t *testing.T) {
	s, err := New("a;", Config{Now: newClock().Now})
	require.NoError(t, err)

	s.ProcessInput("a")
	s.ProcessInput("a,")
	assert.Equal(t, model.Counter{Incorrect: 1}, s.Special().Semicolons)

	s2, err := New("a;b", Config{Now: newClock().Now})
	require.NoError(t, err)
	s2.ProcessInput("a,")
	s2.ProcessInput("a")
	s2.ProcessInput("a;")
	assert.Equal(t, model.Counter{Incorrect: 1}, s2.Special().Semicolons)
	assert.Equal(t, 0, s2.State().Errors)
}

func TestOverlongSubmissionTruncated(t *testing.T) {
	completions := 0
	s, err := New("ab", Config{Now: newClock().Now, OnComplete: func(model.Result) { completions++ }})
	require.NoError(t, err)

	st := s.ProcessInput("abcdef")
	assert.True(t, st.Completed)
	assert.Equal(t, 2, st.CurrentIndex)
	assert.Equal(t, 2, st.CorrectChars)
	assert.Equal(t, 0, st.Errors)

	s.ProcessInput("abcdefg")
	s.ProcessInput("ab")
	assert.Equal(t, 1, completions)
}

func TestCompletedSessionIgnoresInput(t *testing.T) {
	clock := newClock()
	s, err := New("ab", Config{Now: clock.Now})
	require.NoError(t, err)
	s.ProcessInput("ab")
	done := s.State()

	clock.Advance(time.Minute)
	assert.Equal(t, done, s.ProcessInput("a"))
	text, st := s.InsertIndent("ab", 2)
	assert.Equal(t, "ab", text)
	assert.Equal(t, done, st)
	assert.Equal(t, model.Counter{}, s.Special().Indentation)
}

func TestResetClearsState(t *testing.T) {
	s, err := New("x;", Config{Now: newClock().Now})
	require.NoError(t, err)
	s.ProcessInput("x,")
	s.Reset()

	assert.Equal(t, State{TotalChars: 2}, s.State())
	assert.Equal(t, model.SpecialCharStats{}, s.Special())

	require.NoError(t, s.ResetTarget("abc"))
	assert.Equal(t, State{TotalChars: 3}, s.State())
	assert.Equal(t, "abc", s.Target())

	_, err = s.Result()
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestTimedResult(t *testing.T) {
	clock := newClock()
	s, err := New("abcdefghij", Config{Now: clock.Now})
	require.NoError(t, err)

	s.ProcessInput("a")
	clock.Advance(6 * time.Second)
	s.ProcessInput("abcdefghij")

	result, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 20, result.WPM)
	assert.Equal(t, 100, result.Accuracy)
	assert.Equal(t, 6, result.Time)
}

func TestPlainSessionHasNoCodeMetrics(t *testing.T) {
	s, err := New("a;", Config{Plain: true, Now: newClock().Now})
	require.NoError(t, err)
	s.ProcessInput("a;")

	result, err := s.Result()
	require.NoError(t, err)
	assert.Nil(t, result.Code)
}

func TestRunesComparedNotBytes(t *testing.T) {
	s, err := New("héllo", Config{Now: newClock().Now})
	require.NoError(t, err)

	st := s.ProcessInput("hé")
	assert.Equal(t, 2, st.CurrentIndex)
	assert.Equal(t, 2, st.CorrectChars)
	assert.Equal(t, 5, st.TotalChars)
}
