package aggregate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferdale/srt-unit-translator/internal/subtitle"
)

func newAggregator(t *testing.T, opts Options) *Aggregator {
	t.Helper()
	if opts.MaxStatements == 0 {
		opts.MaxStatements = 3
	}
	if opts.MaxWords == 0 {
		opts.MaxWords = 20
	}
	agg, err := New(opts)
	require.NoError(t, err)
	return agg
}

func cue(start, end, text string) subtitle.Cue {
	return subtitle.Cue{Start: start, End: end, Text: text}
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{MaxStatements: 0, MaxWords: 10})
	assert.Error(t, err)

	_, err = New(Options{MaxStatements: 3, MaxWords: 0})
	assert.Error(t, err)
}

func TestMerge_SentenceSpansThreeCues(t *testing.T) {
	agg := newAggregator(t, Options{})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "Hello"),
		cue("00:00:01,000", "00:00:02,000", "there"),
		cue("00:00:02,000", "00:00:03,000", "friend."),
	})

	require.Len(t, units, 1)
	assert.Equal(t, "00:00:00,000", units[0].Start)
	assert.Equal(t, "00:00:03,000", units[0].End)
	assert.Equal(t, "Hello there friend.", units[0].Text)
}

func TestMerge_WordCapRefusesEveryMerge(t *testing.T) {
	agg := newAggregator(t, Options{MaxWords: 1})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "Hello"),
		cue("00:00:01,000", "00:00:02,000", "there"),
		cue("00:00:02,000", "00:00:03,000", "friend."),
	})

	require.Len(t, units, 3)
	assert.Equal(t, "Hello", units[0].Text)
	assert.Equal(t, "there", units[1].Text)
	assert.Equal(t, "friend.", units[2].Text)
	// Each unit keeps its own cue's span.
	assert.Equal(t, "00:00:01,000", units[1].Start)
	assert.Equal(t, "00:00:02,000", units[1].End)
}

func TestMerge_DelimiterFlushesUnit(t *testing.T) {
	agg := newAggregator(t, Options{MaxStatements: 10})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "First sentence."),
		cue("00:00:01,000", "00:00:02,000", "Second one"),
		cue("00:00:02,000", "00:00:03,000", "keeps going!"),
	})

	require.Len(t, units, 2)
	assert.Equal(t, "First sentence.", units[0].Text)
	assert.Equal(t, "Second one keeps going!", units[1].Text)
	assert.Equal(t, "00:00:01,000", units[1].Start)
	assert.Equal(t, "00:00:03,000", units[1].End)
}

func TestMerge_StatementCapForcesFlush(t *testing.T) {
	agg := newAggregator(t, Options{MaxStatements: 2, MaxWords: 100})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "one"),
		cue("00:00:01,000", "00:00:02,000", "two"),
		cue("00:00:02,000", "00:00:03,000", "three"),
		cue("00:00:03,000", "00:00:04,000", "four"),
	})

	require.Len(t, units, 2)
	assert.Equal(t, "one two", units[0].Text)
	assert.Equal(t, "three four", units[1].Text)
}

func TestMerge_StatementCapOfOneDisablesMerging(t *testing.T) {
	agg := newAggregator(t, Options{MaxStatements: 1, MaxWords: 100})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "one"),
		cue("00:00:01,000", "00:00:02,000", "two"),
		cue("00:00:02,000", "00:00:03,000", "three"),
	})

	require.Len(t, units, 3)
}

func TestMerge_DuplicateCuesCollapse(t *testing.T) {
	agg := newAggregator(t, Options{})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "Same line."),
		cue("00:00:01,000", "00:00:02,000", "Same line."),
	})

	require.Len(t, units, 1)
	assert.Equal(t, "Same line.", units[0].Text)
	// Collapsed cue keeps the earlier start and the later end.
	assert.Equal(t, "00:00:00,000", units[0].Start)
	assert.Equal(t, "00:00:02,000", units[0].End)
}

func TestMerge_DuplicateSuppressionDoesNotCountAgainstCap(t *testing.T) {
	agg := newAggregator(t, Options{MaxStatements: 2, MaxWords: 100})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "repeat"),
		cue("00:00:01,000", "00:00:02,000", "repeat"),
		cue("00:00:02,000", "00:00:03,000", "repeat"),
		cue("00:00:03,000", "00:00:04,000", "end"),
	})

	// Three identical cues collapse to one statement, leaving room
	// for "end" inside the two-statement cap.
	require.Len(t, units, 1)
	assert.Equal(t, "repeat end", units[0].Text)
	assert.Equal(t, "00:00:00,000", units[0].Start)
	assert.Equal(t, "00:00:04,000", units[0].End)
}

func TestMerge_EmptyCuesAreDropped(t *testing.T) {
	agg := newAggregator(t, Options{})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "   "),
		cue("00:00:01,000", "00:00:02,000", "Kept."),
		cue("00:00:02,000", "00:00:03,000", ""),
	})

	require.Len(t, units, 1)
	assert.Equal(t, "Kept.", units[0].Text)
}

func TestMerge_EndOfSequenceAlwaysFlushes(t *testing.T) {
	agg := newAggregator(t, Options{MaxStatements: 10, MaxWords: 100})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "trailing words with"),
		cue("00:00:01,000", "00:00:02,000", "no delimiter at all"),
	})

	require.Len(t, units, 1)
	assert.Equal(t, "trailing words with no delimiter at all", units[0].Text)
}

func TestMerge_OversizedSingleCueSurvivesUnsplit(t *testing.T) {
	agg := newAggregator(t, Options{MaxWords: 3})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "this single cue has far too many words"),
		cue("00:00:01,000", "00:00:02,000", "short."),
	})

	require.Len(t, units, 2)
	assert.Equal(t, "this single cue has far too many words", units[0].Text)
	assert.Equal(t, "short.", units[1].Text)
}

func TestMerge_UserDelimitersUnionBuiltins(t *testing.T) {
	agg := newAggregator(t, Options{Delimiters: []string{"~"}, MaxStatements: 10, MaxWords: 100})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "custom boundary~"),
		cue("00:00:01,000", "00:00:02,000", "builtin boundary."),
	})

	require.Len(t, units, 2)
}

func TestMerge_DelimiterMatchIsCaseSensitiveSuffix(t *testing.T) {
	agg := newAggregator(t, Options{Delimiters: []string{"END"}, MaxStatements: 10, MaxWords: 100})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "lower end"),
		cue("00:00:01,000", "00:00:02,000", "upper END"),
		cue("00:00:02,000", "00:00:03,000", "tail"),
	})

	require.Len(t, units, 2)
	assert.Equal(t, "lower end upper END", units[0].Text)
	assert.Equal(t, "tail", units[1].Text)
}

func TestMerge_MarkupAndURLDelimiters(t *testing.T) {
	agg := newAggregator(t, Options{MaxStatements: 10, MaxWords: 100})

	units := agg.Merge([]subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "<i>Is that so?</i>"),
		cue("00:00:01,000", "00:00:02,000", "Visit example.org"),
		cue("00:00:02,000", "00:00:03,000", "done"),
	})

	require.Len(t, units, 3)
}

func TestMerge_OrderAndTextPreserved(t *testing.T) {
	cues := []subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "a b"),
		cue("00:00:01,000", "00:00:02,000", "c."),
		cue("00:00:02,000", "00:00:03,000", ""),
		cue("00:00:03,000", "00:00:04,000", "d"),
		cue("00:00:04,000", "00:00:05,000", "d"),
		cue("00:00:05,000", "00:00:06,000", "e f g!"),
		cue("00:00:06,000", "00:00:07,000", "h"),
	}

	agg := newAggregator(t, Options{MaxStatements: 4, MaxWords: 10})
	units := agg.Merge(cues)

	var merged []string
	for _, u := range units {
		merged = append(merged, u.Text)
	}
	// Concatenated unit text equals the original cue text in order,
	// modulo empty-cue removal and duplicate collapsing.
	assert.Equal(t, "a b c. d e f g! h", strings.Join(merged, " "))
}

func TestMerge_SpanCoversAbsorbedCues(t *testing.T) {
	agg := newAggregator(t, Options{MaxStatements: 5, MaxWords: 50})

	units := agg.Merge([]subtitle.Cue{
		cue("00:01:00,000", "00:01:02,000", "part one"),
		cue("00:01:02,500", "00:01:04,000", "part two"),
		cue("00:01:04,500", "00:01:06,000", "part three."),
	})

	require.Len(t, units, 1)
	assert.Equal(t, "00:01:00,000", units[0].Start)
	assert.Equal(t, "00:01:06,000", units[0].End)
}

func TestMerge_NoCues(t *testing.T) {
	agg := newAggregator(t, Options{})
	assert.Empty(t, agg.Merge(nil))
}

func TestMerge_InputSliceNotMutated(t *testing.T) {
	cues := []subtitle.Cue{
		cue("00:00:00,000", "00:00:01,000", "a"),
		cue("00:00:01,000", "00:00:02,000", "b."),
	}
	agg := newAggregator(t, Options{})
	_ = agg.Merge(cues)

	assert.Equal(t, "a", cues[0].Text)
	assert.Equal(t, "b.", cues[1].Text)
	assert.Equal(t, "00:00:01,000", cues[1].Start)
}
