package aggregate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ferdale/srt-unit-translator/internal/subtitle"
)

// Unit is one or more consecutive cues collapsed into a single
// translation-ready span. Start comes from the earliest absorbed cue,
// End from the last one, Text is the ordered space-joined cue text.
type Unit struct {
	Start string
	End   string
	Text  string
}

// defaultDelimiters are the built-in statement-ending suffixes. User
// delimiters are unioned with this set; a cue ends a statement when its
// text ends with any entry (plain suffix match, case-sensitive).
var defaultDelimiters = []string{
	".", "?", "!", ")", "]",
	".\"", "?\"", "!\"",
	".</i>", "?</i>", "!</i>",
	".org", ".com",
}

// Options configures an Aggregator.
type Options struct {
	// Delimiters are extra statement-ending suffixes, unioned with
	// the built-in set.
	Delimiters []string
	// MaxStatements caps how many cues a unit may absorb. 1 disables
	// merging apart from adjacent-duplicate collapsing.
	MaxStatements int
	// MaxWords caps the whitespace-separated token count of a unit.
	// A prospective merge that would exceed it is refused and the
	// pending text flushes on its own.
	MaxWords int
}

// Aggregator merges short consecutive cues into larger translation
// units in a single forward pass with one-cue lookahead.
type Aggregator struct {
	delimiters    []string
	maxStatements int
	maxWords      int
}

// New validates opts and builds an Aggregator.
func New(opts Options) (*Aggregator, error) {
	if opts.MaxStatements < 1 {
		return nil, fmt.Errorf("max aggregated statements must be at least 1, got %d", opts.MaxStatements)
	}
	if opts.MaxWords < 1 {
		return nil, fmt.Errorf("max aggregated words must be at least 1, got %d", opts.MaxWords)
	}

	delimiters := slices.Clone(defaultDelimiters)
	for _, d := range opts.Delimiters {
		if d != "" && !slices.Contains(delimiters, d) {
			delimiters = append(delimiters, d)
		}
	}

	return &Aggregator{
		delimiters:    delimiters,
		maxStatements: opts.MaxStatements,
		maxWords:      opts.MaxWords,
	}, nil
}

// Merge collapses cues into translation units.
//
// The pass never buffers a growing unit: a cue that does not finish a
// statement pushes its text and start timestamp forward into the next
// cue's slot, so every flush/continue decision only needs the current
// cue and one of lookahead. A cue flushes as the end of a unit when its
// text ends a statement, when it is the last cue, or when the unit has
// absorbed MaxStatements cues. A merge that would push the combined
// word count past MaxWords is refused and the pending text flushes
// alone. Empty cues are dropped; a cue whose text equals the next cue's
// text collapses into it keeping the earlier start, without advancing
// the statement counter.
func (a *Aggregator) Merge(cues []subtitle.Cue) []Unit {
	work := slices.Clone(cues)
	units := make([]Unit, 0, len(work))
	absorbed := 1 // cues merged into the unit in progress, current one included

	for idx := 0; idx < len(work); idx++ {
		text := strings.TrimSpace(work[idx].Text)
		if text == "" {
			continue
		}

		// Immediately repeated captions collapse into the later
		// slot, keeping the earlier start timestamp.
		if idx+1 < len(work) && text == strings.TrimSpace(work[idx+1].Text) {
			work[idx+1].Start = work[idx].Start
			continue
		}

		lastCue := idx == len(work)-1
		if lastCue || a.endsStatement(text) || absorbed >= a.maxStatements {
			units = append(units, Unit{
				Start: work[idx].Start,
				End:   work[idx].End,
				Text:  text,
			})
			absorbed = 1
			continue
		}

		combined := text + " " + strings.TrimSpace(work[idx+1].Text)
		if wordCount(combined) > a.maxWords {
			units = append(units, Unit{
				Start: work[idx].Start,
				End:   work[idx].End,
				Text:  text,
			})
			absorbed = 1
			continue
		}

		work[idx+1].Text = combined
		work[idx+1].Start = work[idx].Start
		absorbed++
	}

	return units
}

// endsStatement reports whether text ends with any delimiter of the
// unioned set.
func (a *Aggregator) endsStatement(text string) bool {
	for _, d := range a.delimiters {
		if strings.HasSuffix(text, d) {
			return true
		}
	}
	return false
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
