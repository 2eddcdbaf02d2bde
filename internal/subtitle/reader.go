package subtitle

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// timestampPattern matches an SRT timing line. Lines that do not match
// are treated as cue text, never as an error.
var timestampPattern = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2},\d{3}) --> (\d{2}:\d{2}:\d{2},\d{3})$`)

const utf8BOM = "\uFEFF"

// DefaultReader is the default subtitle file reader
type DefaultReader struct {
	path string
}

// NewReader creates a new subtitle file reader
func NewReader(path string) Reader {
	return &DefaultReader{
		path: path,
	}
}

// Read reads and parses an SRT subtitle file
func (r *DefaultReader) Read() (*File, error) {
	if !strings.HasSuffix(strings.ToLower(r.path), ".srt") {
		return nil, fmt.Errorf("only SRT format subtitle files are supported: %s", r.path)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	file, err := ParseSRT(data)
	if err != nil {
		return nil, err
	}
	file.Path = r.path
	return file, nil
}

// ParseSRT parses raw SRT content into cues in file order.
//
// The scan is driven entirely by timing lines: a timestamp line opens a
// new cue and every non-timestamp line until the next one accumulates
// as that cue's text. Index lines are never interpreted; anything seen
// before the first timing line (stray indices, headers) is discarded.
// Multi-line text is joined with a single space and trimmed.
func ParseSRT(data []byte) (*File, error) {
	data = bytes.TrimPrefix(data, []byte(utf8BOM))

	var cues []Cue
	var textLines []string
	var current *Cue

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(strings.Join(textLines, " "))
		cues = append(cues, *current)
		current = nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	afterGap := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := timestampPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = &Cue{Start: m[1], End: m[2]}
			textLines = textLines[:0]
			afterGap = false
			continue
		}

		if line == "" {
			afterGap = true
			continue
		}

		if current == nil {
			// No timing line seen yet. Index lines and stray
			// leading content carry no cue of their own.
			continue
		}

		if afterGap && isIndexLine(line) {
			// Sequence number opening the next block.
			continue
		}
		afterGap = false
		textLines = append(textLines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan subtitle content: %w", err)
	}

	return &File{
		Cues:     cues,
		Language: DetectLanguage(cues),
		Format:   "SRT",
	}, nil
}

// isIndexLine reports whether line is a bare block sequence number.
func isIndexLine(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DetectLanguage picks the dominant language across cue texts.
func DetectLanguage(cues []Cue) language.Tag {
	if len(cues) == 0 {
		return language.Und
	}

	langMap := make(map[string]int)
	for _, cue := range cues {
		if cue.Text == "" {
			continue
		}
		lang := whatlanggo.DetectLang(cue.Text).Iso6391()
		langMap[lang]++
	}

	var topLang string
	var topCount int
	for lang, count := range langMap {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}

	if topLang == "" {
		return language.Und
	}
	return language.Make(topLang)
}
