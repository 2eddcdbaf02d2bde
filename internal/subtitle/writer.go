package subtitle

import (
	"bufio"
	"fmt"
	"os"
)

// DefaultWriter is the default subtitle file writer
type DefaultWriter struct{}

// NewWriter creates a new subtitle file writer
func NewWriter() Writer {
	return &DefaultWriter{}
}

// Write renders the subtitle file as SRT at path. The output starts
// with a UTF-8 byte-order marker for players that require a marked
// file. Block indices are regenerated as 1-based sequence numbers and
// timestamps are written back verbatim, untouched.
func (w *DefaultWriter) Write(path string, subtitle *File) error {
	if subtitle == nil {
		return fmt.Errorf("subtitle data is empty")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	for i, cue := range subtitle.Cues {
		fmt.Fprintf(writer, "%d\n", i+1)
		fmt.Fprintf(writer, "%s --> %s\n", cue.Start, cue.End)
		fmt.Fprintf(writer, "%s\n\n", cue.Text)
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
