package subtitle

import "golang.org/x/text/language"

// Reader is the interface for reading subtitle files
type Reader interface {
	Read() (*File, error)
}

// Writer is the interface for writing subtitle files
type Writer interface {
	Write(path string, subtitle *File) error
}

// Cue represents a single subtitle entry. Timestamps are kept in their
// textual `HH:MM:SS,mmm` form; they are order-preserving as read and
// nothing downstream needs them as numeric time.
type Cue struct {
	Start string // start timestamp
	End   string // end timestamp
	Text  string // cue text, inner line breaks already joined by spaces
}

// File represents a parsed subtitle file. Cues are identified by their
// slice position, never by timestamp identity.
type File struct {
	Cues     []Cue
	Language language.Tag
	Format   string // e.g. SRT
	Path     string
}
