package service

import (
	"time"

	"golang.org/x/text/language"
)

// FileResult summarizes one file run through the pipeline.
type FileResult struct {
	InputPath      string
	OutputPath     string
	Units          int
	Skipped        bool
	SourceLanguage language.Tag
	TargetLanguage language.Tag
	Duration       time.Duration
}

// subtitleExts are the extensions accepted at the pipeline boundary.
// The parser itself only handles SRT; the wider list keeps the
// precondition check independent from parser support.
var subtitleExts = []string{
	".srt", // SubRip
	".ass", // Advanced SubStation Alpha
	".ssa", // SubStation Alpha
	".vtt", // WebVTT
	".sub", // MicroDVD/SubViewer
	".sbv", // YouTube
	".smi", // SAMI
	".stl", // Spruce subtitle format
}
