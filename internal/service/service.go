package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/ferdale/srt-unit-translator/internal/aggregate"
	"github.com/ferdale/srt-unit-translator/internal/config"
	"github.com/ferdale/srt-unit-translator/internal/history"
	"github.com/ferdale/srt-unit-translator/internal/subtitle"
	"github.com/ferdale/srt-unit-translator/internal/translator"
	"github.com/ferdale/srt-unit-translator/pkg/file"
	"github.com/ferdale/srt-unit-translator/pkg/icron"
	"github.com/ferdale/srt-unit-translator/pkg/log"
)

// Service drives the translation pipeline: parse, aggregate, translate
// unit by unit, serialize. One file at a time, one translation call at
// a time.
type Service struct {
	cfg        config.Config
	aggregator *aggregate.Aggregator
	translator translator.Translator
	writer     subtitle.Writer
	history    *history.Store // optional, nil disables the ledger
}

// New builds a Service from the run configuration. hist may be nil.
func New(cfg config.Config, tr translator.Translator, hist *history.Store) (*Service, error) {
	agg, err := aggregate.New(aggregate.Options{
		Delimiters:    cfg.Translate.StatementDelimiters,
		MaxStatements: cfg.Translate.MaxAggregatedStatements,
		MaxWords:      cfg.Translate.MaxAggregatedWords,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid aggregation options: %w", err)
	}

	return &Service{
		cfg:        cfg,
		aggregator: agg,
		translator: tr,
		writer:     subtitle.NewWriter(),
		history:    hist,
	}, nil
}

// TranslateFile runs the whole pipeline for one subtitle file. The
// output file is written once, after every unit has been translated; a
// translation failure leaves no partial output behind. An existing
// output file short-circuits the run.
func (s *Service) TranslateFile(ctx context.Context, inputPath, outputPath string) (*FileResult, error) {
	if !isSubtitleFile(inputPath) {
		return nil, fmt.Errorf("input path %s is not a subtitle file", inputPath)
	}
	if !isSubtitleFile(outputPath) {
		return nil, fmt.Errorf("output path %s is not a subtitle file", outputPath)
	}

	targetLang := s.cfg.Translate.TargetLanguage
	result := &FileResult{
		InputPath:      inputPath,
		OutputPath:     outputPath,
		TargetLanguage: targetLang,
	}

	if file.Exists(outputPath) {
		log.Info("Output %s already exists, skipping", outputPath)
		result.Skipped = true
		return result, nil
	}
	if s.history != nil {
		done, err := s.history.Completed(ctx, inputPath, targetLang.String())
		if err != nil {
			log.Warn("Failed to query run history for %s: %v", inputPath, err)
		} else if done {
			log.Info("Run history marks %s as translated, skipping", inputPath)
			result.Skipped = true
			return result, nil
		}
	}

	started := time.Now()

	source, err := subtitle.NewReader(inputPath).Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	sourceLang := s.cfg.Translate.SourceLanguage
	if sourceLang == language.Und {
		sourceLang = source.Language
	}
	result.SourceLanguage = sourceLang

	units := s.aggregator.Merge(source.Cues)
	log.Info("Aggregated %d cues of %s into %d units", len(source.Cues), inputPath, len(units))

	outCues := make([]subtitle.Cue, 0, len(units))
	for i, unit := range units {
		translated, err := s.translator.Translate(ctx, unit.Text, languageName(sourceLang), languageName(targetLang))
		if err != nil {
			return nil, fmt.Errorf("failed to translate unit %d/%d: %w", i+1, len(units), err)
		}

		text := translated
		if s.cfg.Translate.AppendOriginal {
			text = translated + "\n" + unit.Text
		}
		outCues = append(outCues, subtitle.Cue{
			Start: unit.Start,
			End:   unit.End,
			Text:  text,
		})
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := s.writer.Write(outputPath, &subtitle.File{
		Cues:     outCues,
		Language: targetLang,
		Format:   source.Format,
		Path:     outputPath,
	}); err != nil {
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}

	result.Units = len(units)
	result.Duration = time.Since(started)

	if s.history != nil {
		if _, err := s.history.RecordRun(ctx, history.Record{
			InputPath:      inputPath,
			OutputPath:     outputPath,
			SourceLanguage: sourceLang.String(),
			TargetLanguage: targetLang.String(),
			UnitCount:      result.Units,
			Duration:       result.Duration,
		}); err != nil {
			log.Warn("Failed to record run for %s: %v", inputPath, err)
		}
	}

	return result, nil
}

// Run translates every .srt file under the configured input directory,
// one after the other. A failing file is logged and does not abort the
// remaining files.
func (s *Service) Run(ctx context.Context) error {
	inputDir := s.cfg.Pipeline.InputDir
	if _, err := os.Stat(inputDir); os.IsNotExist(err) {
		return fmt.Errorf("input directory %s does not exist", inputDir)
	}

	var paths []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && s.isTranslatableInput(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan input directory: %w", err)
	}

	log.Info("Found %d subtitle files in %s", len(paths), inputDir)
	return s.translateAll(ctx, paths)
}

// RunRecent is the watch-mode variant of Run: it only considers files
// modified since the previous cron trigger (with a one week fallback
// when the schedule has no usable previous fire).
func (s *Service) RunRecent(ctx context.Context) error {
	since, err := s.startTime()
	if err != nil {
		return err
	}
	log.Info("Scanning %s for subtitle files modified after %v", s.cfg.Pipeline.InputDir, since)

	recent, err := file.FindRecentAfter(s.cfg.Pipeline.InputDir, since)
	if err != nil {
		return fmt.Errorf("failed to find recent files: %w", err)
	}

	var paths []string
	for _, path := range recent {
		if s.isTranslatableInput(path) {
			paths = append(paths, path)
		}
	}

	log.Info("Found %d recent subtitle files in %s", len(paths), s.cfg.Pipeline.InputDir)
	return s.translateAll(ctx, paths)
}

var scheduleGroup singleflight.Group

// Schedule registers the recent-files run on the configured cron
// expression. Overlapping ticks collapse into the run in flight.
func (s *Service) Schedule(ctx context.Context, c *cron.Cron) error {
	runFunc := func() {
		_, _, _ = scheduleGroup.Do("run", func() (any, error) {
			if err := s.RunRecent(ctx); err != nil {
				log.Error("Scheduled run failed: %v", err)
			}
			return nil, nil
		})
	}
	_, err := c.AddFunc(s.cfg.Pipeline.CronExpr, runFunc)
	return err
}

func (s *Service) translateAll(ctx context.Context, paths []string) error {
	var failed int
	for _, path := range paths {
		outputPath := s.outputPathFor(path)

		result, err := s.TranslateFile(ctx, path, outputPath)
		if err != nil {
			log.Error("Failed to translate %s: %v", path, err)
			failed++
			continue
		}
		if !result.Skipped {
			log.Info("Translated %s into %s (%d units, %v)",
				path, result.OutputPath, result.Units, result.Duration)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

// outputPathFor maps an input file to its output location, mirroring
// the input directory layout and tagging the name with the target
// language, e.g. show.srt -> show.zh.srt.
func (s *Service) outputPathFor(inputPath string) string {
	rel, err := filepath.Rel(s.cfg.Pipeline.InputDir, inputPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(inputPath)
	}
	return filepath.Join(s.cfg.Pipeline.OutputDir,
		file.InsertSuffix(rel, s.cfg.Translate.TargetLanguage.String()))
}

// isTranslatableInput accepts .srt files that are not outputs of a
// previous run (input and output directories may be the same).
func (s *Service) isTranslatableInput(path string) bool {
	lower := strings.ToLower(path)
	if !strings.HasSuffix(lower, ".srt") {
		return false
	}
	ownOutput := "." + strings.ToLower(s.cfg.Translate.TargetLanguage.String()) + ".srt"
	return !strings.HasSuffix(lower, ownOutput)
}

func (s *Service) startTime() (time.Time, error) {
	info, err := icron.GetTriggerInfo(s.cfg.Pipeline.CronExpr, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get cron schedule: %w", err)
	}
	if info.Last.IsZero() {
		return time.Now().Add(-24 * 7 * time.Hour), nil
	}
	return info.Last, nil
}

// isSubtitleFile checks the pipeline-boundary extension precondition.
func isSubtitleFile(path string) bool {
	return slices.Contains(subtitleExts, strings.ToLower(filepath.Ext(path)))
}

// languageName renders a tag as the English language name used in
// translation prompts.
func languageName(tag language.Tag) string {
	if tag == language.Und {
		return "the original language"
	}
	return display.English.Tags().Name(tag)
}
