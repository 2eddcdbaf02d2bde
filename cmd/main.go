package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/ferdale/srt-unit-translator/internal/config"
	"github.com/ferdale/srt-unit-translator/internal/history"
	"github.com/ferdale/srt-unit-translator/internal/llm"
	"github.com/ferdale/srt-unit-translator/internal/service"
	"github.com/ferdale/srt-unit-translator/internal/translator"
	"github.com/ferdale/srt-unit-translator/pkg/file"
	"github.com/ferdale/srt-unit-translator/pkg/log"
)

func main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:           "srt-unit-translator [input.srt]",
		Short:         "Merge SRT cues into translation units and translate them",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.Flags().StringP("output", "o", "", "Output file (single-file mode; default: input tagged with the target language)")
	root.Flags().StringP("source", "s", "", "Source language tag (default: autodetect)")
	root.Flags().StringP("target", "t", "", "Target language tag")
	root.Flags().BoolP("bilingual", "b", false, "Append the original text under the translation")
	root.Flags().Bool("watch", false, "Keep running and translate on the configured cron schedule")
	root.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	log.InitLogger(log.ParseLevel(level))

	cfg, err := config.NewFromEnv(flagOverrides(cmd)...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := llm.NewClient(&llm.Config{
		APIKey:      cfg.LLM.APIKey,
		APIURL:      cfg.LLM.APIURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		SiteURL:     cfg.LLM.SiteURL,
		AppName:     cfg.LLM.AppName,
	})
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	var hist *history.Store
	if cfg.Pipeline.HistoryDB != "" {
		if hist, err = history.Open(cfg.Pipeline.HistoryDB); err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer hist.Close()
	}

	svc, err := service.New(*cfg, translator.NewLLMTranslator(client), hist)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		c := cron.New()
		if err := svc.Schedule(ctx, c); err != nil {
			return fmt.Errorf("failed to schedule runs: %w", err)
		}
		log.Info("Watching %s on schedule %q", cfg.Pipeline.InputDir, cfg.Pipeline.CronExpr)
		c.Run()
		return nil
	}

	if len(args) == 1 {
		inputPath := args[0]
		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			outputPath = file.InsertSuffix(inputPath, cfg.Translate.TargetLanguage.String())
		}
		result, err := svc.TranslateFile(ctx, inputPath, outputPath)
		if err != nil {
			return err
		}
		if result.Skipped {
			log.Info("Nothing to do for %s", inputPath)
		} else {
			log.Info("Translated %s into %s (%d units, %v)",
				inputPath, result.OutputPath, result.Units, result.Duration)
		}
		return nil
	}

	return svc.Run(ctx)
}

// flagOverrides maps set CLI flags onto the env-derived configuration.
func flagOverrides(cmd *cobra.Command) []config.Option {
	var opts []config.Option

	if raw, _ := cmd.Flags().GetString("source"); raw != "" {
		if tag, err := language.Parse(raw); err == nil {
			opts = append(opts, func(c *config.Config) { c.Translate.SourceLanguage = tag })
		}
	}
	if raw, _ := cmd.Flags().GetString("target"); raw != "" {
		if tag, err := language.Parse(raw); err == nil {
			opts = append(opts, func(c *config.Config) { c.Translate.TargetLanguage = tag })
		}
	}
	if bilingual, _ := cmd.Flags().GetBool("bilingual"); bilingual {
		opts = append(opts, func(c *config.Config) { c.Translate.AppendOriginal = true })
	}

	return opts
}
