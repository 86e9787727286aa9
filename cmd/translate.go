/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/booktran/internal"
	"github.com/valpere/booktran/internal/config"
	"github.com/valpere/booktran/internal/job"
	"github.com/valpere/booktran/internal/orchestrator"
	"github.com/valpere/booktran/internal/store"
)

type translateOptions struct {
	input  string
	output string
}

var translateOpts translateOptions

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a plain-text book",
	Long: `Translate a UTF-8 plain-text file paragraph by paragraph.

The text is split into chunks of at most --max-chunk-len characters along
paragraph boundaries. Each chunk is sent to the first model of the fallback
list; when a model fails the next one is tried. A chunk no model could
translate is written as "[TRANSLATION FAILED]".

Use "google-translate" as a model name to fall back to Google Cloud
Translation (requires --google-credentials or GOOGLE_APPLICATION_CREDENTIALS).

Press Ctrl+C to stop the job; no output file is written then.`,
	Example: `  booktran translate -i book.txt -l German -g "Epic Fantasy"
  booktran translate -i book.txt -o out/book.ru.txt --start-model openai/gpt-oss-120b:free`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runTranslate(ctx, appCfg, translateOpts, appLog, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func runTranslate(ctx context.Context, cfg *config.Config, opts translateOptions, log *zap.Logger, stdout, stderr io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	lang := cfg.Language()

	if opts.input == "" {
		return &config.FieldError{Field: "input", Reason: "an input file is required"}
	}
	output := opts.output
	if output == "" {
		output = defaultOutputPath(opts.input, lang.Code())
	}
	if samePath(opts.input, output) {
		return &config.FieldError{Field: "output", Reason: "input file and output file cannot be the same"}
	}

	raw, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	if !utf8.Valid(raw) {
		return &config.FieldError{Field: "input", Reason: "file is not valid UTF-8"}
	}

	jobID := uuid.NewString()
	log = log.With(zap.String("job_id", jobID))

	var db *store.Store
	var glossary map[string]string
	if !cfg.NoHistory {
		db, err = openStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		glossary, err = db.GetGlossaryTerms(ctx, lang.Code())
		if err != nil {
			log.Warn("failed to load glossary", zap.Error(err))
		}
	}

	onAttempt := func(a orchestrator.Attempt) {
		if db == nil {
			return
		}
		rec := internal.AttemptRecord{
			JobID:      jobID,
			Chunk:      a.Chunk,
			Model:      a.Model,
			Outcome:    a.Kind.String(),
			StatusCode: a.StatusCode,
			Latency:    a.Latency,
		}
		if a.Err != nil {
			rec.Error = a.Err.Error()
		}
		// Recorded even after cancellation.
		if err := db.SaveAttempt(context.Background(), rec); err != nil {
			log.Warn("failed to record attempt", zap.Error(err))
		}
	}

	orch := buildOrchestrator(cfg, buildClient(cfg), log, onAttempt)
	runner := job.NewRunner(orch, job.Config{
		TargetLanguage: lang.Name,
		TargetTag:      lang.Tag,
		Genre:          cfg.Genre,
		Glossary:       glossary,
		MaxChunkLen:    cfg.MaxChunkLen,
		HardLimit:      cfg.HardLimit,
		Service:        serviceConfig(cfg),
	}, log)

	finish := func(status string, chunks, failed int) {
		if db == nil {
			return
		}
		if err := db.FinishJob(context.Background(), jobID, status, chunks, failed); err != nil {
			log.Warn("failed to record job", zap.Error(err))
		}
	}

	if db != nil {
		err := db.CreateJob(context.WithoutCancel(ctx), internal.JobRecord{
			ID:         jobID,
			InputPath:  opts.input,
			OutputPath: output,
			TargetLang: lang.Code(),
			Genre:      cfg.Genre,
			Models:     orch.Models(),
		})
		if err != nil {
			return fmt.Errorf("failed to record job: %w", err)
		}
	}

	task, err := runner.Start(ctx, string(raw))
	if err != nil {
		finish(internal.JobFailed, 0, 0)
		return fmt.Errorf("failed to start translation: %w", err)
	}

	fmt.Fprintf(stderr, "Translating %s to %s (%s chunks, %s)\n",
		opts.input, lang.Name, humanize.Comma(int64(task.Total())), humanize.Bytes(uint64(len(raw))))
	for p := range task.Progress() {
		fmt.Fprintf(stderr, "Chunk %d/%d\n", p.Done, p.Total)
	}

	res, err := task.Wait()
	if err != nil {
		finish(internal.JobCancelled, task.Total(), 0)
		return fmt.Errorf("translation interrupted: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		finish(internal.JobFailed, res.Chunks, res.Failed)
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(output, []byte(res.Output), 0644); err != nil {
		finish(internal.JobFailed, res.Chunks, res.Failed)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	finish(internal.JobCompleted, res.Chunks, res.Failed)

	fmt.Fprintf(stdout, "Successfully translated %s to %s\n", opts.input, lang.Name)
	fmt.Fprintf(stdout, "Output: %s (%s)\n", output, humanize.Bytes(uint64(len(res.Output))))
	fmt.Fprintf(stdout, "Chunks: %s, failed: %s, time: %s\n",
		humanize.Comma(int64(res.Chunks)), humanize.Comma(int64(res.Failed)), res.Duration.Round(time.Millisecond))
	if db != nil {
		fmt.Fprintf(stdout, "Job ID: %s\n", jobID)
	}
	return nil
}

// defaultOutputPath places the translation next to the input:
// book.txt -> book.de.txt.
func defaultOutputPath(input, langCode string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(input), stem+"."+langCode+".txt")
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func init() {
	rootCmd.AddCommand(translateCmd)

	f := translateCmd.Flags()
	f.StringVarP(&translateOpts.input, "input", "i", "", "Input file to translate (required)")
	f.StringVarP(&translateOpts.output, "output", "o", "", "Output file (default <input>.<lang>.txt)")

	f.StringP("language", "l", "", "Target language: English, German, French, Russian (or ISO code)")
	f.StringP("genre", "g", "", "Literary genre, see \"booktran options\"")
	f.StringSlice("models", nil, "Models in fallback order (comma-separated)")
	f.String("start-model", "", "Model to try first")
	f.Int("max-chunk-len", config.DefaultMaxChunkLen, "Maximum chunk length in characters")
	f.Bool("hard-limit", false, "Cut paragraphs longer than --max-chunk-len")
	f.Bool("validate-language", false, "Reject translations detected in the wrong language")
	f.String("api-key", "", "OpenRouter API key (or OPENROUTER_API_KEY)")
	f.String("base-url", config.DefaultBaseURL, "OpenAI-compatible API base URL")
	f.Duration("timeout", config.DefaultTimeout, "Timeout per model request")
	f.String("google-credentials", "", "Path to Google Cloud credentials")
	f.String("google-project", "", "Google Cloud project ID")
	f.Bool("no-history", false, "Do not record the job in the history database")

	for key, flag := range map[string]string{
		"target_language":    "language",
		"genre":              "genre",
		"models":             "models",
		"start_model":        "start-model",
		"max_chunk_len":      "max-chunk-len",
		"hard_limit":         "hard-limit",
		"validate_language":  "validate-language",
		"api_key":            "api-key",
		"base_url":           "base-url",
		"timeout":            "timeout",
		"google.credentials": "google-credentials",
		"google.project_id":  "google-project",
		"no_history":         "no-history",
	} {
		_ = v.BindPFlag(key, f.Lookup(flag))
	}

	translateCmd.MarkFlagRequired("input")
}
