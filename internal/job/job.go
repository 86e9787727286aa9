// Package job runs a whole document through the fallback orchestrator one
// chunk at a time and reassembles the translated output.
package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/valpere/booktran/internal/chunker"
	"github.com/valpere/booktran/internal/logger"
	"github.com/valpere/booktran/internal/orchestrator"
	"github.com/valpere/booktran/internal/translator"
)

// ErrAlreadyStarted is returned when a Runner is run a second time.
var ErrAlreadyStarted = errors.New("job already started")

type State int32

const (
	NotStarted State = iota
	Running
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Resolver resolves a single chunk. *orchestrator.Orchestrator implements it.
type Resolver interface {
	Resolve(ctx context.Context, cfg translator.ServiceConfig, index int, req translator.Request) orchestrator.Outcome
}

type Config struct {
	TargetLanguage string
	TargetTag      language.Tag
	Genre          string
	Glossary       map[string]string
	MaxChunkLen    int
	HardLimit      bool
	Service        translator.ServiceConfig
}

type Result struct {
	Output   string
	Outcomes []orchestrator.Outcome
	Chunks   int
	Failed   int
	Duration time.Duration
}

// Runner translates one document. It is single use.
type Runner struct {
	resolver Resolver
	config   Config
	logger   *zap.Logger
	state    atomic.Int32
}

func NewRunner(resolver Resolver, config Config, log *zap.Logger) *Runner {
	return &Runner{
		resolver: resolver,
		config:   config,
		logger:   logger.OrNop(log),
	}
}

func (r *Runner) State() State {
	return State(r.state.Load())
}

// Run translates document and blocks until every chunk has an outcome.
// onProgress, if not nil, is called once per chunk with done = 1..total.
//
// Once chunks have been produced the job cannot fail, except when ctx is
// canceled: cancellation is checked between chunks and returns ctx's error
// with no result. A chunk interrupted mid-request is not counted as done.
func (r *Runner) Run(ctx context.Context, document string, onProgress func(done, total int)) (*Result, error) {
	chunks, err := r.begin(document)
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, chunks, onProgress)
}

func (r *Runner) begin(document string) ([]chunker.Chunk, error) {
	chunks, err := chunker.SplitChunks(document, chunker.Options{
		MaxLen:    r.config.MaxChunkLen,
		HardLimit: r.config.HardLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to split document: %w", err)
	}
	if !r.state.CompareAndSwap(int32(NotStarted), int32(Running)) {
		return nil, ErrAlreadyStarted
	}
	return chunks, nil
}

func (r *Runner) execute(ctx context.Context, chunks []chunker.Chunk, onProgress func(done, total int)) (*Result, error) {
	start := time.Now()
	total := len(chunks)
	outcomes := make([]orchestrator.Outcome, total)

	r.logger.Info("job started",
		zap.Int("chunks", total),
		zap.String("target_language", r.config.TargetLanguage),
		zap.String("genre", r.config.Genre))

	failed := 0
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return r.cancel(i, total, err)
		}

		outcomes[i] = r.resolver.Resolve(ctx, r.config.Service, i, translator.Request{
			Text:           c.Text,
			TargetLanguage: r.config.TargetLanguage,
			TargetTag:      r.config.TargetTag,
			Genre:          r.config.Genre,
			Glossary:       r.config.Glossary,
		})
		if err := ctx.Err(); err != nil {
			return r.cancel(i, total, err)
		}
		if outcomes[i].Failed {
			failed++
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}
	}
	r.state.Store(int32(Completed))
	res := &Result{
		Output:   join(chunks, outcomes),
		Outcomes: outcomes,
		Chunks:   total,
		Failed:   failed,
		Duration: time.Since(start),
	}

	r.logger.Info("job completed",
		zap.Int("chunks", total),
		zap.Int("failed", failed),
		zap.Duration("duration", res.Duration))
	return res, nil
}

func (r *Runner) cancel(done, total int, err error) (*Result, error) {
	r.state.Store(int32(Cancelled))
	r.logger.Warn("job cancelled", zap.Int("done", done), zap.Int("total", total))
	return nil, fmt.Errorf("job cancelled after %d of %d chunks: %w", done, total, err)
}

func join(chunks []chunker.Chunk, outcomes []orchestrator.Outcome) string {
	var sb strings.Builder
	for i, o := range outcomes {
		sb.WriteString(o.Output())
		if i < len(outcomes)-1 {
			sb.WriteString(chunks[i].Sep)
		}
	}
	return sb.String()
}
