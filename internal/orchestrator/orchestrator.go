// Package orchestrator resolves one chunk by walking an ordered list of
// models until one of them returns a usable translation.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/valpere/booktran/internal/logger"
	"github.com/valpere/booktran/internal/translator"
)

// Sentinel replaces the text of a chunk no model could translate.
const Sentinel = "[TRANSLATION FAILED]"

// LanguageValidator rejects a successful response written in the wrong language.
type LanguageValidator interface {
	IsValid(text string, target language.Tag) (bool, error)
}

type Config struct {
	// Models is the fallback order. The first entry is tried first.
	Models []string
	// Timeout bounds a single attempt. Zero leaves it to the client.
	Timeout time.Duration
	// Validator is optional.
	Validator LanguageValidator
	Logger    *zap.Logger
	// OnAttempt is called after every attempt, successful or not.
	OnAttempt func(Attempt)
}

// Attempt records one model call for one chunk.
type Attempt struct {
	Chunk      int
	Model      string
	Kind       translator.FailureKind
	StatusCode int
	Latency    time.Duration
	Err        error
}

func (a Attempt) OK() bool { return a.Kind == translator.FailureNone }

// Outcome is the resolved state of one chunk.
type Outcome struct {
	Index    int
	Text     string
	Model    string
	Failed   bool
	Attempts []Attempt
}

// Output is the translated text, or Sentinel when every model failed.
func (o Outcome) Output() string {
	if o.Failed {
		return Sentinel
	}
	return o.Text
}

type Orchestrator struct {
	client translator.Client
	config Config
	logger *zap.Logger
}

func New(client translator.Client, config Config) *Orchestrator {
	return &Orchestrator{
		client: client,
		config: config,
		logger: logger.OrNop(config.Logger),
	}
}

func (o *Orchestrator) Models() []string {
	return o.config.Models
}

// Resolve tries each model in order and stops at the first success. Every
// model is attempted at most once. A canceled context stops the walk; the
// chunk is then reported as failed and the interrupted attempt is neither
// recorded nor passed to OnAttempt.
func (o *Orchestrator) Resolve(ctx context.Context, cfg translator.ServiceConfig, index int, req translator.Request) Outcome {
	out := Outcome{
		Index:    index,
		Failed:   true,
		Attempts: make([]Attempt, 0, len(o.config.Models)),
	}

	for _, model := range o.config.Models {
		if ctx.Err() != nil {
			break
		}

		req.Model = model
		res := o.attempt(ctx, cfg, req)
		if ctx.Err() != nil {
			break
		}
		if res.OK() {
			res = o.validate(res, req.TargetTag)
		}

		a := Attempt{
			Chunk:   index,
			Model:   model,
			Latency: res.Latency,
		}
		if res.Failure != nil {
			a.Kind = res.Failure.Kind
			a.StatusCode = res.Failure.StatusCode
			a.Err = res.Failure
		}
		out.Attempts = append(out.Attempts, a)
		if o.config.OnAttempt != nil {
			o.config.OnAttempt(a)
		}

		if res.OK() {
			o.logger.Debug("chunk translated",
				zap.Int("chunk", index),
				zap.String("model", model),
				zap.Duration("latency", res.Latency))
			out.Text = res.Text
			out.Model = model
			out.Failed = false
			return out
		}

		o.logger.Warn("model failed, trying next",
			zap.Int("chunk", index),
			zap.String("model", model),
			zap.Stringer("kind", a.Kind),
			zap.Int("status", a.StatusCode),
			zap.Error(a.Err))
	}

	if err := ctx.Err(); err != nil {
		o.logger.Debug("chunk interrupted",
			zap.Int("chunk", index),
			zap.Error(err))
		return out
	}

	o.logger.Warn("all models failed",
		zap.Int("chunk", index),
		zap.Int("attempts", len(out.Attempts)))
	return out
}

func (o *Orchestrator) attempt(ctx context.Context, cfg translator.ServiceConfig, req translator.Request) translator.Result {
	if o.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.Timeout)
		defer cancel()
	}
	return o.client.Translate(ctx, cfg, req)
}

func (o *Orchestrator) validate(res translator.Result, target language.Tag) translator.Result {
	if o.config.Validator == nil {
		return res
	}
	ok, err := o.config.Validator.IsValid(res.Text, target)
	if ok {
		return res
	}
	if err == nil {
		err = errors.New("language check failed")
	}
	return translator.Failed(res.Model, translator.FailureWrongLanguage, 0, err, res.Latency)
}
