package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

type ServiceConfig struct {
	APIKey      string `mapstructure:"api_key" json:"api_key"`
	Credentials string `mapstructure:"credentials" json:"credentials"`
	ProjectID   string `mapstructure:"project_id" json:"project_id"`
}

// Request is a single translation attempt: one chunk for one model.
type Request struct {
	Text           string            `json:"text"`
	TargetLanguage string            `json:"target_language"`
	TargetTag      language.Tag      `json:"-"`
	Genre          string            `json:"genre"`
	Model          string            `json:"model"`
	Glossary       map[string]string `json:"glossary,omitempty"`
}

type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureTransport
	FailureHTTPStatus
	FailureEmptyResponse
	FailureWrongLanguage
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "ok"
	case FailureTransport:
		return "transport"
	case FailureHTTPStatus:
		return "http_status"
	case FailureEmptyResponse:
		return "empty_response"
	case FailureWrongLanguage:
		return "wrong_language"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// Failure explains why an attempt produced no usable text.
type Failure struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (f *Failure) Error() string {
	var sb strings.Builder
	sb.WriteString(f.Kind.String())
	if f.Kind == FailureHTTPStatus {
		fmt.Fprintf(&sb, " %d", f.StatusCode)
	}
	if f.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(f.Err.Error())
	}
	return sb.String()
}

func (f *Failure) Unwrap() error { return f.Err }

// Result is the outcome of one attempt. Exactly one of Text and Failure is
// meaningful: Failure is nil on success.
type Result struct {
	Model   string        `json:"model"`
	Text    string        `json:"text"`
	Failure *Failure      `json:"-"`
	Latency time.Duration `json:"latency"`
}

func (r Result) OK() bool { return r.Failure == nil }

func Succeeded(model, text string, latency time.Duration) Result {
	return Result{Model: model, Text: text, Latency: latency}
}

func Failed(model string, kind FailureKind, statusCode int, err error, latency time.Duration) Result {
	return Result{
		Model:   model,
		Failure: &Failure{Kind: kind, StatusCode: statusCode, Err: err},
		Latency: latency,
	}
}

// Client translates one chunk with the model named in the request. It never
// retries; every problem is reported as a Failure in the Result.
type Client interface {
	Translate(ctx context.Context, cfg ServiceConfig, req Request) Result
}
