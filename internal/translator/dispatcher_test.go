package translator

import (
	"context"
	"testing"

	"golang.org/x/text/language"
)

type recordingClient struct {
	name  string
	calls []Request
}

func (c *recordingClient) Translate(_ context.Context, _ ServiceConfig, req Request) Result {
	c.calls = append(c.calls, req)
	return Succeeded(req.Model, c.name, 0)
}

func TestDispatcher_Routes(t *testing.T) {
	chat := &recordingClient{name: "chat"}
	google := &recordingClient{name: "google"}
	d := NewDispatcher(chat, google)

	res := d.Translate(context.Background(), ServiceConfig{}, Request{Text: "a", Model: "x/y:free"})
	if res.Text != "chat" {
		t.Errorf("expected chat backend, got %q", res.Text)
	}

	res = d.Translate(context.Background(), ServiceConfig{}, Request{Text: "a", Model: GoogleModel})
	if res.Text != "google" {
		t.Errorf("expected google backend, got %q", res.Text)
	}

	if len(chat.calls) != 1 || len(google.calls) != 1 {
		t.Errorf("expected one call each, got chat=%d google=%d", len(chat.calls), len(google.calls))
	}
}

func TestDispatcher_MissingBackend(t *testing.T) {
	d := NewDispatcher(&recordingClient{name: "chat"}, nil)

	res := d.Translate(context.Background(), ServiceConfig{}, Request{Model: GoogleModel})
	if res.OK() {
		t.Fatal("expected failure without google backend")
	}
	if res.Failure.Kind != FailureTransport {
		t.Errorf("expected transport failure, got %v", res.Failure.Kind)
	}
	if res.Model != GoogleModel {
		t.Errorf("expected model %q, got %q", GoogleModel, res.Model)
	}
}

func TestGoogleClient_RequiresTag(t *testing.T) {
	c := NewGoogleClient()

	res := c.Translate(context.Background(), ServiceConfig{}, Request{Text: "Hello", Model: GoogleModel, TargetTag: language.Und})
	if res.OK() {
		t.Fatal("expected failure without target tag")
	}
	if res.Failure.Kind != FailureTransport {
		t.Errorf("expected transport failure, got %v", res.Failure.Kind)
	}
}
