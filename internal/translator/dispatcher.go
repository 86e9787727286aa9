package translator

import (
	"context"
	"fmt"
)

// Dispatcher routes each request to the backend that serves its model:
// GoogleModel goes to the Google client, everything else to the chat
// completion client.
type Dispatcher struct {
	chat   Client
	google Client
}

// NewDispatcher accepts nil for a backend that is not configured; requests
// for it fail with FailureTransport.
func NewDispatcher(chat, google Client) *Dispatcher {
	return &Dispatcher{chat: chat, google: google}
}

func (d *Dispatcher) Translate(ctx context.Context, cfg ServiceConfig, req Request) Result {
	backend := d.chat
	if req.Model == GoogleModel {
		backend = d.google
	}
	if backend == nil {
		return Failed(req.Model, FailureTransport, 0, fmt.Errorf("no backend configured for model %q", req.Model), 0)
	}
	return backend.Translate(ctx, cfg, req)
}
