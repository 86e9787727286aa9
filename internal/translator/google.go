package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleModel is the model identifier served by GoogleClient.
const GoogleModel = "google-translate"

// GoogleClient calls Google Cloud Translation. It ignores the genre and
// glossary, so it is only useful as the last entry of a fallback list.
type GoogleClient struct{}

func NewGoogleClient() *GoogleClient {
	return &GoogleClient{}
}

func (c *GoogleClient) Translate(ctx context.Context, cfg ServiceConfig, req Request) Result {
	start := time.Now()

	if req.TargetTag == language.Und {
		return Failed(req.Model, FailureTransport, 0, errors.New("target language tag is required"), time.Since(start))
	}

	var opts []option.ClientOption
	if cfg.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Credentials))
	}
	if cfg.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(cfg.ProjectID))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return Failed(req.Model, FailureTransport, 0, fmt.Errorf("failed to create client: %w", err), time.Since(start))
	}
	defer client.Close()

	translations, err := client.Translate(ctx, []string{req.Text}, req.TargetTag, &translate.Options{
		Format: translate.Text,
	})
	if err != nil {
		return Failed(req.Model, FailureTransport, 0, fmt.Errorf("translation failed: %w", err), time.Since(start))
	}
	if len(translations) == 0 || strings.TrimSpace(translations[0].Text) == "" {
		return Failed(req.Model, FailureEmptyResponse, 0, errors.New("no translation returned"), time.Since(start))
	}

	return Succeeded(req.Model, strings.TrimSpace(translations[0].Text), time.Since(start))
}
