package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/valpere/booktran/internal/postprocess"
)

const (
	DefaultOpenRouterURL = "https://openrouter.ai/api/v1"
	DefaultTimeout       = 90 * time.Second

	// Temperature biases the models toward fidelity over creative variance.
	Temperature = 0.5
)

type OpenRouterClient struct {
	baseURL string
	client  *http.Client
}

func NewOpenRouterClient(baseURL string, timeout time.Duration) *OpenRouterClient {
	if baseURL == "" {
		baseURL = DefaultOpenRouterURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenRouterClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

var errNoContent = errors.New("response has no choices[0].message.content")

func (c *OpenRouterClient) Translate(ctx context.Context, cfg ServiceConfig, req Request) Result {
	start := time.Now()
	fail := func(kind FailureKind, status int, err error) Result {
		return Failed(req.Model, kind, status, err, time.Since(start))
	}

	body, err := json.Marshal(chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: BuildSystemPrompt(req.TargetLanguage, req.Genre, req.Glossary)},
			{Role: "user", Content: req.Text},
		},
		Temperature: Temperature,
	})
	if err != nil {
		return fail(FailureTransport, 0, fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return fail(FailureTransport, 0, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	httpReq.Header.Set("HTTP-Referer", "https://booktran.local")
	httpReq.Header.Set("X-Title", "BookTran")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fail(FailureTransport, 0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fail(FailureHTTPStatus, resp.StatusCode, fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return fail(FailureEmptyResponse, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}
	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == nil {
		return fail(FailureEmptyResponse, resp.StatusCode, errNoContent)
	}

	text := postprocess.Clean(*chat.Choices[0].Message.Content)
	if text == "" {
		return fail(FailureEmptyResponse, resp.StatusCode, errors.New("empty translation"))
	}

	return Succeeded(req.Model, text, time.Since(start))
}

// BuildSystemPrompt fixes the translator role, target language and genre
// style. Glossary terms are listed in a stable order.
func BuildSystemPrompt(targetLanguage, genre string, glossary map[string]string) string {
	var sb strings.Builder

	sb.WriteString("You are a professional translator. ")
	fmt.Fprintf(&sb, "Translate the text to %s. ", targetLanguage)
	sb.WriteString("Translate while preserving the author's style. ")
	sb.WriteString("Preserve paragraphs and formatting exactly. ")
	sb.WriteString("Do not add any explanations. ")
	sb.WriteString("Don't add any extra comments, just send the translated text in response and nothing else.")
	if genre != "" {
		fmt.Fprintf(&sb, " Observe the style of the genre %s.", genre)
	}

	if len(glossary) > 0 {
		terms := make([]string, 0, len(glossary))
		for src := range glossary {
			terms = append(terms, src)
		}
		sort.Strings(terms)

		sb.WriteString("\n\nTERMINOLOGY (use these exact translations):\n")
		for _, src := range terms {
			fmt.Fprintf(&sb, "  %s → %s\n", src, glossary[src])
		}
	}

	return sb.String()
}
