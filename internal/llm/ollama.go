package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/company-intel/internal/repair"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3.1"

	systemPrompt = "You are a precise data extraction engine. Respond with a single JSON object and nothing else. Never invent facts that are not in the provided text."
)

// chatRequest is the request body for POST /v1/chat/completions on the
// Ollama OpenAI-compatible endpoint.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OllamaOption configures the Ollama provider.
type OllamaOption func(*Ollama)

// WithOllamaModel overrides the default model.
func WithOllamaModel(model string) OllamaOption {
	return func(o *Ollama) {
		if model != "" {
			o.model = model
		}
	}
}

// WithOllamaHTTPClient overrides the default http.Client.
func WithOllamaHTTPClient(hc *http.Client) OllamaOption {
	return func(o *Ollama) {
		o.http = hc
	}
}

// WithOllamaTimeout sets the overall call timeout for chat completions.
func WithOllamaTimeout(d time.Duration) OllamaOption {
	return func(o *Ollama) {
		if d > 0 {
			o.http.Timeout = d
		}
	}
}

// WithOllamaProbeTimeout sets the timeout for availability probes.
func WithOllamaProbeTimeout(d time.Duration) OllamaOption {
	return func(o *Ollama) {
		o.probeTimeout = d
	}
}

// WithOllamaMaxTokens sets the generation token budget.
func WithOllamaMaxTokens(n int) OllamaOption {
	return func(o *Ollama) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// WithOllamaRateLimit caps requests per second against the server.
func WithOllamaRateLimit(rps float64) OllamaOption {
	return func(o *Ollama) {
		if rps > 0 {
			o.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// Ollama is the primary extraction engine: a local Ollama server speaking the
// OpenAI-compatible chat API.
type Ollama struct {
	baseURL      string
	model        string
	maxTokens    int
	probeTimeout time.Duration
	http         *http.Client
	limiter      *rate.Limiter
}

// NewOllama creates the primary provider. baseURL may be empty for the
// default local server.
func NewOllama(baseURL string, opts ...OllamaOption) *Ollama {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	o := &Ollama{
		baseURL:      baseURL,
		model:        defaultOllamaModel,
		maxTokens:    1200,
		probeTimeout: 10 * time.Second,
		http: &http.Client{
			Timeout: 180 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Name returns the engine identifier used in metadata.
func (o *Ollama) Name() string { return "ollama" }

// Model returns the configured model name.
func (o *Ollama) Model() string { return o.model }

// Available probes the server's model list with a short timeout. A probe
// failure means unreachable, not broken; the server may come back for the
// next request.
func (o *Ollama) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, o.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/v1/models", nil)
	if err != nil {
		return false
	}
	resp, err := o.http.Do(req)
	if err != nil {
		zap.L().Debug("llm: ollama probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// Extract sends the prompt in JSON mode. Output that looks truncated is
// retried once with a doubled token budget; small models regularly run out
// of budget mid-object.
func (o *Ollama) Extract(ctx context.Context, prompt string) (string, error) {
	text, err := o.complete(ctx, prompt, o.maxTokens)
	if err != nil {
		return "", err
	}
	if repair.IsTruncated(text) {
		zap.L().Debug("llm: ollama output truncated, retrying with larger budget")
		retried, retryErr := o.complete(ctx, prompt, o.maxTokens*2)
		if retryErr == nil && !repair.IsTruncated(retried) {
			return retried, nil
		}
	}
	return text, nil
}

func (o *Ollama) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "llm: ollama rate limit wait")
	}

	body, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0,
		MaxTokens:      maxTokens,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: marshal ollama request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "llm: create ollama request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "llm: send ollama request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "llm: read ollama response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("llm: ollama status %d: %s", resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", eris.Wrap(err, "llm: unmarshal ollama response")
	}
	if len(result.Choices) == 0 {
		return "", eris.New("llm: ollama returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}
