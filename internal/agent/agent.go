package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/runnerr0/snufulufugus/internal/config"
)

const (
	ProviderGemini = "gemini"
	ProviderCustom = "custom"

	customModel     = "snufulufugus-compatible-model"
	customMaxTokens = 2048

	geminiSystemInstruction = "You are the onboard agent for the snufulufugus browser. Based on the user's query, you must provide a concise, actionable intelligence report. Use markdown for clear formatting, including code blocks for technical data, and bullet points for lists. Be direct and objective. Your purpose is to analyze and report. You are also a security analysis engine. When asked to analyze a media file, you must check for potential threats like embedded trackers, suspicious metadata, steganography, or calls to external resources. Report your findings clearly. Assume the user is authorized."
	genericSystemInstruction = "You are a helpful cybersecurity assistant providing concise intelligence reports. Use markdown for clear formatting. Be direct and objective."

	errGeminiNotConfigured = "Error: Default snufulufugus agent (Gemini) is not configured. An API key is required."
	errCustomNotConfigured = "Error: Custom agent gateway is not configured. Please provide an endpoint URL and API Key in settings."
)

// Config selects the provider for a query. It is the shape persisted under
// storage.KeyAgentConfig.
type Config struct {
	Provider               string `json:"provider"`
	Endpoint               string `json:"endpoint,omitempty"`
	APIKey                 string `json:"apiKey,omitempty"`
	CollaborativeEndpoint1 string `json:"collaborativeEndpoint1,omitempty"`
	CollaborativeEndpoint2 string `json:"collaborativeEndpoint2,omitempty"`
}

// DefaultConfig builds the per-query config from the file configuration.
func DefaultConfig(cfg config.AgentConfig) Config {
	return Config{Provider: cfg.Provider, Endpoint: cfg.Endpoint, APIKey: cfg.APIKey}
}

// Validate reports whether the config names a known provider.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderCustom:
		return nil
	default:
		return fmt.Errorf("unknown agent provider %q", c.Provider)
	}
}

// Client sends prompts to the configured analysis provider. Query never
// returns an error; failures come back as "Error: ..." report text.
type Client struct {
	httpClient    *http.Client
	limiter       *rate.Limiter
	geminiBaseURL string
	geminiModel   string
	geminiKey     string
	logger        *zap.Logger
}

// NewClient returns a Client using the file configuration for Gemini
// settings, timeouts and the outbound rate limit. The Gemini key comes from
// GEMINI_API_KEY, then API_KEY, then the config file.
func NewClient(cfg config.AgentConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
		burst = cfg.RequestsPerMinute
	}

	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		key = os.Getenv("API_KEY")
	}
	if key == "" {
		key = cfg.APIKey
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		limiter:       rate.NewLimiter(limit, burst),
		geminiBaseURL: strings.TrimRight(cfg.GeminiBaseURL, "/"),
		geminiModel:   cfg.GeminiModel,
		geminiKey:     key,
		logger:        logger.Named("agent"),
	}
}

// Query runs prompt against the provider selected by cfg and returns the
// report text.
func (c *Client) Query(ctx context.Context, prompt string, cfg Config) string {
	reqID := uuid.NewString()
	log := c.logger.With(zap.String("request_id", reqID), zap.String("provider", cfg.Provider))
	start := time.Now()

	var report string
	if cfg.Provider == ProviderCustom {
		report = c.queryCustom(ctx, prompt, cfg, log)
	} else {
		report = c.queryGemini(ctx, prompt, log)
	}

	log.Debug("agent query finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("error", strings.HasPrefix(report, "Error")))
	return report
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction geminiContent   `json:"systemInstruction"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) queryGemini(ctx context.Context, prompt string, log *zap.Logger) string {
	if c.geminiKey == "" {
		log.Warn("gemini api key is not set")
		return errGeminiNotConfigured
	}

	text, err := c.generateContent(ctx, prompt)
	if err != nil {
		log.Error("gemini api error", zap.Error(err))
		return "Error generating report: " + err.Error()
	}
	return text
}

func (c *Client) generateContent(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	body, err := json.Marshal(geminiRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: geminiSystemInstruction}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.geminiBaseURL, c.geminiModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.geminiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if out.Error != nil && out.Error.Message != "" {
			return "", errors.New(out.Error.Message)
		}
		return "", fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	var b strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			b.WriteString(p.Text)
		}
	}
	return b.String(), nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) queryCustom(ctx context.Context, prompt string, cfg Config, log *zap.Logger) string {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return errCustomNotConfigured
	}

	text, err := c.chatCompletion(ctx, prompt, cfg)
	if err != nil {
		log.Error("custom llm api error", zap.String("endpoint", cfg.Endpoint), zap.Error(err))
		return "Error with custom agent: " + err.Error()
	}
	return text
}

func (c *Client) chatCompletion(ctx context.Context, prompt string, cfg Config) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: customModel,
		Messages: []chatMessage{
			{Role: "system", Content: genericSystemInstruction},
			{Role: "user", Content: prompt},
		},
		MaxTokens: customMaxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("Request failed with status %d. %s", resp.StatusCode, errorBody(raw))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", errors.New("Received an unexpected response format from the custom endpoint.")
	}
	return out.Choices[0].Message.Content, nil
}

// errorBody extracts a readable message from a failed response body.
func errorBody(raw []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// The body may be valid JSON that is not an object.
		if !json.Valid(raw) {
			return "Could not parse error response."
		}
	}
	if parsed.Error.Message != "" {
		return parsed.Error.Message
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return "Could not parse error response."
	}
	return compact.String()
}
