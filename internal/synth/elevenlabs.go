package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"subspeak/internal/audio"
	"subspeak/internal/logging"
)

const (
	providerElevenLabs = "elevenlabs"

	// ElevenLabsBaseURL is the public ElevenLabs API base URL.
	ElevenLabsBaseURL = "https://api.elevenlabs.io/v1"

	elevenLabsMP3Format = "mp3_44100_128"
)

// ElevenLabsOptions configures NewElevenLabsClient.
type ElevenLabsOptions struct {
	BaseURL string
	// Model is the default model_id, used when a request has no engine.
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// ElevenLabsClient synthesizes speech with the ElevenLabs HTTP API.
type ElevenLabsClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	logger     *slog.Logger
}

type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id,omitempty"`
}

// NewElevenLabsClient constructs a client authenticated with apiKey.
func NewElevenLabsClient(apiKey string, opts ElevenLabsOptions) *ElevenLabsClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = ElevenLabsBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ElevenLabsClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      strings.TrimSpace(opts.Model),
		logger:     logging.NewComponentLogger(logger, "elevenlabs"),
	}
}

// Synthesize posts the text to /text-to-speech/{voice} and returns the body.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	model := req.Engine
	if model == "" {
		model = c.model
	}
	body, err := json.Marshal(elevenLabsRequest{Text: req.Text, ModelID: model})
	if err != nil {
		return nil, synthesisError(providerElevenLabs, req, fmt.Errorf("marshal request: %w", err))
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s",
		c.baseURL, url.PathEscape(req.Voice), url.QueryEscape(elevenLabsFormat(req)))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, synthesisError(providerElevenLabs, req, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/*")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, synthesisError(providerElevenLabs, req, fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, synthesisError(providerElevenLabs, req,
			fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(errBody))))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, synthesisError(providerElevenLabs, req, fmt.Errorf("read response: %w", err))
	}
	if len(data) == 0 {
		return nil, emptyAudioError(providerElevenLabs, req)
	}
	c.logger.Debug("elevenlabs synthesis complete",
		logging.String("model", model),
		logging.Int("bytes", len(data)),
	)
	return data, nil
}

func elevenLabsFormat(req Request) string {
	if req.Codec == audio.CodecPCM {
		rate := req.SampleRate
		if rate <= 0 {
			rate = audio.DefaultPCMSampleRate
		}
		return fmt.Sprintf("pcm_%d", rate)
	}
	return elevenLabsMP3Format
}
