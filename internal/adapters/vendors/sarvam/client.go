// Package sarvam talks to the Sarvam translation and text-to-speech API.
package sarvam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/lumen/pkg/logger"
	"github.com/okian/lumen/pkg/metrics"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL  = "https://api.sarvam.ai"
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 32 << 20

	pathTranslate = "/translate"
	pathTTS       = "/text-to-speech"

	headerAPIKey = "api-subscription-key"
	vendorName   = "sarvam"
)

// Client calls the Sarvam API. It is safe for concurrent use.
type Client struct {
	apiKey         string
	baseURL        string
	http           *http.Client
	speaker        string
	ttsModel       string
	translateModel string
	logger         logger.Logger
}

// New creates a client. An empty apiKey is accepted; every call then
// fails with ErrMissingAPIKey without touching the network.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:         apiKey,
		baseURL:        defaultBaseURL,
		http:           &http.Client{Timeout: defaultTimeout},
		speaker:        defaultSpeaker,
		ttsModel:       defaultTTSModel,
		translateModel: defaultMTModel,
		logger:         logger.Get().Named("sarvam"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// Synthesize renders text as speech in language and returns the raw JSON
// response for the speech normalizer.
func (c *Client) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	body := ttsRequest{
		Inputs:              []string{text},
		TargetLanguageCode:  language,
		Speaker:             c.speaker,
		Pitch:               defaultPitch,
		Pace:                defaultPace,
		Loudness:            defaultLoudness,
		SpeechSampleRate:    defaultSampleRate,
		EnablePreprocessing: true,
		Model:               c.ttsModel,
	}
	status, resp, err := c.post(ctx, "tts", pathTTS, body)
	if err != nil {
		return nil, err
	}
	if !successful(status) {
		return nil, &APIError{Status: status, Body: resp}
	}
	return resp, nil
}

// Translate converts text from source to target and returns the
// translated text in the target's native script.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	body := TranslateRequest{
		Input:              text,
		SourceLanguageCode: source,
		TargetLanguageCode: target,
		SpeakerGender:      DefaultSpeakerGender,
		Mode:               DefaultMode,
		Model:              c.translateModel,
		NumeralsFormat:     DefaultNumerals,
	}
	status, resp, err := c.post(ctx, "translate", pathTranslate, body)
	if err != nil {
		return "", err
	}
	if !successful(status) {
		return "", &APIError{Status: status, Body: resp}
	}

	out := gjson.GetBytes(resp, "translated_text")
	if out.Type != gjson.String {
		return "", fmt.Errorf("%w: no translated_text", ErrMalformedResponse)
	}
	return out.Str, nil
}

// Forward sends req with defaults filled in and returns the vendor's
// status and body untouched. err is set only when no HTTP answer arrived.
func (c *Client) Forward(ctx context.Context, req TranslateRequest) (int, []byte, error) {
	return c.post(ctx, "translate_passthrough", pathTranslate, req.WithDefaults(c.translateModel))
}

func (c *Client) post(ctx context.Context, op, path string, payload any) (int, []byte, error) {
	if c.apiKey == "" {
		metrics.RecordVendorCall(vendorName, op, 0, true)
		return 0, nil, ErrMissingAPIKey
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAPIKey, c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordVendorCall(vendorName, op, latency, true)
		return 0, nil, fmt.Errorf("%w: %s: %w", ErrUnreachable, op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		metrics.RecordVendorCall(vendorName, op, latency, true)
		return 0, nil, fmt.Errorf("%w: read %s response: %w", ErrUnreachable, op, err)
	}

	metrics.RecordVendorCall(vendorName, op, latency, !successful(resp.StatusCode))
	c.logger.Debug(ctx, "vendor call",
		logger.String("op", op),
		logger.Int("status", resp.StatusCode),
		logger.Float64("latency_ms", latency),
	)
	return resp.StatusCode, body, nil
}

func successful(status int) bool { return status >= 200 && status < 300 }

// IsUnreachable reports whether err means the vendor gave no answer.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}
