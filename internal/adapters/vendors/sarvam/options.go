package sarvam

import (
	"net/http"
	"time"

	"github.com/okian/lumen/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithSpeaker sets the text-to-speech voice.
func WithSpeaker(speaker string) Option {
	return func(c *Client) {
		if speaker != "" {
			c.speaker = speaker
		}
	}
}

// WithTTSModel sets the text-to-speech model.
func WithTTSModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.ttsModel = model
		}
	}
}

// WithTranslateModel sets the translation model.
func WithTranslateModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.translateModel = model
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
