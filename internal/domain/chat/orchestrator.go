// Package chat turns a prompt into an assistant reply with optional
// translation and speech.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/lumen/internal/domain/model"
	"github.com/okian/lumen/internal/domain/speech"
	"github.com/okian/lumen/pkg/logger"
	"github.com/okian/lumen/pkg/metrics"
)

// FallbackText is shown when no reply could be generated.
const FallbackText = "Sorry, I couldn't fetch a response right now. Please try again."

const (
	defaultLanguage    = "en-IN"
	defaultStepTimeout = 15 * time.Second
)

// Outcomes reported by Reply.Outcome.
const (
	OutcomeOK                  = "ok"
	OutcomeFailed              = "failed"
	OutcomeTranslationDegraded = "translation_degraded"
	OutcomeSpeechDegraded      = "speech_degraded"
	OutcomeDegraded            = "degraded"
)

// Reply is the result of one conversational turn. Err is set only when the
// generation step failed; later steps degrade into TranslationErr and
// SpeechErr instead.
type Reply struct {
	Turn           model.ChatTurn
	Language       string
	RequestID      string
	Failed         bool
	Err            error
	TranslationErr error
	SpeechErr      error
}

// Outcome summarizes the reply for metrics and logs.
func (r Reply) Outcome() string {
	switch {
	case r.Failed:
		return OutcomeFailed
	case r.TranslationErr != nil && r.SpeechErr != nil:
		return OutcomeDegraded
	case r.TranslationErr != nil:
		return OutcomeTranslationDegraded
	case r.SpeechErr != nil:
		return OutcomeSpeechDegraded
	default:
		return OutcomeOK
	}
}

// Orchestrator sequences generation, translation and speech synthesis.
// It is safe for concurrent use; turns share no state.
type Orchestrator struct {
	generator   Generator
	translator  Translator
	synthesizer Synthesizer
	normalizer  *speech.Normalizer

	defaultLanguage string
	stepTimeout     time.Duration
	newID           func() string
	logger          logger.Logger
}

// NewOrchestrator wires the three collaborators.
func NewOrchestrator(g Generator, t Translator, s Synthesizer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		generator:       g,
		translator:      t,
		synthesizer:     s,
		normalizer:      speech.NewNormalizer(),
		defaultLanguage: defaultLanguage,
		stepTimeout:     defaultStepTimeout,
		newID:           uuid.NewString,
		logger:          logger.Get().Named("chat"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DefaultLanguage returns the language replies are generated in.
func (o *Orchestrator) DefaultLanguage() string { return o.defaultLanguage }

// Converse answers prompt in targetLanguage. An empty targetLanguage means
// the default language. Converse never returns an error; failures are
// reported on the Reply.
func (o *Orchestrator) Converse(ctx context.Context, prompt, targetLanguage string) Reply {
	start := time.Now()
	reply := o.converse(ctx, prompt, targetLanguage)
	metrics.RecordChatTurn(reply.Outcome(), float64(time.Since(start).Milliseconds()))
	return reply
}

// Exchange runs Converse and returns session extended by the user's prompt
// and the assistant's reply.
func (o *Orchestrator) Exchange(ctx context.Context, session Session, prompt, targetLanguage string) (Session, Reply) {
	reply := o.Converse(ctx, prompt, targetLanguage)
	return session.Append(model.ChatTurn{Role: model.RoleUser, Text: prompt}, reply.Turn), reply
}

func (o *Orchestrator) converse(ctx context.Context, prompt, targetLanguage string) Reply {
	if targetLanguage == "" {
		targetLanguage = o.defaultLanguage
	}

	text, err := o.generate(ctx, prompt)
	if err != nil {
		o.logger.Error(ctx, "generation failed", logger.Error(err))
		return Reply{
			Turn:      model.ChatTurn{Role: model.RoleAssistant, Text: FallbackText},
			Language:  o.defaultLanguage,
			RequestID: o.newID(),
			Failed:    true,
			Err:       err,
		}
	}

	reply := Reply{Language: o.defaultLanguage}
	if targetLanguage != o.defaultLanguage {
		translated, err := o.translate(ctx, text, targetLanguage)
		if err != nil {
			reply.TranslationErr = err
			o.logger.Warn(ctx, "translation failed, keeping untranslated text",
				logger.String("target_language", targetLanguage),
				logger.Error(err),
			)
		} else {
			text = translated
			reply.Language = targetLanguage
		}
	}

	audio, requestID, err := o.synthesize(ctx, text, reply.Language)
	if err != nil {
		reply.SpeechErr = err
		o.logger.Warn(ctx, "speech unavailable, replying with text only",
			logger.String("language", reply.Language),
			logger.Error(err),
		)
	}
	if requestID == "" {
		requestID = o.newID()
	}

	reply.Turn = model.ChatTurn{Role: model.RoleAssistant, Text: text, Audio: audio}
	reply.RequestID = requestID
	return reply
}

func (o *Orchestrator) generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if o.generator == nil {
		return "", errors.New("no generator configured")
	}

	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	text, err := o.generator.Generate(stepCtx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

func (o *Orchestrator) translate(ctx context.Context, text, target string) (string, error) {
	if o.translator == nil {
		return "", errors.New("no translator configured")
	}

	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	out, err := o.translator.Translate(stepCtx, text, o.defaultLanguage, target)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", errors.New("translate: empty result")
	}
	return out, nil
}

// synthesize returns the audio and the vendor request id. A response
// without audio still yields its request id.
func (o *Orchestrator) synthesize(ctx context.Context, text, language string) (string, string, error) {
	if o.synthesizer == nil {
		return "", "", errors.New("no synthesizer configured")
	}

	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	raw, err := o.synthesizer.Synthesize(stepCtx, text, language)
	if err != nil {
		return "", "", fmt.Errorf("synthesize: %w", err)
	}

	requestID := speech.RequestID(raw)
	res, err := o.normalizer.Extract(raw)
	if err != nil {
		metrics.RecordSpeechNotFound()
		o.logger.Debug(ctx, "speech response carried no audio", logger.Int("bytes", len(raw)))
		return "", requestID, err
	}
	metrics.RecordSpeechShape(res.Shape)
	o.logger.Debug(ctx, "speech response shape", logger.String("shape", res.Shape))
	return res.Audio, requestID, nil
}
