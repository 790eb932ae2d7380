// Package speech turns the variant JSON returned by speech-synthesis vendors
// into a single base64 audio string.
//
// The vendor has answered with several shapes over time: an array of objects,
// base64 chunked across array entries, raw PCM samples, a bare string, a
// keyed object, or a root-level field. Each shape is a Matcher; a Normalizer
// tries them in order and the first hit wins.
package speech

import (
	"encoding/base64"
	"encoding/binary"
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

// minMappedPayloadLen is the length a string value inside an "audios" object
// must exceed to be taken as the payload rather than metadata.
const minMappedPayloadLen = 100

// Verdict is a matcher's answer for one response.
type Verdict int

// Matcher verdicts.
const (
	// Miss lets the next matcher try.
	Miss Verdict = iota
	// Hit stops the search with the returned audio.
	Hit
	// Abort stops the search with NotFound.
	Abort
)

// Matcher recognizes one response shape. Match must be pure.
type Matcher struct {
	Shape string
	Match func(doc gjson.Result) (string, Verdict)
}

// Result is a successful extraction.
type Result struct {
	Audio string
	Shape string
}

// Normalizer applies matchers in order.
type Normalizer struct {
	matchers []Matcher
}

// NewNormalizer builds a Normalizer over the given matchers. With no
// arguments it uses DefaultMatchers.
func NewNormalizer(matchers ...Matcher) *Normalizer {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Normalizer{matchers: matchers}
}

// DefaultMatchers returns the known vendor shapes in priority order.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{Shape: "audios_empty", Match: matchEmptyAudios},
		{Shape: "audios_object", Match: matchAudiosObjectEntry},
		{Shape: "audios_chunks", Match: matchAudiosChunks},
		{Shape: "audios_pcm", Match: matchAudiosPCM},
		{Shape: "audios_string", Match: matchAudiosString},
		{Shape: "audios_mapping", Match: matchAudiosMapping},
		{Shape: "root_audio_base64", Match: rootString("audio_base64")},
		{Shape: "root_audio", Match: rootString("audio")},
	}
}

var defaultNormalizer = NewNormalizer() //nolint:gochecknoglobals // stateless, shared

// ExtractAudio returns the base64 audio in a vendor response, or a
// *NotFoundError.
func ExtractAudio(resp []byte) (string, error) {
	res, err := defaultNormalizer.Extract(resp)
	if err != nil {
		return "", err
	}
	return res.Audio, nil
}

// Extract runs the matchers over resp.
func (n *Normalizer) Extract(resp []byte) (Result, error) {
	if !gjson.ValidBytes(resp) {
		return Result{}, &NotFoundError{Reason: "invalid json", Response: append([]byte(nil), resp...)}
	}
	doc := gjson.ParseBytes(resp)
	if !doc.IsObject() {
		return Result{}, &NotFoundError{Reason: "not an object", Response: append([]byte(nil), resp...)}
	}

	for _, m := range n.matchers {
		audio, verdict := m.Match(doc)
		switch verdict {
		case Hit:
			return Result{Audio: audio, Shape: m.Shape}, nil
		case Abort:
			return Result{}, &NotFoundError{Reason: m.Shape, Response: append([]byte(nil), resp...)}
		case Miss:
		}
	}
	return Result{}, &NotFoundError{Reason: "no known shape", Response: append([]byte(nil), resp...)}
}

// RequestID returns the vendor's request_id, or "" when absent.
func RequestID(resp []byte) string {
	v := gjson.GetBytes(resp, "request_id")
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

// An empty audios array is the vendor signalling failure; root fallbacks
// must not be consulted.
func matchEmptyAudios(doc gjson.Result) (string, Verdict) {
	audios := doc.Get("audios")
	if audios.IsArray() && len(audios.Array()) == 0 {
		return "", Abort
	}
	return "", Miss
}

func firstAudio(doc gjson.Result) (gjson.Result, []gjson.Result, bool) {
	audios := doc.Get("audios")
	if !audios.IsArray() {
		return gjson.Result{}, nil, false
	}
	items := audios.Array()
	if len(items) == 0 {
		return gjson.Result{}, nil, false
	}
	return items[0], items, true
}

func matchAudiosObjectEntry(doc gjson.Result) (string, Verdict) {
	first, _, ok := firstAudio(doc)
	if !ok || !first.IsObject() {
		return "", Miss
	}
	v := first.Get("audio_base64")
	if v.Type == gjson.String && v.Str != "" {
		return v.Str, Hit
	}
	return "", Miss
}

func matchAudiosChunks(doc gjson.Result) (string, Verdict) {
	first, items, ok := firstAudio(doc)
	if !ok || first.Type != gjson.String {
		return "", Miss
	}
	var b strings.Builder
	for _, item := range items {
		b.WriteString(item.String())
	}
	if b.Len() == 0 {
		return "", Miss
	}
	return b.String(), Hit
}

func matchAudiosPCM(doc gjson.Result) (string, Verdict) {
	first, items, ok := firstAudio(doc)
	if !ok || first.Type != gjson.Number {
		return "", Miss
	}
	buf := make([]byte, 2*len(items))
	for i, item := range items {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(toInt16(item.Float())))
	}
	return base64.StdEncoding.EncodeToString(buf), Hit
}

func matchAudiosString(doc gjson.Result) (string, Verdict) {
	audios := doc.Get("audios")
	if audios.Type == gjson.String && audios.Str != "" {
		return audios.Str, Hit
	}
	return "", Miss
}

func matchAudiosMapping(doc gjson.Result) (string, Verdict) {
	audios := doc.Get("audios")
	if !audios.IsObject() {
		return "", Miss
	}
	var found string
	audios.ForEach(func(_, value gjson.Result) bool {
		if value.Type == gjson.String && len(value.Str) > minMappedPayloadLen {
			found = value.Str
			return false
		}
		return true
	})
	if found == "" {
		return "", Miss
	}
	return found, Hit
}

func rootString(field string) func(gjson.Result) (string, Verdict) {
	return func(doc gjson.Result) (string, Verdict) {
		v := doc.Get(field)
		if v.Type == gjson.String && v.Str != "" {
			return v.Str, Hit
		}
		return "", Miss
	}
}

// toInt16 converts like a typed-array store: truncate, then wrap modulo 2^16.
// NaN and infinities become 0.
func toInt16(f float64) int16 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 1<<16)
	if m < 0 {
		m += 1 << 16
	}
	if m >= 1<<15 {
		m -= 1 << 16
	}
	return int16(m)
}
