package sarvam_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/lumen/internal/adapters/vendors/sarvam"
	"github.com/okian/lumen/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

type captured struct {
	path   string
	apiKey string
	body   map[string]any
}

func newServer(status int, reply string, got *captured) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		got.path = r.URL.Path
		got.apiKey = r.Header.Get("api-subscription-key")
		got.body = map[string]any{}
		_ = json.Unmarshal(raw, &got.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
}

func TestSynthesize(t *testing.T) {
	Convey("Given a TTS endpoint", t, func() {
		var got captured
		srv := newServer(http.StatusOK, `{"request_id":"r1","audios":["QQ=="]}`, &got)
		defer srv.Close()
		c := sarvam.New("sk-test", sarvam.WithBaseURL(srv.URL+"/"))

		Convey("When synthesizing", func() {
			raw, err := c.Synthesize(context.Background(), "hello", "hi-IN")

			Convey("Then the voice parameters are sent and the raw body returned", func() {
				So(err, ShouldBeNil)
				So(string(raw), ShouldEqual, `{"request_id":"r1","audios":["QQ=="]}`)
				So(got.path, ShouldEqual, "/text-to-speech")
				So(got.apiKey, ShouldEqual, "sk-test")
				So(got.body["inputs"], ShouldResemble, []any{"hello"})
				So(got.body["target_language_code"], ShouldEqual, "hi-IN")
				So(got.body["speaker"], ShouldEqual, "arvind")
				So(got.body["pitch"], ShouldEqual, 0.0)
				So(got.body["pace"], ShouldEqual, 1.0)
				So(got.body["loudness"], ShouldEqual, 1.0)
				So(got.body["speech_sample_rate"], ShouldEqual, 22050.0)
				So(got.body["enable_preprocessing"], ShouldEqual, true)
				So(got.body["model"], ShouldEqual, "bulbul:v1")
			})
		})
	})

	Convey("Given a TTS endpoint that rejects the request", t, func() {
		var got captured
		srv := newServer(http.StatusForbidden, `{"error":"quota"}`, &got)
		defer srv.Close()
		c := sarvam.New("sk-test", sarvam.WithBaseURL(srv.URL))

		_, err := c.Synthesize(context.Background(), "hello", "en-IN")

		Convey("Then an APIError carries status and body", func() {
			var apiErr *sarvam.APIError
			So(errors.As(err, &apiErr), ShouldBeTrue)
			So(apiErr.Status, ShouldEqual, http.StatusForbidden)
			So(string(apiErr.Body), ShouldEqual, `{"error":"quota"}`)
		})
	})
}

func TestTranslate(t *testing.T) {
	Convey("Given a translate endpoint", t, func() {
		var got captured
		srv := newServer(http.StatusOK, `{"translated_text":"ನಮಸ್ಕಾರ","request_id":"t1"}`, &got)
		defer srv.Close()
		c := sarvam.New("sk-test", sarvam.WithBaseURL(srv.URL), sarvam.WithTranslateModel("mayura:v2"))

		Convey("When translating", func() {
			out, err := c.Translate(context.Background(), "hello", "en-IN", "kn-IN")

			So(err, ShouldBeNil)
			So(out, ShouldEqual, "ನಮಸ್ಕಾರ")
			So(got.path, ShouldEqual, "/translate")
			So(got.body["input"], ShouldEqual, "hello")
			So(got.body["source_language_code"], ShouldEqual, "en-IN")
			So(got.body["target_language_code"], ShouldEqual, "kn-IN")
			So(got.body["model"], ShouldEqual, "mayura:v2")
			So(got.body, ShouldNotContainKey, "output_script")
		})
	})

	Convey("Given a translate endpoint with an unexpected body", t, func() {
		var got captured
		srv := newServer(http.StatusOK, `{"something":"else"}`, &got)
		defer srv.Close()
		c := sarvam.New("sk-test", sarvam.WithBaseURL(srv.URL))

		_, err := c.Translate(context.Background(), "hello", "en-IN", "kn-IN")
		So(errors.Is(err, sarvam.ErrMalformedResponse), ShouldBeTrue)
	})
}

func TestForward(t *testing.T) {
	Convey("Given a passthrough request with only input set", t, func() {
		var got captured
		srv := newServer(http.StatusBadRequest, `{"error":{"message":"bad language"}}`, &got)
		defer srv.Close()
		c := sarvam.New("sk-test", sarvam.WithBaseURL(srv.URL))

		status, body, err := c.Forward(context.Background(), sarvam.TranslateRequest{Input: "hello world"})

		Convey("Then defaults are filled and the vendor answer is returned as is", func() {
			So(err, ShouldBeNil)
			So(status, ShouldEqual, http.StatusBadRequest)
			So(string(body), ShouldEqual, `{"error":{"message":"bad language"}}`)
			So(got.body["source_language_code"], ShouldEqual, "en-IN")
			So(got.body["target_language_code"], ShouldEqual, "kn-IN")
			So(got.body["speaker_gender"], ShouldEqual, "Female")
			So(got.body["mode"], ShouldEqual, "formal")
			So(got.body["model"], ShouldEqual, "mayura:v1")
			So(got.body["enable_preprocessing"], ShouldEqual, false)
			So(got.body["output_script"], ShouldEqual, "roman")
			So(got.body["numerals_format"], ShouldEqual, "international")
		})
	})
}

func TestFailures(t *testing.T) {
	Convey("Given a client without an API key", t, func() {
		var got captured
		srv := newServer(http.StatusOK, `{}`, &got)
		defer srv.Close()
		c := sarvam.New("", sarvam.WithBaseURL(srv.URL))

		_, err := c.Synthesize(context.Background(), "hello", "en-IN")

		Convey("Then no request is made", func() {
			So(errors.Is(err, sarvam.ErrMissingAPIKey), ShouldBeTrue)
			So(got.path, ShouldBeEmpty)
		})
	})

	Convey("Given a vendor slower than the timeout", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer srv.Close()
		c := sarvam.New("sk-test", sarvam.WithBaseURL(srv.URL), sarvam.WithTimeout(20*time.Millisecond))

		_, _, err := c.Forward(context.Background(), sarvam.TranslateRequest{Input: "hi"})

		Convey("Then the call fails as unreachable", func() {
			So(sarvam.IsUnreachable(err), ShouldBeTrue)
		})
	})
}
