package speech_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/lumen/internal/domain/speech"
	"github.com/tidwall/gjson"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExtractAudio_KnownShapes(t *testing.T) {
	Convey("Given speech vendor responses", t, func() {
		Convey("An audios array of objects yields the first audio_base64", func() {
			audio, err := speech.ExtractAudio([]byte(`{"audios":[{"audio_base64":"QQ=="},{"audio_base64":"Qg=="}]}`))
			So(err, ShouldBeNil)
			So(audio, ShouldEqual, "QQ==")
		})

		Convey("An audios array of strings is concatenated in order", func() {
			audio, err := speech.ExtractAudio([]byte(`{"audios":["QQ","=="]}`))
			So(err, ShouldBeNil)
			So(audio, ShouldEqual, "QQ==")
		})

		Convey("An audios array of numbers is packed as little-endian int16 PCM", func() {
			audio, err := speech.ExtractAudio([]byte(`{"audios":[1,-1,32768]}`))
			So(err, ShouldBeNil)
			So(audio, ShouldEqual, "AQD//wCA")
		})

		Convey("Fractional samples are truncated toward zero", func() {
			audio, err := speech.ExtractAudio([]byte(`{"audios":[1.9,-1.9]}`))
			So(err, ShouldBeNil)
			So(audio, ShouldEqual, "AQD//w==")
		})

		Convey("A string audios field is returned directly", func() {
			audio, err := speech.ExtractAudio([]byte(`{"audios":"UklGRg=="}`))
			So(err, ShouldBeNil)
			So(audio, ShouldEqual, "UklGRg==")
		})

		Convey("An audios object yields its first long string value in document order", func() {
			long1 := strings.Repeat("A", 101)
			long2 := strings.Repeat("B", 200)
			body := `{"audios":{"format":"wav","z_payload":"` + long1 + `","a_payload":"` + long2 + `"}}`
			audio, err := speech.ExtractAudio([]byte(body))
			So(err, ShouldBeNil)
			So(audio, ShouldEqual, long1)
		})

		Convey("An audios object with only short strings falls back to the root fields", func() {
			audio, err := speech.ExtractAudio([]byte(`{"audios":{"format":"wav"},"audio_base64":"ROOT"}`))
			So(err, ShouldBeNil)
			So(audio, ShouldEqual, "ROOT")
		})

		Convey("Root audio_base64 wins over root audio", func() {
			audio, err := speech.ExtractAudio([]byte(`{"audio":"XYZ","audio_base64":"ABC"}`))
			So(err, ShouldBeNil)
			So(audio, ShouldEqual, "ABC")
		})

		Convey("Root audio is the last resort", func() {
			audio, err := speech.ExtractAudio([]byte(`{"audio":"XYZ"}`))
			So(err, ShouldBeNil)
			So(audio, ShouldEqual, "XYZ")
		})

		Convey("An object entry without audio_base64 falls through to root fields", func() {
			audio, err := speech.ExtractAudio([]byte(`{"audios":[{"format":"wav"}],"audio":"XYZ"}`))
			So(err, ShouldBeNil)
			So(audio, ShouldEqual, "XYZ")
		})
	})
}

func TestExtractAudio_NotFound(t *testing.T) {
	Convey("Given responses without usable audio", t, func() {
		Convey("An empty audios array short-circuits even when root fields exist", func() {
			body := []byte(`{"audios":[],"audio":"XYZ"}`)
			audio, err := speech.ExtractAudio(body)
			So(audio, ShouldBeEmpty)
			So(errors.Is(err, speech.ErrAudioNotFound), ShouldBeTrue)

			var nf *speech.NotFoundError
			So(errors.As(err, &nf), ShouldBeTrue)
			So(string(nf.Response), ShouldEqual, string(body))
		})

		Convey("An empty object is NotFound", func() {
			_, err := speech.ExtractAudio([]byte(`{}`))
			So(errors.Is(err, speech.ErrAudioNotFound), ShouldBeTrue)
		})

		Convey("Invalid JSON is NotFound, not a panic", func() {
			_, err := speech.ExtractAudio([]byte(`{"audios":`))
			So(errors.Is(err, speech.ErrAudioNotFound), ShouldBeTrue)
		})

		Convey("A non-object document is NotFound", func() {
			_, err := speech.ExtractAudio([]byte(`["QQ=="]`))
			So(errors.Is(err, speech.ErrAudioNotFound), ShouldBeTrue)
		})

		Convey("Empty strings do not count as audio", func() {
			_, err := speech.ExtractAudio([]byte(`{"audios":"","audio_base64":"","audio":""}`))
			So(errors.Is(err, speech.ErrAudioNotFound), ShouldBeTrue)
		})
	})
}

func TestNormalizer_CustomMatchers(t *testing.T) {
	Convey("Given a normalizer with an extra vendor shape appended", t, func() {
		matchers := append(speech.DefaultMatchers(), speech.Matcher{
			Shape: "data_wav",
			Match: func(doc gjson.Result) (string, speech.Verdict) {
				if v := doc.Get("data.wav"); v.Type == gjson.String {
					return v.Str, speech.Hit
				}
				return "", speech.Miss
			},
		})
		n := speech.NewNormalizer(matchers...)

		Convey("Then the new shape is tried after the built-in ones", func() {
			res, err := n.Extract([]byte(`{"data":{"wav":"V0FW"}}`))
			So(err, ShouldBeNil)
			So(res.Audio, ShouldEqual, "V0FW")
			So(res.Shape, ShouldEqual, "data_wav")
		})

		Convey("And built-in shapes keep priority", func() {
			res, err := n.Extract([]byte(`{"audio":"XYZ","data":{"wav":"V0FW"}}`))
			So(err, ShouldBeNil)
			So(res.Shape, ShouldEqual, "root_audio")
		})
	})
}

func TestRequestID(t *testing.T) {
	Convey("Given a vendor response", t, func() {
		So(speech.RequestID([]byte(`{"request_id":"req-1","audios":[]}`)), ShouldEqual, "req-1")
		So(speech.RequestID([]byte(`{"request_id":null}`)), ShouldBeEmpty)
		So(speech.RequestID([]byte(`{}`)), ShouldBeEmpty)
	})
}
