package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given a logger initialized with a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		defer func() { _ = Sync() }()

		ctx := context.Background()

		Convey("When logging at info", func() {
			Get().Info(ctx, "chat turn served", String("language", "kn-IN"), Int("chars", 42))

			Convey("Then the message and fields are written with the caller", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "chat turn served")
				So(out, ShouldContainSubstring, "language=kn-IN")
				So(out, ShouldContainSubstring, "chars=42")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the configured level", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown", Error(errors.New("boom")))

			Convey("Then only the enabled record is written", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
				So(buf.String(), ShouldContainSubstring, "boom")
			})
		})

		Convey("When using a named logger", func() {
			Named("sarvam").Info(ctx, "request sent")

			Convey("Then the name is attached", func() {
				So(buf.String(), ShouldContainSubstring, "logger=sarvam")
			})
		})
	})
}

func TestLoggerJSONFormat(t *testing.T) {
	Convey("Given a JSON logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat("json")), ShouldBeNil)

		Get().Info(context.Background(), "json line", Bool("degraded", true))

		Convey("Then records are JSON objects", func() {
			So(buf.String(), ShouldStartWith, "{")
			So(buf.String(), ShouldContainSubstring, `"degraded":true`)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(WithWriter(&bytes.Buffer{})), ShouldBeNil)

		So(SetLevelString("DEBUG"), ShouldBeNil)
		So(SetLevelString("warning"), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
		So(SetLevelString("verbose"), ShouldNotBeNil)
	})
}

func TestNop(t *testing.T) {
	Convey("Nop never panics and writes nothing", t, func() {
		l := Nop()
		So(func() { l.Named("x").Error(context.Background(), "ignored") }, ShouldNotPanic)
	})
}
