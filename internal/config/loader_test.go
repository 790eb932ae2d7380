package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/lumen/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigNew(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the reference defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":6005")
			convey.So(cfg.DefaultLanguage, convey.ShouldEqual, "en-IN")
			convey.So(cfg.MaxLoanAmount, convey.ShouldEqual, 50_000)
			convey.So(cfg.VendorTimeout(), convey.ShouldEqual, 15*time.Second)
			convey.So(cfg.TokenTTL(), convey.ShouldEqual, time.Hour)
			convey.So(cfg.TTSSpeaker, convey.ShouldEqual, "arvind")
			convey.So(cfg.TTSModel, convey.ShouldEqual, "bulbul:v1")
			convey.So(cfg.TranslateModel, convey.ShouldEqual, "mayura:v1")
			convey.So(cfg.MongoURI, convey.ShouldBeEmpty)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6005")
				convey.So(cfg.ArchiveQueueSize, convey.ShouldEqual, 1_000)
				convey.So(cfg.ArchiveWorkerCount, convey.ShouldEqual, 2)
				convey.So(cfg.RequireAuth, convey.ShouldBeFalse)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("LUMEN_ADDR", ":8080")
			_ = os.Setenv("LUMEN_VENDOR_TIMEOUT_MS", "5000")
			_ = os.Setenv("LUMEN_MAX_LOAN_AMOUNT", "75000")
			_ = os.Setenv("LUMEN_REQUIRE_AUTH", "true")
			_ = os.Setenv("LUMEN_SARVAM_API_KEY", "sk-test")
			_ = os.Setenv("LUMEN_METRICS_ENABLED", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.VendorTimeout(), convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.MaxLoanAmount, convey.ShouldEqual, 75000)
				convey.So(cfg.RequireAuth, convey.ShouldBeTrue)
				convey.So(cfg.SarvamAPIKey, convey.ShouldEqual, "sk-test")
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with a YAML file and env on top", func() {
			yamlContent := `
# local overrides
addr: ":9090"
default_language: "hi-IN"
archive_worker_count: 4
gemini_model: "gemini-2.0-flash"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LUMEN_CONFIG", tmpFile)
			_ = os.Setenv("LUMEN_ARCHIVE_WORKER_COUNT", "8")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values apply and env wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DefaultLanguage, convey.ShouldEqual, "hi-IN")
				convey.So(cfg.GeminiModel, convey.ShouldEqual, "gemini-2.0-flash")
				convey.So(cfg.ArchiveWorkerCount, convey.ShouldEqual, 8)
				convey.So(cfg.MaxLoanAmount, convey.ShouldEqual, 50_000)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("LUMEN_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("LUMEN_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("LUMEN_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})

		convey.Convey("When loading config with a zero vendor timeout", func() {
			_ = os.Setenv("LUMEN_VENDOR_TIMEOUT_MS", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("LUMEN_MAX_LOAN_AMOUNT", "lots")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"LUMEN_CONFIG",
		"LUMEN_ADDR",
		"LUMEN_VENDOR_TIMEOUT_MS",
		"LUMEN_MAX_LOAN_AMOUNT",
		"LUMEN_REQUIRE_AUTH",
		"LUMEN_SARVAM_API_KEY",
		"LUMEN_ARCHIVE_WORKER_COUNT",
		"LUMEN_METRICS_ENABLED",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "lumen-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
