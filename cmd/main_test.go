package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	app "github.com/okian/lumen/internal/app"
	"github.com/okian/lumen/internal/config"
	"github.com/okian/lumen/pkg/logger"
	"github.com/okian/lumen/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("LUMEN_ADDR", ":8080")
			_ = os.Setenv("LUMEN_ARCHIVE_QUEUE_SIZE", "50")
			_ = os.Setenv("LUMEN_ARCHIVE_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("LUMEN_ADDR")
				_ = os.Unsetenv("LUMEN_ARCHIVE_QUEUE_SIZE")
				_ = os.Unsetenv("LUMEN_ARCHIVE_WORKER_COUNT")
			}()

			convey.Convey("Then configuration maps onto the service", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)

				svc := app.New(serviceOptions(cfg, logger.Nop())...)
				stats := svc.GetStats()
				convey.So(stats["workerCount"], convey.ShouldEqual, 4)
				convey.So(stats["queueSize"], convey.ShouldEqual, 50)
				convey.So(stats["defaultLanguage"], convey.ShouldEqual, "en-IN")
				convey.So(stats["maxLoanAmount"], convey.ShouldEqual, 50_000)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.So(metrics.NewManager(), convey.ShouldNotBeNil)
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given a started service without vendor keys", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.ArchiveWorkerCount = 1
		svc := app.New(serviceOptions(cfg, logger.Nop())...)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		h := newHandler(ctx, cfg, svc)
		serve := func(method, path, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, strings.NewReader(body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			return w
		}

		convey.Convey("Then the landing page and docs are served", func() {
			convey.So(serve(http.MethodGet, "/", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/api-docs", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/openapi.yaml", "").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("And the business routes answer", func() {
			convey.So(serve(http.MethodGet, "/questions", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/healthz", "").Code, convey.ShouldEqual, http.StatusOK)
			w := serve(http.MethodPost, "/register", `{"name":"Asha","email":"asha@example.com","password":"pw"}`)
			convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)
		})

		convey.Convey("And generation degrades to the apology without a key", func() {
			w := serve(http.MethodPost, "/generate", `{"prompt":"What is EMI?"}`)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"error":"failed"`)
		})

		convey.Convey("And translation reports the missing vendor", func() {
			w := serve(http.MethodPost, "/translate", `{"input":"hello"}`)
			convey.So(w.Code, convey.ShouldEqual, http.StatusServiceUnavailable)
		})

		convey.Convey("And CORS headers are present", func() {
			w := serve(http.MethodGet, "/questions", "")
			convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "*")
		})

		convey.Convey("And unknown paths are not found", func() {
			convey.So(serve(http.MethodGet, "/nope", "").Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater's context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})

		convey.Convey("When the service metrics updater's context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startServiceMetricsUpdater(ctx, app.New()) }, convey.ShouldNotPanic)
		})

		convey.Convey("When updating metrics directly", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(app.New()) }, convey.ShouldNotPanic)
		})
	})
}
