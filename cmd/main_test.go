package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	app "github.com/okian/attrition/internal/app"
	"github.com/okian/attrition/internal/config"
	"github.com/okian/attrition/pkg/logger"
	"github.com/okian/attrition/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			t.Setenv("ATTRITION_ADDR", ":8080")
			t.Setenv("ATTRITION_MAX_SESSIONS", "12")
			t.Setenv("ATTRITION_MODEL_SEED", "7")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 12)
				convey.So(cfg.ModelSeed, convey.ShouldEqual, int64(7))
			})
		})

		convey.Convey("When the address is blanked", func() {
			t.Setenv("ATTRITION_ADDR", "")

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.So(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry())), convey.ShouldNotBeNil)
		})
	})
}

func TestRoutes(t *testing.T) {
	convey.Convey("Given the assembled routes", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		ctx := context.Background()

		path := filepath.Join(t.TempDir(), "employees.csv")
		csv := "Age,Department,JobRole,OverTime,Attrition\n30,Sales,Rep,Yes,Yes\n41,HR,Clerk,No,No\n"
		convey.So(os.WriteFile(path, []byte(csv), 0o600), convey.ShouldBeNil)

		cfg := config.New(ctx)
		cfg.DataPath = path
		svc := app.New(app.WithLogger(logger.Get()), app.WithDataPath(cfg.DataPath))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := routes(ctx, cfg, svc, logger.Get())
		get := func(method, path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(method, path, nil))
			return w
		}

		convey.Convey("Then every surface should answer", func() {
			for _, p := range []string{"/", "/dashboard", "/api-docs", "/openapi.yaml", "/healthz", "/stats"} {
				convey.So(get(http.MethodGet, p).Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then the default dataset should open", func() {
			w := get(http.MethodPost, "/sessions")
			convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"rows":2`)
		})

		convey.Convey("Then unknown paths should be 404", func() {
			convey.So(get(http.MethodGet, "/events").Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("When it runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})

		convey.Convey("When updated directly", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
