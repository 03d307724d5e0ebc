package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/hearlab/audex/internal/adapters/http/api"
	"github.com/hearlab/audex/internal/adapters/http/site"
	"github.com/hearlab/audex/internal/adapters/http/swagger"
	"github.com/hearlab/audex/internal/config"
	"github.com/hearlab/audex/internal/explore"
	"github.com/hearlab/audex/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("AUDEX_ADDR", ":8081")
			_ = os.Setenv("AUDEX_DATASET_PATH", "testdata/audiogram_df.csv")
			_ = os.Setenv("AUDEX_RADAR_SCALE", "demo")
			defer func() {
				_ = os.Unsetenv("AUDEX_ADDR")
				_ = os.Unsetenv("AUDEX_DATASET_PATH")
				_ = os.Unsetenv("AUDEX_RADAR_SCALE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.DatasetPath, convey.ShouldEqual, "testdata/audiogram_df.csv")
				convey.So(cfg.RadarScale, convey.ShouldEqual, "demo")
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := explore.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := explore.New(
					explore.WithDatasetPath("audiogram_df.csv"),
					explore.WithMaxTableRows(100),
					explore.WithRetryWindow(time.Second),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := explore.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, svc)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager()
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		convey.Convey("When testing full route registration", func() {
			_ = os.Setenv("AUDEX_ADDR", ":8081")
			defer func() { _ = os.Unsetenv("AUDEX_ADDR") }()

			convey.Convey("Then all components should wire together", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)

				// Create service without starting to avoid touching the filesystem
				svc := explore.New(
					explore.WithDatasetPath(cfg.DatasetPath),
					explore.WithMaxTableRows(cfg.MaxTableRows),
				)
				convey.So(svc, convey.ShouldNotBeNil)

				server := api.NewServer(svc, svc)
				convey.So(server, convey.ShouldNotBeNil)

				mux := http.NewServeMux()
				convey.So(mux, convey.ShouldNotBeNil)

				site.Register(ctx, mux)
				swagger.Register(ctx, mux)
				server.Register(ctx, mux)

				svc.Stop()
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("AUDEX_ADDR", "")
			defer func() { _ = os.Unsetenv("AUDEX_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing an invalid radar scale", func() {
			_ = os.Setenv("AUDEX_RADAR_SCALE", "logarithmic")
			defer func() { _ = os.Unsetenv("AUDEX_RADAR_SCALE") }()

			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
