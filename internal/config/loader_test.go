package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/attrition/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ATTRITION_ADDR", ":8080")
			_ = os.Setenv("ATTRITION_DATA_PATH", "/srv/hr.csv")
			_ = os.Setenv("ATTRITION_MAX_SESSIONS", "8")
			_ = os.Setenv("ATTRITION_MODEL_C", "0.5")
			_ = os.Setenv("ATTRITION_MODEL_MAX_ITER", "50")
			_ = os.Setenv("ATTRITION_MODEL_SEED", "7")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataPath, convey.ShouldEqual, "/srv/hr.csv")
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 8)
				convey.So(cfg.ModelC, convey.ShouldEqual, 0.5)
				convey.So(cfg.ModelMaxIter, convey.ShouldEqual, 50)
				convey.So(cfg.ModelSeed, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When loading config with a YAML file and env vars", func() {
			path := writeConfigFile(t, `
# file values
addr: ":9090"
log_format: json
cache_size: 4
model_test_fraction: 0.25
`)
			_ = os.Setenv("ATTRITION_CONFIG", path)
			_ = os.Setenv("ATTRITION_CACHE_SIZE", "2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env should win over the file and the file over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.CacheSize, convey.ShouldEqual, 2)
				convey.So(cfg.ModelTestFraction, convey.ShouldEqual, 0.25)
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 256)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := writeConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("ATTRITION_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("ATTRITION_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("ATTRITION_MAX_SESSIONS", "many")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with an out of range value", func() {
			_ = os.Setenv("ATTRITION_MODEL_TEST_FRACTION", "1.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "model_test_fraction")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "ATTRITION_") {
			_ = os.Unsetenv(name)
		}
	}
}

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "attrition.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
