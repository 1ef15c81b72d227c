package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/formline/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8090")
				convey.So(cfg.HistoryPath, convey.ShouldEqual, "betting_history.db")
				convey.So(cfg.PriceToleranceDays, convey.ShouldEqual, 1)
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, int64(64<<20))
				convey.So(cfg.MaxHistoryLimit, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FORMLINE_ADDR", ":8080")
			_ = os.Setenv("FORMLINE_HISTORY_PATH", "custom.db")
			_ = os.Setenv("FORMLINE_PRICE_TOLERANCE_DAYS", "2")
			_ = os.Setenv("FORMLINE_MAX_HISTORY_LIMIT", "500")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.HistoryPath, convey.ShouldEqual, "custom.db")
				convey.So(cfg.PriceToleranceDays, convey.ShouldEqual, 2)
				convey.So(cfg.MaxHistoryLimit, convey.ShouldEqual, 500)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
history_path: "/tmp/history.db"
price_tolerance_days: 3
max_history_limit: 200
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("FORMLINE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should use the file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.HistoryPath, convey.ShouldEqual, "/tmp/history.db")
				convey.So(cfg.PriceToleranceDays, convey.ShouldEqual, 3)
				convey.So(cfg.MaxHistoryLimit, convey.ShouldEqual, 200)
			})
		})

		convey.Convey("When the tolerance is negative", func() {
			_ = os.Setenv("FORMLINE_PRICE_TOLERANCE_DAYS", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"FORMLINE_CONFIG",
		"FORMLINE_ADDR",
		"FORMLINE_LOG_LEVEL",
		"FORMLINE_HISTORY_PATH",
		"FORMLINE_PRICE_TOLERANCE_DAYS",
		"FORMLINE_MAX_UPLOAD_BYTES",
		"FORMLINE_MAX_HISTORY_LIMIT",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
