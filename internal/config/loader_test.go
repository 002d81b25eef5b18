package config_test

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/okian/nyusatsu/internal/config"
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
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1_000)
				convey.So(cfg.InputEncoding, convey.ShouldEqual, config.EncodingAuto)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("NYUSATSU_INPUT", "/data/cases.csv")
			_ = os.Setenv("NYUSATSU_OUTPUT", "/data/records.xlsx")
			_ = os.Setenv("NYUSATSU_INPUT_ENCODING", "shift_jis")
			_ = os.Setenv("NYUSATSU_WORKER_COUNT", "16")
			_ = os.Setenv("NYUSATSU_METRICS_TEXTFILE", "/var/lib/node_exporter/nyusatsu.prom")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Input, convey.ShouldEqual, "/data/cases.csv")
				convey.So(cfg.Output, convey.ShouldEqual, "/data/records.xlsx")
				convey.So(cfg.InputEncoding, convey.ShouldEqual, "shift_jis")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.MetricsTextfile, convey.ShouldEqual, "/var/lib/node_exporter/nyusatsu.prom")
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# batch settings
input: "exports/2024-03.xlsx"
output: "out/2024-03.jsonl"
sheet: "案件一覧"
queue_size: 500
worker_count: 4
log_format: json
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("NYUSATSU_CONFIG", tmpFile)
			_ = os.Setenv("NYUSATSU_WORKER_COUNT", "32") // overrides the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Input, convey.ShouldEqual, "exports/2024-03.xlsx")
				convey.So(cfg.Sheet, convey.ShouldEqual, "案件一覧")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.ShardCount, convey.ShouldEqual, 8) // default
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("NYUSATSU_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("NYUSATSU_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("NYUSATSU_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with zero workers", func() {
			_ = os.Setenv("NYUSATSU_WORKER_COUNT", "0")
			_ = os.Setenv("NYUSATSU_INPUT", "in.csv")
			_ = os.Setenv("NYUSATSU_OUTPUT", "out.jsonl")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it loads but fails validation", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"NYUSATSU_CONFIG",
		"NYUSATSU_INPUT",
		"NYUSATSU_OUTPUT",
		"NYUSATSU_INPUT_ENCODING",
		"NYUSATSU_QUEUE_SIZE",
		"NYUSATSU_WORKER_COUNT",
		"NYUSATSU_METRICS_TEXTFILE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "nyusatsu-config-*.yaml")
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
