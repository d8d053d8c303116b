package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/remonster/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.AnalyzerTimeoutMS, convey.ShouldEqual, 10_000)
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 1024)
				convey.So(cfg.OfflineLatencyMinMS, convey.ShouldEqual, 80)
				convey.So(cfg.OfflineLatencyMaxMS, convey.ShouldEqual, 150)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("REMONSTER_ADDR", ":8080")
			_ = os.Setenv("REMONSTER_ANALYZER_URL", "http://localhost:5000/analyze")
			_ = os.Setenv("REMONSTER_ANALYZER_TIMEOUT_MS", "2500")
			_ = os.Setenv("REMONSTER_MAX_SESSIONS", "16")
			_ = os.Setenv("REMONSTER_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.AnalyzerURL, convey.ShouldEqual, "http://localhost:5000/analyze")
				convey.So(cfg.AnalyzerTimeout(), convey.ShouldEqual, 2500*time.Millisecond)
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 16)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
max_sessions: 64
offline_latency_min_ms: 0
offline_latency_max_ms: 10
viewport_width: 550
viewport_height: 450
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("REMONSTER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 64)
				convey.So(cfg.OfflineLatencyMinMS, convey.ShouldEqual, 0)
				convey.So(cfg.OfflineLatencyMaxMS, convey.ShouldEqual, 10)
				convey.So(cfg.Viewport().InnerWidth(), convey.ShouldEqual, 500)
				convey.So(cfg.Viewport().InnerHeight(), convey.ShouldEqual, 400)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
max_sessions: 64
analyzer_timeout_ms: 5000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("REMONSTER_CONFIG", tmpFile)
			_ = os.Setenv("REMONSTER_ADDR", ":8080")      // This should override the file
			_ = os.Setenv("REMONSTER_MAX_SESSIONS", "32") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")            // Overridden by env
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 32)          // Overridden by env
				convey.So(cfg.AnalyzerTimeoutMS, convey.ShouldEqual, 5000)  // From file
				convey.So(cfg.OfflineLatencyMaxMS, convey.ShouldEqual, 150) // From defaults
			})
		})

		convey.Convey("When loading config with a dotenv file", func() {
			envFile := createTempFile("remonster-*.env", "REMONSTER_MAX_SESSIONS=12\nREMONSTER_ADDR=:7070\n")
			defer func() { _ = os.Remove(envFile) }()

			_ = os.Setenv("REMONSTER_ENV_FILE", envFile)
			_ = os.Setenv("REMONSTER_ADDR", ":8080") // Already set; the dotenv value must not win
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then unset variables should come from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 12)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			})
		})

		convey.Convey("When the named dotenv file does not exist", func() {
			_ = os.Setenv("REMONSTER_ENV_FILE", "/non/existent/remonster.env")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("REMONSTER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("REMONSTER_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("REMONSTER_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a zero timeout", func() {
			_ = os.Setenv("REMONSTER_ANALYZER_TIMEOUT_MS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("REMONSTER_MAX_SESSIONS", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderEdgeCases(t *testing.T) {
	convey.Convey("Given config loader edge cases", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with special characters in addr", func() {
			_ = os.Setenv("REMONSTER_ADDR", "localhost:8080")
			_ = os.Setenv("REMONSTER_ADDR", "0.0.0.0:9090")
			_ = os.Setenv("REMONSTER_ADDR", "[::1]:8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should handle various addr formats", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "[::1]:8080") // Last one wins
			})
		})

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# This is a comment
addr: ":9090"  # Inline comment
max_sessions: 8
# Another comment
log_level: debug
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("REMONSTER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 8)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with a viewport smaller than its margins", func() {
			yamlContent := `
viewport_width: 50
viewport_height: 300
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("REMONSTER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "smaller than its margins")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"REMONSTER_CONFIG",
		"REMONSTER_ENV_FILE",
		"REMONSTER_ADDR",
		"REMONSTER_LOG_LEVEL",
		"REMONSTER_LOG_FORMAT",
		"REMONSTER_ANALYZER_URL",
		"REMONSTER_ANALYZER_TIMEOUT_MS",
		"REMONSTER_MAX_SESSIONS",
		"REMONSTER_OFFLINE_LATENCY_MIN_MS",
		"REMONSTER_OFFLINE_LATENCY_MAX_MS",
		"REMONSTER_VIEWPORT_WIDTH",
		"REMONSTER_VIEWPORT_HEIGHT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	return createTempFile("remonster-config-*.yaml", content)
}

func createTempFile(pattern, content string) string {
	tmpFile, err := os.CreateTemp("", pattern)
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
