package observability

import (
	"strings"

	"github.com/civistack/revena/internal/config"
	"github.com/civistack/revena/internal/observability/logger"
	"github.com/civistack/revena/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		provideLoggerConfig,
		logger.New,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
)

func provideLoggerConfig(cfg config.Config) logger.Config {
	return logger.Config{
		ServiceName:         cfg.AppName,
		Environment:         cfg.Environment,
		Version:             cfg.AppVersion,
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		IncludeCaller:       true,
		IncludeStackOnError: debug(cfg),
	}
}

func debug(cfg config.Config) bool {
	if strings.EqualFold(cfg.LogLevel, "debug") {
		return true
	}
	switch strings.ToLower(cfg.Environment) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}
