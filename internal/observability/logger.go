package observability

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger 初始化全域 zerolog logger
// 日誌一律寫到 stderr，stdout 保留給 -o - 的 JSON 輸出
func InitLogger(serviceName, env, level string) zerolog.Logger {
	return initLogger(os.Stderr, serviceName, env, level)
}

func initLogger(out io.Writer, serviceName, env, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	runID := uuid.NewString()
	if env == "development" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}).With().
			Timestamp().
			Str("service", serviceName).
			Str("run_id", runID).
			Logger().
			Level(lvl)
	} else {
		log.Logger = zerolog.New(out).
			With().
			Timestamp().
			Str("service", serviceName).
			Str("run_id", runID).
			Logger().
			Level(lvl)
	}
	return log.Logger
}

// GetLogger 取得全域 logger
func GetLogger() *zerolog.Logger {
	return &log.Logger
}
