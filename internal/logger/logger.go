package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/traincore/dashboard-bff/middleware"
)

// Log is usable before Init so packages logging during early startup or in
// tests never hit an unconfigured logger.
var Log = zerolog.New(os.Stderr).With().Timestamp().Logger()

func Init(level, format string) {
	InitWithWriter(os.Stdout, level, format)
}

func InitWithWriter(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var l zerolog.Logger
	if format == "json" {
		l = zerolog.New(w).With().Timestamp().Logger().Level(lvl)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger().Level(lvl)
	}

	Log = l
	zlog.Logger = l
}

// Ctx returns a logger with Request-ID context if available
func Ctx(ctx context.Context) *zerolog.Logger {
	reqID := middleware.GetRequestID(ctx)
	if reqID != "" {
		l := Log.With().Str("request_id", reqID).Logger()
		return &l
	}
	return &Log
}
