package logger

import (
	"io"
	"os"
	"time"

	"github.com/Heidric/shop-admin/pkg/log"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Log is the process-wide logger. Packages derive their own with a "name"
// field when they are constructed.
var Log = func() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}()

type Logger struct {
	zl *zerolog.Logger
}

func Initialize(cfg *log.Config) (*Logger, error) {
	if cfg == nil {
		cfg = &log.Config{}
	}
	cfg.SetDefault()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "parse level %q", cfg.Level)
	}

	var out io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	Log = &zl

	return &Logger{zl: &zl}, nil
}

func (l *Logger) Zerolog() *zerolog.Logger {
	return l.zl
}
