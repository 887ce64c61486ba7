package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"farm-keeper/internal/config"
)

var sink io.Writer = os.Stdout

// Init configures the global zerolog logger. With LOG_FILE set, output is
// duplicated into a size-capped file so a long-running daemon cannot fill
// the disk.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil {
			level = parsed
		}
	}

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	if path := strings.TrimSpace(cfg.File); path != "" {
		if fw, err := newCappedFileWriter(path, cfg.MaxMB); err == nil {
			output = io.MultiWriter(output, fw)
		}
	}
	sink = output

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
}

// Writer exposes the active log sink for adapters that want to share it
// (e.g. slog-based HTTP request logging).
func Writer() io.Writer {
	return sink
}
