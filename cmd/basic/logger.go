package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	slogmulti "github.com/samber/slog-multi"

	"gwbasic"
)

// logs is the console's logging setup: a colored terminal handler and,
// when trace_file is set, a JSON file that records everything down to
// debug level.
type logs struct {
	*slog.Logger

	term  *log.Logger
	level log.Level
	file  *os.File
}

func newLogger(cfg gwbasic.Config, debug bool) (*logs, error) {

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}

	if debug {
		level = log.DebugLevel
	}

	term := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    debug,
		ReportTimestamp: false,
		TimeFormat:      time.RFC3339,
		Prefix:          "GWBASIC",
		Level:           level,
	})

	term.SetColorProfile(termenv.ANSI256)
	if cfg.NoColor {
		term.SetColorProfile(termenv.Ascii)
	}

	l := &logs{term: term, level: level}

	handlers := []slog.Handler{term}

	if cfg.TraceFile != "" {
		l.file, err = os.Create(cfg.TraceFile)
		if err != nil {
			return nil, fmt.Errorf("trace_file: %w", err)
		}

		handlers = append(handlers, slog.NewJSONHandler(l.file,
			&slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	l.Logger = slog.New(slogmulti.Fanout(handlers...))

	return l, nil
}

//
// TRACE ON has to show the per-statement debug records on the terminal
// too, so it lowers the terminal level until TRACE OFF
//

func (l *logs) setTracing(on bool) {

	if on {
		l.term.SetLevel(log.DebugLevel)
	} else {
		l.term.SetLevel(l.level)
	}
}

func (l *logs) close() {

	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}
