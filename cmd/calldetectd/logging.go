package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	ini "gopkg.in/ini.v1"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logFile *lumberjack.Logger

// initLogging routes the standard logger to stdout and, when a file is
// configured, to a rotating log file with independent minimum levels.
func initLogging(cfg *ini.File) {
	sec := cfg.Section("logging")

	consoleMin := parseLevel(sec.Key("console_level").MustString("info"))
	fileMin := parseLevel(sec.Key("file_level").MustString("debug"))

	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	filename := sec.Key("file").String()
	if filename == "" {
		logger.SetLevel(consoleMin)
		return
	}

	logFile = &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    sec.Key("max_size_mb").MustInt(100),
		MaxBackups: sec.Key("max_backups").MustInt(3),
	}

	// Hooks fan entries out, so the logger itself must pass the most
	// verbose of the two levels.
	level := consoleMin
	if fileMin > level {
		level = fileMin
	}
	logger.SetLevel(level)
	logger.SetOutput(io.Discard)
	logger.AddHook(&writerHook{Writer: os.Stdout, LogLevels: availableLevels(consoleMin)})
	logger.AddHook(&writerHook{Writer: logFile, LogLevels: availableLevels(fileMin)})
}

// closeLogging flushes and closes the log file.
func closeLogging() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

// writerHook writes entries to the given writer for the provided levels.
type writerHook struct {
	Writer    io.Writer
	LogLevels []logrus.Level
}

func (h *writerHook) Fire(e *logrus.Entry) error {
	line, err := e.String()
	if err != nil {
		return err
	}
	_, err = h.Writer.Write([]byte(line))
	return err
}

func (h *writerHook) Levels() []logrus.Level {
	return h.LogLevels
}

func availableLevels(min logrus.Level) []logrus.Level {
	levels := []logrus.Level{}
	for _, l := range logrus.AllLevels {
		if l <= min {
			levels = append(levels, l)
		}
	}
	return levels
}

func parseLevel(name string) logrus.Level {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
