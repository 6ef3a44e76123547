package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

type LogFile struct {
	Filename   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

func lookupInt(name string, fallback int) (int, error) {
	s, ok := os.LookupEnv(name)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unable to convert %s to int: %w", name, err)
	}
	return n, nil
}

// NewLogFile reads the LOG_FILE settings. It returns nil when no log file is
// configured.
func NewLogFile() (*LogFile, error) {
	filename, ok := os.LookupEnv("LOG_FILE")
	if !ok || filename == "" {
		return nil, nil
	}

	var (
		f   = &LogFile{Filename: filename}
		err error
	)
	if f.MaxSize, err = lookupInt("LOG_FILE_MAX_SIZE", 10); err != nil {
		return nil, err
	}
	if f.MaxBackups, err = lookupInt("LOG_FILE_MAX_BACKUPS", 3); err != nil {
		return nil, err
	}
	if f.MaxAge, err = lookupInt("LOG_FILE_MAX_AGE", 28); err != nil {
		return nil, err
	}
	return f, nil
}

func LogLevel() (logrus.Level, error) {
	levelStr, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		if Development() {
			return logrus.DebugLevel, nil
		}
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return 0, fmt.Errorf("unable to parse LOG_LEVEL: %w", err)
	}
	return level, nil
}

// NewLogger builds the server logger: colored text in development, JSON
// otherwise, plus a rotating JSON file when LOG_FILE is set.
func NewLogger() (*logrus.Logger, error) {
	level, err := LogLevel()
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetLevel(level)
	if Development() {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	file, err := NewLogFile()
	if err != nil {
		return nil, err
	}
	if file != nil {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   file.Filename,
			MaxSize:    file.MaxSize,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAge,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, fmt.Errorf("unable to create log file hook: %w", err)
		}
		log.AddHook(hook)
	}

	return log, nil
}
