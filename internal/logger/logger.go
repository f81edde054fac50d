package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"tg-moderator/internal/config"
)

// log levels in increasing severity
const (
	levelDebug = iota
	levelInfo
	levelWarning
	levelError
	levelFatal
)

var currentLevel = levelInfo

var levelNames = map[string]int{
	"DEBUG":   levelDebug,
	"INFO":    levelInfo,
	"WARNING": levelWarning,
	"ERROR":   levelError,
	"FATAL":   levelFatal,
}

// createLogFilePath generates a log file path with the current date
func createLogFilePath(logDir, prefix string) string {
	currentDate := time.Now().Format("2006-01-02")
	return filepath.Join(logDir, fmt.Sprintf("%s-%s.log", prefix, currentDate))
}

// createRotatingLogger creates a lumberjack rotating logger
func createRotatingLogger(logFilePath string, cfg *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    cfg.Logger.Rotation.MaxSize,
		MaxBackups: cfg.Logger.Rotation.MaxBackups,
		MaxAge:     cfg.Logger.Rotation.MaxAge,
		Compress:   cfg.Logger.Rotation.Compress,
	}
}

// createMultiWriter creates a writer that outputs to both stdout and log file
func createMultiWriter(rotatingLogger io.Writer) io.Writer {
	return io.MultiWriter(os.Stdout, rotatingLogger)
}

// Setup configures logging to output to both stdout and a rotating log file
func Setup(cfg *config.Config) error {
	logDir := cfg.Logger.Directory

	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	if level, ok := levelNames[strings.ToUpper(cfg.Logger.Level)]; ok {
		currentLevel = level
	}

	logFilePath := createLogFilePath(logDir, "tg-moderator")
	rotatingLogger := createRotatingLogger(logFilePath, cfg)
	multiWriter := createMultiWriter(rotatingLogger)

	// Set standard logger output to the multi-writer
	log.SetOutput(multiWriter)

	// Set log flags to include date, time, and file information
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Printf("Logging initialized: writing to %s", logFilePath)
	return nil
}

// GetRotatingLogWriter returns a rotating log writer for custom loggers
func GetRotatingLogWriter(cfg *config.Config, prefix string) io.Writer {
	logFilePath := createLogFilePath(cfg.Logger.Directory, prefix)
	rotatingLogger := createRotatingLogger(logFilePath, cfg)
	return createMultiWriter(rotatingLogger)
}

func output(level int, tag, format string, args ...interface{}) {
	if level < currentLevel {
		return
	}
	// Skip output() and the exported wrapper so file:line points at the caller
	log.Output(3, fmt.Sprintf("[%s] %s", tag, fmt.Sprintf(format, args...)))
}

func Debugf(format string, args ...interface{}) {
	output(levelDebug, "DEBUG", format, args...)
}

func Infof(format string, args ...interface{}) {
	output(levelInfo, "INFO", format, args...)
}

func Warningf(format string, args ...interface{}) {
	output(levelWarning, "WARNING", format, args...)
}

func Errorf(format string, args ...interface{}) {
	output(levelError, "ERROR", format, args...)
}

func Error(args ...interface{}) {
	output(levelError, "ERROR", "%s", fmt.Sprint(args...))
}

func Fatalf(format string, args ...interface{}) {
	output(levelFatal, "FATAL", format, args...)
	os.Exit(1)
}
