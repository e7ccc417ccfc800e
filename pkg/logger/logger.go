// Package logger файловый логгер с уровнями для сервисов SMC
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Уровни логирования
const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger пишет размеченные по уровням сообщения в файл и stdout
type Logger struct {
	file  *os.File
	out   *log.Logger
	level int
}

// New создает логгер, пишущий в указанный файл
// level: debug | info | warn | error
func New(path, level string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	return &Logger{
		file:  file,
		out:   log.New(io.MultiWriter(os.Stdout, file), "", log.LstdFlags),
		level: parseLevel(level),
	}, nil
}

func parseLevel(level string) int {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Close закрывает файл логов
func (l *Logger) Close() error {
	return l.file.Close()
}

func (l *Logger) Debug(format string, v ...interface{}) {
	if l.level <= LevelDebug {
		l.out.Printf("[DEBUG] "+format, v...)
	}
}

func (l *Logger) Info(format string, v ...interface{}) {
	if l.level <= LevelInfo {
		l.out.Printf("[INFO] "+format, v...)
	}
}

func (l *Logger) Warn(format string, v ...interface{}) {
	if l.level <= LevelWarn {
		l.out.Printf("[WARN] "+format, v...)
	}
}

func (l *Logger) Error(format string, v ...interface{}) {
	if l.level <= LevelError {
		l.out.Printf("[ERROR] "+format, v...)
	}
}

// Fatal пишет сообщение и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.out.Printf("[FATAL] "+format, v...)
	l.file.Close()
	os.Exit(1)
}
