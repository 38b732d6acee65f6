package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const LOG_BUFFER_SIZE = 1000

var ErrLogNotInitialized = errors.New("log object is not initialized yet")

const (
	LOG_LEVEL_ERROR = iota + 1
	LOG_LEVEL_WARN
	LOG_LEVEL_INFO
	LOG_LEVEL_DEBUG
)

// LogOptions says where and how much the dashboard logger writes.
type LogOptions struct {
	Dir     string
	File    string
	Level   string // debug|info|warn|error
	Rewrite bool   // truncate the file instead of appending
	Stderr  bool   // also write to stderr
}

// DashboardLogger queues log lines on a buffered channel and writes them
// to zap from a single goroutine. The zero value drops every event.
type DashboardLogger struct {
	mu                sync.RWMutex
	logBuffer         chan LeveledLogger
	handle            *os.File
	wg                *sync.WaitGroup
	loggerInitialized bool
	zapLogger         *zap.Logger
}

type LeveledLogger struct {
	level  int
	logMsg string
}

func (m *DashboardLogger) Init(opts LogOptions) error {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	if err := CheckAndCreateLogFolder(opts.Dir); err != nil {
		return err
	}

	flags := os.O_RDWR | os.O_CREATE | os.O_APPEND
	if opts.Rewrite {
		flags = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}

	m.handle, err = os.OpenFile(filepath.Join(opts.Dir, opts.File), flags, 0666)
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}

	m.zapLoggerInit(level, opts.Stderr)

	m.wg = new(sync.WaitGroup)
	m.logBuffer = make(chan LeveledLogger, LOG_BUFFER_SIZE)

	m.wg.Add(1)
	go m.logWritter()

	m.mu.Lock()
	m.loggerInitialized = true
	m.mu.Unlock()
	return nil
}

func (m *DashboardLogger) zapLoggerInit(level zapcore.Level, stderr bool) {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder

	config.EncodeLevel = zapcore.CapitalLevelEncoder //To Print level in Uppercase.
	encoder := zapcore.NewConsoleEncoder(config)     //To Print Lines in non json format.

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(m.handle), level),
	}
	if stderr {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level))
	}

	m.zapLogger = zap.New(zapcore.NewTee(cores...))
}

// ParseLevel maps a config level name onto a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return zapcore.ErrorLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func (m *DashboardLogger) logWritter() {
	for logdata := range m.logBuffer {
		switch logdata.level {
		case LOG_LEVEL_ERROR:
			m.zapLogger.Error(logdata.logMsg)
		case LOG_LEVEL_WARN:
			m.zapLogger.Warn(logdata.logMsg)
		case LOG_LEVEL_INFO:
			m.zapLogger.Info(logdata.logMsg)
		case LOG_LEVEL_DEBUG:
			m.zapLogger.Debug(logdata.logMsg)
		}
	}
	m.zapLogger.Sync()
	m.wg.Done()
}

// LogEvent queues a message. A leading int argument selects the level;
// otherwise the message is logged at info.
func (m *DashboardLogger) LogEvent(v ...interface{}) error {
	var msg string
	level := LOG_LEVEL_INFO

	if len(v) == 1 {
		msg = fmt.Sprint(v[0])
	} else if len(v) > 1 {
		if l, ok := v[0].(int); ok && l >= LOG_LEVEL_ERROR && l <= LOG_LEVEL_DEBUG {
			level = l
			msg = fmt.Sprintf("%v", v[1:])
		} else {
			msg = fmt.Sprintf("%v", v)
		}
		msg = msg[1 : len(msg)-1]
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.loggerInitialized {
		return ErrLogNotInitialized
	}
	m.logBuffer <- LeveledLogger{level, msg}
	return nil
}

// DeInit drains queued events and closes the log file.
func (m *DashboardLogger) DeInit() {
	m.mu.Lock()
	if !m.loggerInitialized {
		m.mu.Unlock()
		return
	}
	m.loggerInitialized = false
	close(m.logBuffer)
	m.mu.Unlock()

	m.wg.Wait()
	m.handle.Close()
}

func CheckAndCreateLogFolder(FolderNameWithPath string) error {
	_, err := os.Stat(FolderNameWithPath)

	if os.IsNotExist(err) {
		if err := os.MkdirAll(FolderNameWithPath, 0755); err != nil {
			return fmt.Errorf("failed to create folder %s: %w", FolderNameWithPath, err)
		}
	}
	return nil
}
