package log

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultLogsDir = "logs"

	// MaxLogFileSizeMB caps app.log before lumberjack rotates it.
	MaxLogFileSizeMB = 50
	maxLogBackups    = 3
)

// Loggers stay no-op until Init runs, so packages and tests can log freely.
var (
	Logger        = zap.NewNop()
	consoleLogger = zap.NewNop() // ERROR and SUCCESS only
	fileLogger    = zap.NewNop()
	initMu        sync.Mutex
)

// Init builds the file logger (logsDir/app.log) and the colored console logger.
func Init(logsDir string) error {
	initMu.Lock()
	defer initMu.Unlock()

	if logsDir == "" {
		logsDir = DefaultLogsDir
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	fileEncoder := &customFileEncoder{Encoder: zapcore.NewConsoleEncoder(fileConfig)}
	fileCore := zapcore.NewCore(
		fileEncoder,
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(logsDir, "app.log"),
			MaxSize:    MaxLogFileSizeMB,
			MaxBackups: maxLogBackups,
		}),
		zapcore.DebugLevel,
	)

	consoleConfig := zap.NewDevelopmentConfig()
	consoleConfig.EncoderConfig.EncodeLevel = customLevelEncoder
	consoleConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleConfig.EncoderConfig.EncodeCaller = nil
	consoleConfig.Development = false
	consoleConfig.DisableStacktrace = true
	consoleConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	console, err := consoleConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to build console logger: %w", err)
	}

	fileLogger = zap.New(fileCore)
	consoleLogger = console
	Logger = fileLogger
	return nil
}

// Sync flushes both loggers.
func Sync() {
	_ = fileLogger.Sync()
	_ = consoleLogger.Sync()
}

// GenerateRequestID returns a random 16-char hex ID.
func GenerateRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func RequestLogger(requestID string) *zap.Logger {
	return Logger.With(zap.String("request_id", requestID))
}

// LogRequest writes an incoming HTTP request to the file log.
func LogRequest(requestID, method, endpoint string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	}, fields...)
	Logger.Info("HTTP request", allFields...)
}

// LogResponse writes the response to the file log; failures also go to the console.
func LogResponse(requestID string, statusCode int, durationMs int64, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("request_id", requestID),
		zap.Int("status_code", statusCode),
		zap.Int64("duration_ms", durationMs),
	}, fields...)

	if statusCode >= 200 && statusCode < 400 {
		Logger.Info("HTTP response", allFields...)
		return
	}

	Logger.Error("HTTP response", allFields...)
	if endpoint := fieldsToString(fields); endpoint != "" {
		consoleLogger.Error(fmt.Sprintf("✗ HTTP request failed [%d] %s", statusCode, endpoint))
	} else {
		consoleLogger.Error(fmt.Sprintf("✗ HTTP request failed [%d]", statusCode))
	}
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(colorCyan + "DEBUG" + colorReset)
	case zapcore.InfoLevel:
		enc.AppendString(colorGreen + "SUCCESS" + colorReset) // console INFO is only used by LogSuccess
	case zapcore.WarnLevel:
		enc.AppendString(colorYellow + "WARN" + colorReset)
	case zapcore.ErrorLevel:
		enc.AppendString(colorRed + "ERROR" + colorReset)
	case zapcore.FatalLevel:
		enc.AppendString(colorRed + "FATAL" + colorReset)
	case zapcore.PanicLevel:
		enc.AppendString(colorRed + "PANIC" + colorReset)
	default:
		enc.AppendString(colorWhite + level.String() + colorReset)
	}
}

// LogInfo writes to the file log.
func LogInfo(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)
}

// LogSuccess writes to the file log and prints a ✓ line on the console.
func LogSuccess(message string, fields ...zap.Field) {
	durationMs := extractDuration(fields)

	Logger.Info(message, fields...)

	if durationMs > 0 {
		consoleLogger.Info(fmt.Sprintf("✓ %s (%dms)", message, durationMs))
	} else {
		consoleLogger.Info("✓ " + message)
	}
}

// LogError writes to the file log and prints a ✗ line on the console.
func LogError(message string, fields ...zap.Field) {
	durationMs := extractDuration(fields)

	Logger.Error(message, fields...)

	if durationMs > 0 {
		consoleLogger.Error(fmt.Sprintf("✗ %s (%dms)", message, durationMs))
	} else {
		consoleLogger.Error("✗ " + message)
	}
}

// LogWarn writes to the file log.
func LogWarn(message string, fields ...zap.Field) {
	Logger.Warn(message, fields...)
}

// LogDebug writes to the file log.
func LogDebug(message string, fields ...zap.Field) {
	Logger.Debug(message, fields...)
}

func extractDuration(fields []zap.Field) int64 {
	for _, field := range fields {
		if field.Key == "duration_ms" && field.Type == zapcore.Int64Type {
			return field.Integer
		}
	}
	return 0
}

func fieldsToString(fields []zap.Field) string {
	for _, field := range fields {
		if field.Key == "endpoint" {
			return field.String
		}
	}
	return ""
}

// customFileEncoder writes "time     LEVEL msg\t{fields as JSON}".
type customFileEncoder struct {
	zapcore.Encoder
}

func (e *customFileEncoder) Clone() zapcore.Encoder {
	return &customFileEncoder{Encoder: e.Encoder.Clone()}
}

func (e *customFileEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := buffer.NewPool().Get()

	buf.AppendString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.AppendString("     ")
	buf.AppendString(entry.Level.CapitalString())
	buf.AppendString(" ")
	buf.AppendString(entry.Message)

	if len(fields) > 0 {
		buf.AppendString("\t")
		fieldMap := make(map[string]interface{}, len(fields))
		for _, field := range fields {
			fieldMap[field.Key] = fieldValue(field)
		}
		if jsonData, err := json.Marshal(fieldMap); err == nil {
			buf.AppendString(string(jsonData))
		}
	}

	buf.AppendString("\n")
	return buf, nil
}

func fieldValue(field zapcore.Field) interface{} {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type:
		return field.Integer
	case zapcore.BoolType:
		return field.Integer == 1
	case zapcore.Float64Type:
		return math.Float64frombits(uint64(field.Integer))
	case zapcore.DurationType:
		return time.Duration(field.Integer).String()
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
		return nil
	default:
		if field.Interface != nil {
			return field.Interface
		}
		return field.Integer
	}
}
