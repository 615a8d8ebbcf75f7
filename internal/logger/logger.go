package logger

import (
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger 는 웹 서버와 mailer 가 공유하는 최소 로거 인터페이스다.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields 는 구조화 로그를 위한 공통 필드 타입이다.
type Fields map[string]any

// Log 는 전역 로거다. Init 전에는 info 레벨로 동작한다.
var Log Logger = NewLogger("info")

// Init 은 주어진 레벨로 전역 로거를 교체한다. 빈 값이면 info 를 사용한다.
func Init(level string) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	Log = NewLogger(level)
}

// NewLogger 는 주어진 레벨로 gookit/slog 기반 로거를 생성한다.
func NewLogger(level string) Logger {
	logLevel := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	// 기본 필드는 datetime/level/message 로 제한하고
	// 나머지 정보는 Fields(top-level 키)로만 출력한다.
	formatter := slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	})
	h.SetFormatter(formatter)

	logger := slog.NewWithHandlers(h)
	return logger
}

// withServiceName 은 SERVICE_NAME 환경변수가 있고 호출자가 service_name 을 주지 않았을 때 채운다.
func withServiceName(fields Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if _, ok := fields["service_name"]; !ok {
		if sn := os.Getenv("SERVICE_NAME"); sn != "" {
			fields["service_name"] = sn
		}
	}
	return fields
}

// InfoWithFields 등은 request_id, span_id, service_name 같은 구조화 필드를
// top-level 키로 붙인 JSON 로그를 남긴다.
func InfoWithFields(msg string, fields Fields)  { logWithFields(slog.InfoLevel, msg, fields) }
func WarnWithFields(msg string, fields Fields)  { logWithFields(slog.WarnLevel, msg, fields) }
func DebugWithFields(msg string, fields Fields) { logWithFields(slog.DebugLevel, msg, fields) }
func ErrorWithFields(msg string, fields Fields) { logWithFields(slog.ErrorLevel, msg, fields) }

// logWithFields 는 전역 로거가 gookit/slog 가 아니면(테스트 대역 등) 필드 없이 메시지만 남긴다.
func logWithFields(level slog.Level, msg string, fields Fields) {
	if lg, ok := Log.(*slog.Logger); ok {
		lg.WithFields(slog.M(withServiceName(fields))).Log(level, msg)
		return
	}
	switch level {
	case slog.DebugLevel:
		Log.Debug(msg)
	case slog.WarnLevel:
		Log.Warn(msg)
	case slog.ErrorLevel:
		Log.Error(msg)
	default:
		Log.Info(msg)
	}
}
