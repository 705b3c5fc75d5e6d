package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger é a interface para logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// ZerologLogger implementa Logger usando zerolog
type ZerologLogger struct {
	log zerolog.Logger
}

// NewLogger cria uma nova instância de Logger
func NewLogger() Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()

	return &ZerologLogger{log: log}
}

// Info registra uma mensagem de informação
func (l *ZerologLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Fields(keysAndValues).Msg(msg)
}

// Error registra uma mensagem de erro
func (l *ZerologLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

// Debug registra uma mensagem de debug
func (l *ZerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

// Warn registra uma mensagem de aviso
func (l *ZerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}
