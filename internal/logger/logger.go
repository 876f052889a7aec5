package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

// Init builds the process logger from APP_ENV.
func Init() {
	Set(New(os.Getenv("APP_ENV")))
}

// New returns a JSON production logger for env "production" and a colored
// console logger otherwise.
func New(env string) *zap.Logger {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return l
}

func Set(l *zap.Logger) {
	log = l.Sugar()
}

func get() *zap.SugaredLogger {
	if log == nil {
		return zap.NewNop().Sugar()
	}
	return log
}

// Info logs msg with optional key/value pairs.
func Info(msg string, keysAndValues ...interface{}) {
	get().Infow(msg, keysAndValues...)
}

func Infof(format string, v ...interface{}) {
	get().Infof(format, v...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	get().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	get().Errorw(msg, keysAndValues...)
}

func Errorf(format string, v ...interface{}) {
	get().Errorf(format, v...)
}

func Debug(msg string, keysAndValues ...interface{}) {
	get().Debugw(msg, keysAndValues...)
}

func Debugf(format string, v ...interface{}) {
	get().Debugf(format, v...)
}

func Fatal(msg string, keysAndValues ...interface{}) {
	get().Fatalw(msg, keysAndValues...)
}

func Fatalf(format string, v ...interface{}) {
	get().Fatalf(format, v...)
}

func Sync() error {
	return get().Sync()
}

// WithError returns a child logger carrying err under the "error" key.
func WithError(err error) *zap.SugaredLogger {
	return get().With("error", err)
}

func WithFields(fields map[string]interface{}) *zap.SugaredLogger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return get().With(args...)
}
