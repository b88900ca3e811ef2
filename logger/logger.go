package logger

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type _LoggerImp struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

var l *_LoggerImp

// Init logger initialize. name 用于日志文件名
func Init(name string, config *viper.Viper) {
	l = &_LoggerImp{}
	l.logger = newLogger(name, config)
	l.sugar = l.logger.Sugar()

	l.logger.Info("initialize logger")
}

func newLogger(name string, config *viper.Viper) *zap.Logger {
	level := config.GetString("logger.level")
	fileDir := config.GetString("logger.dir")
	rotation := config.GetBool("logger.rotation")
	stdout := config.GetBool("logger.stdout")

	file := ""
	if len(fileDir) > 0 {
		file = strings.Join([]string{fileDir, name, ".log"}, "")
	}

	zapLevel := zapcore.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "", "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		fmt.Println("Logger level invalid, must be one of: DEBUG, INFO, WARN, or ERROR")
	}

	consoleLogger := newJSONLogger(zapcore.AddSync(os.Stdout), zapLevel)

	var fileLogger *zap.Logger
	if len(file) > 0 {
		if rotation {
			fileLogger = newJSONLogger(zapcore.AddSync(&lumberjack.Logger{
				Filename:   file,
				MaxSize:    config.GetInt("logger.maxsize"),
				MaxAge:     config.GetInt("logger.maxdays"),
				MaxBackups: config.GetInt("logger.maxbackups"),
			}), zapLevel)
		} else {
			output, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
			if err != nil {
				consoleLogger.Fatal("Could not create log file", zap.Error(err))
			}
			fileLogger = newJSONLogger(zapcore.AddSync(output), zapLevel)
		}
	}

	if fileLogger != nil {
		if stdout {
			multiLogger := newMultiLogger(consoleLogger, fileLogger)
			zap.RedirectStdLog(multiLogger)
			return multiLogger
		}
		zap.RedirectStdLog(fileLogger)
		return fileLogger
	}

	zap.RedirectStdLog(consoleLogger)
	return consoleLogger
}

func newJSONLogger(output zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		output,
		level,
	)
	return zap.New(core, zap.AddCaller())
}

func newMultiLogger(loggers ...*zap.Logger) *zap.Logger {
	cores := make([]zapcore.Core, 0, len(loggers))
	for _, logger := range loggers {
		cores = append(cores, logger.Core())
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

// Debugf logger
func Debugf(format string, args ...interface{}) {
	if l == nil {
		fmt.Printf(fmt.Sprintf("%s\n", format), args...)
		return
	}
	l.sugar.Debugf(format, args...)
}

// Infof logger
func Infof(format string, args ...interface{}) {
	if l == nil {
		fmt.Printf(fmt.Sprintf("%s\n", format), args...)
		return
	}
	l.sugar.Infof(format, args...)
}

// Warnf logger
func Warnf(format string, args ...interface{}) {
	if l == nil {
		fmt.Printf(fmt.Sprintf("%s\n", format), args...)
		return
	}
	l.sugar.Warnf(format, args...)
}

// Errorf logger
func Errorf(format string, args ...interface{}) {
	if l == nil {
		debug.PrintStack()
		fmt.Printf(fmt.Sprintf("%s\n", format), args...)
		return
	}
	l.sugar.Errorf(format, args...)
}

// Panicf logger, log message then Panic
func Panicf(format string, args ...interface{}) {
	if l == nil {
		msg := fmt.Sprintf(format, args...)
		fmt.Println(msg)
		panic(msg)
	}
	l.sugar.Panicf(format, args...)
}

// Info logger
func Info(msg string, fields ...zapcore.Field) {
	if l == nil {
		fmt.Println(msg)
		return
	}
	l.logger.Info(msg, fields...)
}

// Warn logger
func Warn(msg string, fields ...zapcore.Field) {
	if l == nil {
		fmt.Println(msg, fields)
		return
	}
	l.logger.Warn(msg, fields...)
}

// Error logger
func Error(msg string, fields ...zapcore.Field) {
	if l == nil {
		fmt.Println(msg, fields)
		return
	}
	l.logger.Error(msg, fields...)
}
