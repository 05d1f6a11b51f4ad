// Package log is a thin facade over logrus, so call sites don't carry
// the dependency around.
package log

import "github.com/sirupsen/logrus"

type Level logrus.Level

const (
	FatalLevel = Level(logrus.FatalLevel)
	ErrorLevel = Level(logrus.ErrorLevel)
	WarnLevel  = Level(logrus.WarnLevel)
	InfoLevel  = Level(logrus.InfoLevel)
	DebugLevel = Level(logrus.DebugLevel)
)

var logger = logrus.New()

func init() {
	logger.Formatter = &logrus.TextFormatter{
		DisableLevelTruncation: true,
		PadLevelText:           true,
		TimestampFormat:        "2006/01/02 15:04:05",
		FullTimestamp:          true,
	}
}

func SetLevel(level Level) {
	logger.SetLevel(logrus.Level(level))
}

func Log(level Level, args ...any) {
	logger.Logln(logrus.Level(level), args...)
}

func Logf(level Level, format string, args ...any) {
	logger.Logf(logrus.Level(level), format, args...)
}

func Debug(args ...any)                 { logger.Debugln(args...) }
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }

func Info(args ...any)                 { logger.Infoln(args...) }
func Infof(format string, args ...any) { logger.Infof(format, args...) }

func Warn(args ...any)                 { logger.Warnln(args...) }
func Warnf(format string, args ...any) { logger.Warnf(format, args...) }

func Error(args ...any)                 { logger.Errorln(args...) }
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }

func Fatal(args ...any)                 { logger.Fatalln(args...) }
func Fatalf(format string, args ...any) { logger.Fatalf(format, args...) }
