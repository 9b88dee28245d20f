// Package logging предоставляет единую точку доступа к структурированному
// логгеру приложения поверх logrus.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger — тонкая обёртка над *logrus.Entry: добавляет стабильную точку
// расширения (например, добавление сервисных полей), не теряя прямого
// доступа ко всем методам logrus (Infof, Warnf, Errorf, Fatalf, WithField...).
type Logger struct {
	*logrus.Entry
}

var (
	instance *Logger
	once     sync.Once
)

// GetLogger возвращает процессно-общий логгер, настроенный один раз при
// первом обращении согласно LOG_LEVEL/LOG_FORMAT окружения.
func GetLogger() *Logger {
	once.Do(func() {
		base := logrus.New()
		base.SetOutput(os.Stdout)
		base.SetLevel(levelFromEnv())
		base.SetFormatter(formatterFromEnv())

		instance = &Logger{Entry: logrus.NewEntry(base)}
	})
	return instance
}

func levelFromEnv() logrus.Level {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func formatterFromEnv() logrus.Formatter {
	if os.Getenv("LOG_FORMAT") == "json" {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{FullTimestamp: true}
}

// WithField возвращает дочерний логгер с одним дополнительным полем,
// сохраняя тип *Logger для вызывающего кода, которому нужны Infof/Warnf/…
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{Entry: l.Entry.WithField(key, value)}
}

// WithFields — как WithField, но сразу с набором полей.
func (l *Logger) WithFields(fields logrus.Fields) *Logger {
	return &Logger{Entry: l.Entry.WithFields(fields)}
}
