package logger

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"hostpatrol/pkg/core/config"
	"hostpatrol/pkg/core/consts"

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Log struct {
	*logrus.Entry
}

var (
	log *Log
	mu  sync.Mutex
)

func newLogrus(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	logLevel := logrus.InfoLevel
	switch level {
	case "debug":
		logLevel = logrus.DebugLevel
	case "warn":
		logLevel = logrus.WarnLevel
	case "error":
		logLevel = logrus.ErrorLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

// InitLogger 初始化全局日志，配置了 file 时同时写入滚动文件
func InitLogger(cfg config.LogConfig) *Log {
	mu.Lock()
	defer mu.Unlock()

	logger := newLogrus(cfg.Level)
	if cfg.File != "" {
		rotate := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeOrDefault(),
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, rotate))
	}

	log = &Log{Entry: logrus.NewEntry(logger)}
	return log
}

func GetLogger() *Log {
	mu.Lock()
	defer mu.Unlock()
	if log != nil {
		return log
	}
	return &Log{Entry: logrus.NewEntry(newLogrus("debug"))}
}

func (l *Log) WithField(key string, value interface{}) *Log {
	return &Log{l.Entry.WithField(key, value)}
}

func (l *Log) GetLogger() *logrus.Entry {
	return l.Entry
}

func (l *Log) WithFields(arg interface{}) *Log {
	var jsonMap map[string]interface{}
	bytes, err := json.Marshal(arg)
	if err != nil {
		return l.WithField("arg", arg)
	}
	err = json.Unmarshal(bytes, &jsonMap)
	if err != nil {
		return l.WithField("arg", arg)
	}

	return &Log{l.Entry.WithFields(jsonMap)}
}

func (l *Log) WithEntryName(entryName string) *Log {
	return l.WithField("EntryName", entryName)
}

func (l *Log) WithErr(err error) *Log {
	if err == nil {
		return l
	}
	return l.WithField("Err", err.Error())
}

func (l *Log) WithTrace(ctx context.Context) *Log {
	traceID, ok := ctx.Value(consts.TraceKey).(string)
	if !ok {
		traceID = uuid.NewV4().String()
	}
	return l.WithField("TraceId", traceID)
}

func (l *Log) WithServer(serverID interface{}) *Log {
	return l.WithField("ServerId", serverID)
}
