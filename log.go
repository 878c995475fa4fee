package main

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger 创建带时间戳的日志器。
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stage 记录一个处理阶段的开始时间，结束时输出耗时。
type stage struct {
	logger *log.Logger
	start  time.Time
}

func newStage(l *log.Logger) *stage {
	return &stage{logger: l, start: time.Now()}
}

func (s *stage) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "耗时", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext 取出上下文中的日志器，没有时返回 log.Default()。
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
