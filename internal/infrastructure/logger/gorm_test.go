package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level zapcore.Level, gormLevel gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	return NewGormLogger(zap.New(core), gormLevel), recorded
}

func traceQuery(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)

	changed := gormLog.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gormLog.level, "original is unchanged")
	clone, ok := changed.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, clone.level)
}

func TestGormLogger_Levels(t *testing.T) {
	t.Run("info passes through", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)
		gormLog.Info(context.Background(), "migrating %s", "orders")

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Message, "migrating orders")
	})

	t.Run("silent suppresses everything", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.DebugLevel, gormlogger.Silent)
		gormLog.Info(context.Background(), "hidden")
		gormLog.Trace(context.Background(), time.Now(), traceQuery("SELECT 1", 1), nil)

		assert.Empty(t, recorded.All())
	})

	t.Run("warn formats arguments", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.WarnLevel, gormlogger.Warn)
		gormLog.Warn(context.Background(), "pool exhausted after %d attempts", 3)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Contains(t, entries[0].Message, "after 3 attempts")
	})
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("failed query logs at error", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.ErrorLevel, gormlogger.Error)
		gormLog.Trace(context.Background(), time.Now(), traceQuery("SELECT * FROM orders", 0), errors.New("connection reset"))

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Error", entries[0].Message)
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.ErrorLevel, gormlogger.Error)
		gormLog.Trace(context.Background(), time.Now(), traceQuery("SELECT * FROM orders WHERE id = ?", 0), gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("slow query logs at warn with threshold", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.WarnLevel, gormlogger.Warn)
		gormLog.SetSlowThreshold(time.Nanosecond)

		begin := time.Now().Add(-time.Second)
		gormLog.Trace(context.Background(), begin, traceQuery("SELECT * FROM invoices", 10), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "Slow SQL", entries[0].Message)

		var hasThreshold bool
		for _, f := range entries[0].Context {
			if f.Key == "threshold" {
				hasThreshold = true
			}
		}
		assert.True(t, hasThreshold)
	})

	t.Run("normal query logs at debug", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.DebugLevel, gormlogger.Info)
		gormLog.Trace(context.Background(), time.Now(), traceQuery("SELECT * FROM products", 5), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Query", entries[0].Message)
	})

	t.Run("request id and job ride along", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.DebugLevel, gormlogger.Info)

		ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-7")
		ctx, _ = WithJob(ctx, zap.NewNop(), "balance-refresh")
		gormLog.Trace(ctx, time.Now(), traceQuery("SELECT * FROM billing_accounts", 1), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		fields := make(map[string]string)
		for _, f := range entries[0].Context {
			fields[f.Key] = f.String
		}
		assert.Equal(t, "req-7", fields["request_id"])
		assert.Equal(t, "balance-refresh", fields["job"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	gormLog, _ := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)
	var _ gormlogger.Interface = gormLog
}
