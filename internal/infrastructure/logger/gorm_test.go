package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	t.Run("error logs at error level", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info)

		gl.Trace(context.Background(), time.Now(), func() (string, int64) {
			return "SELECT * FROM products", 0
		}, assert.AnError)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "SQL Error", entry.Message)
		assert.Equal(t, "SELECT * FROM products", entry.ContextMap()["sql"])
	})

	t.Run("record not found is swallowed by default", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info)

		gl.Trace(context.Background(), time.Now(), func() (string, int64) {
			return "SELECT 1", 0
		}, gormlogger.ErrRecordNotFound)

		assert.Zero(t, logs.Len())
	})

	t.Run("record not found logged when configured", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info,
			WithIgnoreRecordNotFoundError(false))

		gl.Trace(context.Background(), time.Now(), func() (string, int64) {
			return "SELECT 1", 0
		}, gormlogger.ErrRecordNotFound)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
	})

	t.Run("slow query logs at warn level", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn,
			WithSlowThreshold(time.Nanosecond))

		gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
			return "SELECT * FROM sync_runs", 12
		}, nil)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Contains(t, entry.Message, "SLOW SQL")
	})

	t.Run("normal query logs at debug level", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info)

		gl.Trace(context.Background(), time.Now(), func() (string, int64) {
			return "SELECT 1", 1
		}, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	})

	t.Run("silent drops everything", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Silent)

		gl.Trace(context.Background(), time.Now(), func() (string, int64) {
			return "SELECT 1", 1
		}, assert.AnError)

		assert.Zero(t, logs.Len())
	})

	t.Run("request id carried from context", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info)

		ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
		gl.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT 1", 1
		}, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "req-42", logs.All()[0].ContextMap()["request_id"])
	})
}

func TestGormLogger_LogMode(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info)
	silenced := gl.LogMode(gormlogger.Silent)

	assert.NotSame(t, gl, silenced)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}
