package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, LevelWarn, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, LevelInfo, level)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := Wrap(zap.New(core), LevelDebug)

	logger.With(Collection("text")).Info("entity added",
		EntityID("abc"),
		Float64("start", 1.5),
		Error(errors.New("boom")),
		Error(nil),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "text", fields["collection"])
	require.Equal(t, "abc", fields["entity_id"])
	require.Equal(t, 1.5, fields["start"])
	require.Equal(t, "boom", fields["error"])
}

func TestLoggerLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := Wrap(zap.New(core), LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")
	require.Equal(t, 1, logs.Len())

	logger.SetLevel(LevelDebug)
	require.Equal(t, LevelDebug, logger.GetLevel())
	logger.Debug("now shown")
	require.Equal(t, 2, logs.Len())
}

func TestNewWithConfig(t *testing.T) {
	_, err := NewWithConfig(Config{Level: "info", Encoding: "xml"})
	require.Error(t, err)

	logger, err := NewWithConfig(Config{Level: "debug", Encoding: "console"})
	require.NoError(t, err)
	require.Equal(t, LevelDebug, logger.GetLevel())
	require.NotNil(t, Provide())
}
