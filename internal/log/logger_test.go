package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	logger := NewLogger("DEBUG", "TEXT", false)
	assert.Equal(t, logrus.DebugLevel, logger.Level)

	// Unknown levels fall back to info.
	logger = NewLogger("chatty", "TEXT", false)
	assert.Equal(t, logrus.InfoLevel, logger.Level)
}

func TestNewLoggerFormats(t *testing.T) {
	logger := NewLogger("INFO", "JSON", true)
	formatter, ok := logger.Formatter.(*logrus.JSONFormatter)
	require.True(t, ok)
	assert.True(t, formatter.DisableTimestamp)

	logger = NewLogger("INFO", "TEXT", false)
	_, ok = logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}
