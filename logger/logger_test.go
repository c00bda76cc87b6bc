package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLevels(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	for _, tc := range []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"DEBUG", zapcore.DebugLevel},
		{" warn ", zapcore.WarnLevel},
		{"verbose", zapcore.InfoLevel},
	} {
		require.NoError(t, Init(tc.in))
		assert.True(t, Logger.Core().Enabled(tc.want), tc.in)
		assert.False(t, Logger.Core().Enabled(tc.want-1), tc.in)
	}
}
