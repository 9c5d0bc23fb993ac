package libav

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avelement/logger"
)

func TestLogLevelRoundTrip(t *testing.T) {
	for _, level := range []logger.Level{
		logger.LevelPanic,
		logger.LevelFatal,
		logger.LevelError,
		logger.LevelWarning,
		logger.LevelInfo,
		logger.LevelDebug,
		logger.LevelTrace,
	} {
		require.Equal(t, level, LogLevelFromAstiav(LogLevelToAstiav(level)), level.String())
	}
}
