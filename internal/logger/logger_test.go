package logger

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestNewLogger() {
	logger, err := NewLogger()
	suite.NoError(err)
	suite.NotNil(logger.Logger)
	suite.True(logger.Core().Enabled(zap.InfoLevel))
	suite.False(logger.Core().Enabled(zap.DebugLevel))
}

func (suite *LoggerTestSuite) TestNewLoggerWithLevel() {
	logger, err := NewLoggerWithLevel("debug")
	suite.Require().NoError(err)
	suite.True(logger.Core().Enabled(zap.DebugLevel))

	_, err = NewLoggerWithLevel("loud")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *LoggerTestSuite) TestLoggerSyncNilLogger() {
	logger := &Logger{Logger: nil}
	suite.NoError(logger.Sync())
}

func (suite *LoggerTestSuite) TestNop() {
	logger := NewNop()
	logger.Info("discarded", zap.String("stage", "fetch"))
	suite.NoError(logger.Sync())
}
