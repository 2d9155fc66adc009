package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeSymbolNotFound, "symbol %s not found", "XYZ")
	suite.Equal(ErrCodeSymbolNotFound, err.Code)
	suite.Equal("symbol XYZ not found", err.Message)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeSinkOpenFailed, "failed to open database", cause)
	suite.Equal(cause, err.Unwrap())
	suite.True(Is(err, cause))
	suite.Equal("[800] failed to open database: connection refused", err.Error())
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("timeout")
	err := Wrapf(ErrCodeMarketDataFetchFailed, cause, "failed to fetch %s", "^GSPC")
	suite.Equal("failed to fetch ^GSPC", err.Message)
	suite.Equal("[700] failed to fetch ^GSPC: timeout", err.Error())
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestGetCode() {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{name: "coded error", err: New(ErrCodeNoDataFound, "empty"), expected: ErrCodeNoDataFound},
		{name: "outermost code wins", err: Wrap(ErrCodeSinkWriteFailed, "write", New(ErrCodeQueryFailed, "q")), expected: ErrCodeSinkWriteFailed},
		{name: "fmt wrapped", err: fmt.Errorf("ctx: %w", New(ErrCodeSymbolNotFound, "x")), expected: ErrCodeSymbolNotFound},
		{name: "plain error", err: errors.New("plain"), expected: ErrCodeUnknown},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, GetCode(tc.err))
			suite.True(HasCode(tc.err, tc.expected))
		})
	}
}

func (suite *ErrorTestSuite) TestAsError() {
	err := fmt.Errorf("outer: %w", New(ErrCodeInvalidProvider, "unknown provider"))
	var coded *Error
	suite.True(As(err, &coded))
	suite.Equal(ErrCodeInvalidProvider, coded.Code)
}

func (suite *ErrorTestSuite) TestErrorCodeRanges() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(106), ErrCodeInsufficientData)
	suite.Equal(ErrorCode(200), ErrCodeDataNotFound)
	suite.Equal(ErrorCode(300), ErrCodeIndicatorNotFound)
	suite.Equal(ErrorCode(700), ErrCodeMarketDataFetchFailed)
	suite.Equal(ErrorCode(800), ErrCodeSinkOpenFailed)
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := NewInsufficientDataError(50, 10, "^GSPC", "not enough bars")
	suite.Equal("not enough bars", err.Error())
	suite.True(IsInsufficientDataError(fmt.Errorf("wrapped: %w", err)))
	suite.False(IsInsufficientDataError(New(ErrCodeInvalidParameter, "x")))
	suite.False(IsInsufficientDataError(nil))

	formatted := NewInsufficientDataErrorf(20, 5, "", "need %d rows, got %d", 20, 5)
	suite.Equal("need 20 rows, got 5", formatted.Message)

	bare := &InsufficientDataError{Required: 3, Actual: 1}
	suite.Equal("insufficient data: need 3 rows, got 1", bare.Error())
}

func (suite *ErrorTestSuite) TestMissingColumnError() {
	err := NewMissingColumnError("close", "add moving averages")
	suite.Equal(`add moving averages: missing required column "close"`, err.Error())
	suite.True(IsMissingColumnError(fmt.Errorf("stage: %w", err)))
	suite.False(IsMissingColumnError(errors.New("close")))

	suite.Equal(`missing required column "date"`, NewMissingColumnError("date", "").Error())
}

func (suite *ErrorTestSuite) TestInvalidArgumentError() {
	err := NewInvalidArgumentError("test_fraction", 1.5, "must be in [0, 1)")
	suite.Equal("invalid argument test_fraction=1.5: must be in [0, 1)", err.Error())
	suite.True(IsInvalidArgumentError(err))
	suite.False(IsInvalidArgumentError(NewMissingColumnError("x", "")))
}
