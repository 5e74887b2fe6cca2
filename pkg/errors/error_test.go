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
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("disk full")
	err := Wrapf(ErrCodeCatalogWrite, cause, "failed to write bars for %s", "6E.SIM-1-MINUTE-LAST-EXTERNAL")
	suite.Equal(ErrCodeCatalogWrite, err.Code)
	suite.Equal(cause, err.Unwrap())
	suite.Equal("[204] failed to write bars for 6E.SIM-1-MINUTE-LAST-EXTERNAL: disk full", err.Error())
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestGetCode() {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"coded error", New(ErrCodeNoMarket, "no market"), ErrCodeNoMarket},
		{"wrapped by fmt", fmt.Errorf("run failed: %w", New(ErrCodeOrderDenied, "denied")), ErrCodeOrderDenied},
		{"state trigger", NewInvalidStateTriggerError("STOPPED", "RESUME"), ErrCodeInvalidStateTrigger},
		{"outer code wins", Wrap(ErrCodeOrderDenied, "denied", NewInvalidStateTriggerError("STOPPED", "RESUME")), ErrCodeOrderDenied},
		{"plain error", errors.New("plain"), ErrCodeUnknown},
		{"nil", nil, ErrCodeUnknown},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, GetCode(tc.err))
			suite.True(HasCode(tc.err, tc.expected))
		})
	}
}

func (suite *ErrorTestSuite) TestInvalidStateTrigger() {
	err := fmt.Errorf("trigger: %w", NewInvalidStateTriggerError("STOPPED", "RESUME"))
	suite.True(IsInvalidStateTrigger(err))
	suite.False(IsInvalidStateTrigger(New(ErrCodeUnknown, "x")))

	var target *InvalidStateTriggerError
	suite.True(errors.As(err, &target))
	suite.Equal("STOPPED", target.State)
	suite.Equal("RESUME", target.Trigger)
	suite.Contains(err.Error(), "invalid state trigger STOPPED -> RESUME")
}
