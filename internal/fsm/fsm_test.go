package fsm

import (
	"strings"
	"testing"

	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type FSMTestSuite struct {
	suite.Suite
}

func TestFSMSuite(t *testing.T) {
	suite.Run(t, new(FSMTestSuite))
}

type doorState int

type doorTrigger int

const (
	doorClosed doorState = iota
	doorOpen
	doorLocked
)

const (
	triggerOpen doorTrigger = iota
	triggerClose
	triggerLock
	triggerUnlock
)

func doorTable() Table[doorState, doorTrigger] {
	return Table[doorState, doorTrigger]{
		{State: doorClosed, Trigger: triggerOpen}:   doorOpen,
		{State: doorOpen, Trigger: triggerClose}:    doorClosed,
		{State: doorClosed, Trigger: triggerLock}:   doorLocked,
		{State: doorLocked, Trigger: triggerUnlock}: doorClosed,
	}
}

func (suite *FSMTestSuite) TestTransitions() {
	m, err := New(doorTable(), doorClosed)
	suite.Require().NoError(err)

	suite.NoError(m.Trigger(triggerOpen))
	suite.Equal(doorOpen, m.State())
	suite.NoError(m.Trigger(triggerClose))
	suite.NoError(m.Trigger(triggerLock))
	suite.Equal(doorLocked, m.State())
	suite.True(m.CanTrigger(triggerUnlock))
	suite.False(m.CanTrigger(triggerOpen))
}

func (suite *FSMTestSuite) TestInvalidTriggerKeepsState() {
	names := []string{"CLOSED", "OPEN", "LOCKED"}
	triggers := []string{"OPEN", "CLOSE", "LOCK", "UNLOCK"}

	m, err := New(doorTable(), doorLocked,
		WithStateParser[doorState, doorTrigger](func(s doorState) string { return names[s] }),
		WithTriggerParser[doorState, doorTrigger](func(t doorTrigger) string { return triggers[t] }),
	)
	suite.Require().NoError(err)

	err = m.Trigger(triggerOpen)
	suite.Error(err)
	suite.True(errors.IsInvalidStateTrigger(err))
	suite.True(strings.Contains(err.Error(), "LOCKED -> OPEN"))
	suite.Equal(doorLocked, m.State())
	suite.Equal("LOCKED", m.StateString())
}

func (suite *FSMTestSuite) TestStringStates() {
	m, err := New(Table[string, string]{
		{State: "READY", Trigger: "START"}: "ACTIVE",
	}, "READY")
	suite.Require().NoError(err)

	suite.NoError(m.Trigger("START"))
	suite.Equal("ACTIVE", m.StateString())

	err = m.Trigger("START")
	suite.EqualError(err, "[900] invalid state trigger ACTIVE -> START")
}

func (suite *FSMTestSuite) TestTableEdgeCases() {
	_, err := New[string, string](nil, "READY")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	m, err := New(Table[string, string]{}, "NOWHERE")
	suite.NoError(err)
	suite.False(m.CanTrigger("ANY"))
	suite.Error(m.Trigger("ANY"))
}
