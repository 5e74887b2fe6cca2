package clock

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ClockTestSuite struct {
	suite.Suite
	clock *TestClock
	start time.Time
	fired []string
}

func TestClockSuite(t *testing.T) {
	suite.Run(t, new(ClockTestSuite))
}

func (suite *ClockTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	suite.clock = NewTestClock()
	suite.clock.SetTime(suite.start)
	suite.fired = nil
}

func (suite *ClockTestSuite) record(event types.TimeEvent) {
	suite.fired = append(suite.fired, event.Name+"@"+event.TsEvent.Format("15:04"))
}

func (suite *ClockTestSuite) run(to time.Time) {
	for _, h := range suite.clock.AdvanceTime(to) {
		h.Handle()
	}
}

func (suite *ClockTestSuite) TestRecurringTimer() {
	none := optional.None[time.Time]()
	suite.Require().NoError(suite.clock.SetTimer("every-minute", time.Minute, none, none, suite.record))

	next, ok := suite.clock.NextTime("every-minute")
	suite.True(ok)
	suite.Equal(suite.start.Add(time.Minute), next)

	suite.run(suite.start.Add(3 * time.Minute))
	suite.Equal([]string{"every-minute@10:01", "every-minute@10:02", "every-minute@10:03"}, suite.fired)
	suite.Equal(suite.start.Add(3*time.Minute), suite.clock.UtcNow())
	suite.Equal([]string{"every-minute"}, suite.clock.TimerNames())
}

func (suite *ClockTestSuite) TestTimerWithStop() {
	stop := optional.Some(suite.start.Add(2 * time.Minute))
	suite.Require().NoError(suite.clock.SetTimer("short", time.Minute, optional.None[time.Time](), stop, suite.record))

	suite.run(suite.start.Add(10 * time.Minute))
	suite.Equal([]string{"short@10:01", "short@10:02"}, suite.fired)
	suite.Zero(suite.clock.TimerCount())
}

func (suite *ClockTestSuite) TestAlertsAndOrdering() {
	none := optional.None[time.Time]()
	suite.Require().NoError(suite.clock.SetTimeAlert("alert", suite.start.Add(2*time.Minute), suite.record))
	suite.Require().NoError(suite.clock.SetTimer("timer", time.Minute, none, none, suite.record))
	suite.Require().NoError(suite.clock.SetTimeAlert("past", suite.start.Add(-time.Hour), suite.record))

	suite.run(suite.start.Add(2 * time.Minute))
	suite.Equal([]string{"past@09:00", "timer@10:01", "alert@10:02", "timer@10:02"}, suite.fired)
	suite.Equal([]string{"timer"}, suite.clock.TimerNames())
}

func (suite *ClockTestSuite) TestCancel() {
	none := optional.None[time.Time]()
	suite.Require().NoError(suite.clock.SetTimer("a", time.Minute, none, none, suite.record))
	suite.Require().NoError(suite.clock.SetTimeAlert("b", suite.start.Add(time.Minute), suite.record))

	suite.clock.CancelTimer("a")
	suite.clock.CancelTimer("unknown")
	suite.Equal([]string{"b"}, suite.clock.TimerNames())

	suite.clock.CancelTimers()
	suite.run(suite.start.Add(time.Hour))
	suite.Empty(suite.fired)
}

func (suite *ClockTestSuite) TestValidation() {
	none := optional.None[time.Time]()

	suite.True(errors.HasCode(suite.clock.SetTimer("t", 0, none, none, suite.record), errors.ErrCodeInvalidTimer))
	suite.True(errors.HasCode(suite.clock.SetTimer("", time.Minute, none, none, suite.record), errors.ErrCodeInvalidTimer))
	suite.True(errors.HasCode(suite.clock.SetTimer("t", time.Minute, none, none, nil), errors.ErrCodeInvalidTimer))

	suite.Require().NoError(suite.clock.SetTimer("t", time.Minute, none, none, suite.record))
	suite.True(errors.HasCode(suite.clock.SetTimeAlert("t", suite.start, suite.record), errors.ErrCodeDuplicateTimer))

	stop := optional.Some(suite.start.Add(30 * time.Second))
	suite.Error(suite.clock.SetTimer("late", time.Minute, none, stop, suite.record))
}

func (suite *ClockTestSuite) TestAdvanceBackwards() {
	suite.Nil(suite.clock.AdvanceTime(suite.start.Add(-time.Minute)))
	suite.Equal(suite.start, suite.clock.UtcNow())
}

func (suite *ClockTestSuite) TestExplicitStart() {
	start := optional.Some(suite.start.Add(30 * time.Second))
	suite.Require().NoError(suite.clock.SetTimer("offset", time.Minute, start, optional.None[time.Time](), suite.record))

	next, _ := suite.clock.NextTime("offset")
	suite.Equal(suite.start.Add(90*time.Second), next)
}
