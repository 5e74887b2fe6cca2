package examples

import (
	"context"
	"testing"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ExamplesTestSuite struct {
	suite.Suite
}

func TestExamplesSuite(t *testing.T) {
	suite.Run(t, new(ExamplesTestSuite))
}

func (suite *ExamplesTestSuite) TestAllUnique() {
	ids := map[string]bool{}
	names := map[string]bool{}

	all := All()
	suite.Len(all, len(registry))

	for i, example := range all {
		suite.False(ids[example.ID], example.ID)
		suite.False(names[example.Name], example.Name)
		suite.NotNil(example.Run)
		suite.NotEmpty(example.Description)

		ids[example.ID] = true
		names[example.Name] = true

		if i > 0 {
			suite.Less(all[i-1].ID, example.ID)
		}
	}
}

func (suite *ExamplesTestSuite) TestFind() {
	byID, err := Find("0012")
	suite.Require().NoError(err)
	suite.Equal("state-machine", byID.Name)

	byName, err := Find("state-machine")
	suite.Require().NoError(err)
	suite.Equal("0012", byName.ID)

	_, err = Find("9999")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *ExamplesTestSuite) TestRunThroughRegistry() {
	example, err := Find("0005")
	suite.Require().NoError(err)

	suite.NoError(example.Run(context.Background(), exampleutil.Quiet()))
}
