package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

type sampleConfig struct {
	Ticker  string `json:"ticker" jsonschema:"title=Ticker,description=Symbol to fetch,default=^GSPC"`
	Windows []int  `json:"windows,omitempty" jsonschema:"title=Windows"`
	Nested  struct {
		Path string `json:"path"`
	} `json:"nested"`
}

func (suite *UtilsTestSuite) TestToJSONSchemaInlinesDefinitions() {
	schema, err := ToJSONSchema(sampleConfig{})
	suite.Require().NoError(err)

	var result map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schema), &result))

	suite.Contains(result, "$schema")
	suite.Contains(result, "properties")
	suite.NotContains(result, "$ref")

	properties := result["properties"].(map[string]any)
	suite.Contains(properties, "ticker")
	suite.Contains(properties, "windows")
	suite.Contains(properties, "nested")

	ticker := properties["ticker"].(map[string]any)
	suite.Equal("Ticker", ticker["title"])
	suite.Equal("^GSPC", ticker["default"])
}

func (suite *UtilsTestSuite) TestToIndentedJSONSchema() {
	data, err := ToIndentedJSONSchema(sampleConfig{})
	suite.Require().NoError(err)
	suite.Contains(string(data), "\n  \"")

	var result map[string]any
	suite.NoError(json.Unmarshal(data, &result))
}
