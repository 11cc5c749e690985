package netlib_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/qri-io/jsonschema"
	"github.com/sorinirimies/netrunner-cli/netlib"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func mustSchema(data string) *jsonschema.Schema {
	rv := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(data), rv); err != nil {
		panic(err)
	}

	return rv
}

var (
	jsonSchemaGETLocation = mustSchema(`{
      "type": "object",
      "required": ["result"],
      "additionalProperties": false,
      "properties": {
        "result": {
          "type": "object",
          "required": ["location", "fallback"],
          "additionalProperties": false,
          "properties": {
            "fallback": {"type": "boolean"},
            "location": {
              "type": "object",
              "required": ["country", "city", "latitude", "longitude", "source"],
              "properties": {
                "country": {"type": "string", "minLength": 1},
                "country_code": {"type": "string", "minLength": 2, "maxLength": 2},
                "city": {"type": "string", "minLength": 1},
                "latitude": {"type": "number", "minimum": -90, "maximum": 90},
                "longitude": {"type": "number", "minimum": -180, "maximum": 180},
                "isp": {"type": "string"},
                "source": {"type": "string", "minLength": 1}
              }
            }
          }
        }
      }
    }`)

	jsonSchemaGETServers = mustSchema(`{
      "type": "object",
      "required": ["result"],
      "properties": {
        "result": {
          "type": "object",
          "required": ["run_id", "location", "fallback", "candidates", "probes", "selected", "providers"],
          "properties": {
            "run_id": {"type": "string", "minLength": 36, "maxLength": 36},
            "selected": {
              "type": "array",
              "items": {
                "type": "object",
                "required": ["candidate", "distance_km", "latency_ms", "quality"],
                "properties": {
                  "candidate": {
                    "type": "object",
                    "required": ["id", "name", "endpoint", "class", "weight", "origin"],
                    "properties": {
                      "class": {"enum": ["regional", "continental", "global", "backup"]}
                    }
                  },
                  "quality": {"type": "number", "exclusiveMinimum": 0}
                }
              }
            }
          }
        }
      }
    }`)

	jsonSchemaError = mustSchema(`{
      "type": "object",
      "required": ["error"],
      "additionalProperties": false,
      "properties": {
        "error": {
          "type": "object",
          "required": ["message", "context"],
          "properties": {
            "message": {"type": "string", "minLength": 1},
            "context": {"type": "string"}
          }
        }
      }
    }`)
)

type HTTPHandlerTestSuite struct {
	suite.Suite

	h            http.Handler
	n            *netlib.Netrunner
	providerMock *ProviderMock
	pingerMock   *PingerMock
	resp         *httptest.ResponseRecorder
}

func (suite *HTTPHandlerTestSuite) SetupTest() {
	suite.providerMock = &ProviderMock{}
	suite.pingerMock = &PingerMock{}

	suite.providerMock.On("Name").Return("providerMock").Maybe()

	runner, err := netlib.NewNetrunner(netlib.Opts{
		Providers: []netlib.Provider{suite.providerMock},
		Pinger:    suite.pingerMock,
	})
	if err != nil {
		panic(err)
	}

	suite.n = runner
	suite.h = netlib.NewHTTPHandler(runner)
	suite.resp = httptest.NewRecorder()
}

func (suite *HTTPHandlerTestSuite) TearDownTest() {
	suite.n.Shutdown()
	suite.providerMock.AssertExpectations(suite.T())
}

func (suite *HTTPHandlerTestSuite) AssertSchema(schema *jsonschema.Schema) {
	errs, err := schema.ValidateBytes(context.Background(), suite.resp.Body.Bytes())

	suite.NoError(err)
	suite.Empty(errs)
}

func (suite *HTTPHandlerTestSuite) TestIncorrectMethod() {
	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("PATCH", "/location", nil))

	suite.Equal(http.StatusMethodNotAllowed, suite.resp.Code)
	suite.AssertSchema(jsonSchemaError)
}

func (suite *HTTPHandlerTestSuite) TestUnknownPath() {
	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/lalala", nil))

	suite.Equal(http.StatusNotFound, suite.resp.Code)
	suite.AssertSchema(jsonSchemaError)
}

func (suite *HTTPHandlerTestSuite) TestGetLocation() {
	suite.providerMock.On("Lookup", mock.Anything).Return(lookupBerlin, nil).Once()

	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/location", nil))

	suite.Equal(http.StatusOK, suite.resp.Code)
	suite.Equal("application/json", suite.resp.Header().Get("Content-Type"))
	suite.AssertSchema(jsonSchemaGETLocation)
	suite.Contains(suite.resp.Body.String(), "Berlin")
	suite.Contains(suite.resp.Body.String(), `"fallback":false`)
}

func (suite *HTTPHandlerTestSuite) TestGetLocationTrailingSlash() {
	suite.providerMock.On("Lookup", mock.Anything).Return(lookupBerlin, nil).Once()

	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/location/", nil))

	suite.Equal(http.StatusOK, suite.resp.Code)
	suite.AssertSchema(jsonSchemaGETLocation)
}

func (suite *HTTPHandlerTestSuite) TestGetLocationFallback() {
	suite.providerMock.On("Lookup", mock.Anything).Return(netlib.ProviderLookupResult{}, errors.New("boom")).Once()

	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/location", nil))

	suite.Equal(http.StatusOK, suite.resp.Code)
	suite.AssertSchema(jsonSchemaGETLocation)
	suite.Contains(suite.resp.Body.String(), "Kansas City")
	suite.Contains(suite.resp.Body.String(), `"fallback":true`)
}

func (suite *HTTPHandlerTestSuite) TestGetServers() {
	suite.providerMock.On("Lookup", mock.Anything).Return(lookupBerlin, nil).Once()
	suite.pingerMock.On("Ping", mock.Anything, mock.Anything).Return(nil)

	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/servers?max=2", nil))

	suite.Equal(http.StatusOK, suite.resp.Code)
	suite.AssertSchema(jsonSchemaGETServers)

	response := struct {
		Result struct {
			Selected []json.RawMessage `json:"selected"`
		} `json:"result"`
	}{}

	suite.NoError(json.Unmarshal(suite.resp.Body.Bytes(), &response))
	suite.Len(response.Result.Selected, 2)
}

func (suite *HTTPHandlerTestSuite) TestGetServersBadMax() {
	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/servers?max=zero", nil))

	suite.Equal(http.StatusBadRequest, suite.resp.Code)
	suite.AssertSchema(jsonSchemaError)
}

func (suite *HTTPHandlerTestSuite) TestGetServersUnreachable() {
	suite.providerMock.On("Lookup", mock.Anything).Return(lookupBerlin, nil).Once()
	suite.pingerMock.On("Ping", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/servers", nil))

	suite.Equal(http.StatusServiceUnavailable, suite.resp.Code)
	suite.AssertSchema(jsonSchemaError)
	suite.Contains(suite.resp.Body.String(), netlib.ErrNoReachableServers.Error())
}

func (suite *HTTPHandlerTestSuite) TestGetStats() {
	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/stats", nil))

	suite.Equal(http.StatusOK, suite.resp.Code)
	suite.Contains(suite.resp.Body.String(), "providerMock")
}

func TestHTTPHandler(t *testing.T) {
	suite.Run(t, &HTTPHandlerTestSuite{})
}
