package netlib_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mccutchen/go-httpbin/v2/httpbin"
	"github.com/sorinirimies/netrunner-cli/netlib"
	"github.com/stretchr/testify/suite"
)

type HTTPClientTestSuite struct {
	suite.Suite

	httpbinEndpoint *httptest.Server
	c               netlib.HTTPClient
}

func (suite *HTTPClientTestSuite) SetupSuite() {
	suite.httpbinEndpoint = httptest.NewServer(httpbin.New())
}

func (suite *HTTPClientTestSuite) TearDownSuite() {
	suite.httpbinEndpoint.Close()
}

func (suite *HTTPClientTestSuite) SetupTest() {
	suite.c = netlib.NewHTTPClient(suite.httpbinEndpoint.Client(),
		"netrunner-test",
		100*time.Millisecond,
		1)
}

func (suite *HTTPClientTestSuite) TestRateLimiter() {
	now := time.Now()
	wg := &sync.WaitGroup{}

	wg.Add(10)

	for i := 0; i < 10; i++ {
		go func() {
			defer wg.Done()

			req, _ := http.NewRequest("GET", suite.httpbinEndpoint.URL+"/get", nil)
			resp, err := suite.c.Do(req)

			suite.NoError(err)
			suite.Equal(http.StatusOK, resp.StatusCode)

			io.Copy(io.Discard, resp.Body) // nolint: errcheck
			resp.Body.Close()
		}()
	}

	wg.Wait()

	suite.True(time.Since(now) > 700*time.Millisecond)
	suite.WithinDuration(now, time.Now(), 12*100*time.Millisecond)
}

func (suite *HTTPClientTestSuite) TestUserAgent() {
	req, _ := http.NewRequest("GET", suite.httpbinEndpoint.URL+"/user-agent", nil)
	resp, err := suite.c.Do(req)

	suite.NoError(err)

	defer resp.Body.Close()

	data := struct {
		UserAgent string `json:"user-agent"`
	}{}

	suite.NoError(json.NewDecoder(resp.Body).Decode(&data))
	suite.Equal("netrunner-test", data.UserAgent)
}

func (suite *HTTPClientTestSuite) TestBadStatusIsNotAnError() {
	req, _ := http.NewRequest("GET", suite.httpbinEndpoint.URL+"/status/500", nil)
	resp, err := suite.c.Do(req)

	suite.NoError(err)
	suite.Equal(http.StatusInternalServerError, resp.StatusCode)

	resp.Body.Close()
}

func (suite *HTTPClientTestSuite) TestCannotDial() {
	req, _ := http.NewRequest("GET", suite.httpbinEndpoint.URL+"1"+"/status/500", nil)
	_, err := suite.c.Do(req)

	suite.Error(err)
}

func (suite *HTTPClientTestSuite) TestClosedContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", suite.httpbinEndpoint.URL+"/get", nil)
	_, err := suite.c.Do(req)

	suite.Error(err)
}

func TestHTTPClient(t *testing.T) {
	suite.Run(t, &HTTPClientTestSuite{})
}
