package jsonrpcfacade

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b10z-labs/bridgekeeper/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFacadeHealthz(t *testing.T) {
	f := New("http://unused.invalid", logger.Default())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	f.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFacadeRelaysToUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"method":"eth_blockNumber"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result":"0x1"}`))
	}))
	defer upstream.Close()

	f := New(upstream.URL, logger.Default())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"eth_blockNumber"}`))
	f.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":"0x1"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestFacadeUpstreamUnreachable(t *testing.T) {
	f := New("http://127.0.0.1:1", logger.Default())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	f.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
