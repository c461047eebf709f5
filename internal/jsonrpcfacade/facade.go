// Package jsonrpcfacade is the auxiliary HTTP endpoint spec §6 describes as
// one the orchestrator "MAY run for wallet compatibility; not part of the
// bridge and not required" — a thin reverse proxy in front of the
// configured EVM RPC endpoint, built on gin the way the teacher's own HTTP
// surfaces are, tagging every request with a google/uuid request ID for
// correlation with the companion's logs.
package jsonrpcfacade

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/b10z-labs/bridgekeeper/internal/logger"
)

// Facade proxies POSTed JSON-RPC requests to upstreamURL, unmodified, for
// wallets that expect a standard eth_* endpoint at the companion's address
// rather than the raw node's. It never interprets the RPC payload — the
// bridge's own EVM calls go through internal/evmclient, never through here.
type Facade struct {
	upstreamURL string
	httpClient  *http.Client
	log         *logger.Logger
}

// New builds a Facade proxying to upstreamURL.
func New(upstreamURL string, log *logger.Logger) *Facade {
	return &Facade{
		upstreamURL: upstreamURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		log:         log.With("component", "jsonrpcfacade"),
	}
}

// Engine builds the gin router: a single POST / handler that relays the
// request body upstream and a /healthz liveness check.
func (f *Facade) Engine() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/", f.relay)
	return r
}

// requestID stamps every request with a uuid, logged alongside any relay
// failure so an operator can correlate a wallet's complaint with the
// companion's own logs.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func (f *Facade) relay(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading request body"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, f.upstreamURL, bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "building upstream request"})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.log.Warnw("upstream relay failed", "request_id", c.GetString("request_id"), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream rpc unreachable"})
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "reading upstream response"})
		return
	}
	c.Data(resp.StatusCode, "application/json", respBody)
}

// Run starts the façade on addr and blocks until ctx is cancelled.
func (f *Facade) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: f.Engine()}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errc:
		return err
	}
}
