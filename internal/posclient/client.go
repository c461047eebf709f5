// Package posclient is the typed PoS Client Adapter (Component B, spec
// §4.B): a thin gRPC wrapper over the chain's gravity and auth query
// services and the tx broadcast service, plus Tendermint RPC for chain
// status. It mirrors evmclient's shape —
// typed operations, a narrow Error type, jpillora/backoff retries — so the
// two adapters read as siblings rather than unrelated code.
package posclient

import (
	"context"
	"time"

	"github.com/jpillora/backoff"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/b10z-labs/bridgekeeper/internal/logger"
)

// Kind distinguishes the typed failures this adapter raises.
type Kind int

const (
	KindRPC Kind = iota
	KindNotFound
	KindBadResponse
)

// Error is the PoS adapter's typed failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

func wrapErr(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Client holds the gRPC connection and the chain metadata every broadcast
// needs (chain ID, fee denom, gas prices).
type Client struct {
	conn          *grpc.ClientConn
	tendermintRPC string
	chainID       string
	feeDenom      string
	gasPrices     string
	log           *logger.Logger
}

// Config bundles the adapter's construction-time settings.
type Config struct {
	GRPCEndpoint  string
	TendermintRPC string
	ChainID       string
	FeeDenom      string
	GasPrices     string
}

// Dial opens the gRPC connection used for both queries and tx broadcast.
func Dial(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	conn, err := grpc.DialContext(ctx, cfg.GRPCEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, wrapErr(KindRPC, "Dial", err)
	}
	return &Client{
		conn:          conn,
		tendermintRPC: cfg.TendermintRPC,
		chainID:       cfg.ChainID,
		feeDenom:      cfg.FeeDenom,
		gasPrices:     cfg.GasPrices,
		log:           log,
	}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

// withRetry mirrors evmclient's backoff wrapper so both adapters behave the
// same way under a flaky node.
func withRetry[T any](ctx context.Context, log *logger.Logger, op string, fn func() (T, error)) (T, error) {
	b := &backoff.Backoff{Min: 200 * time.Millisecond, Max: 5 * time.Second, Factor: 2, Jitter: true}
	var zero T
	for {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return zero, err
		}
		log.Warnw("transient pos rpc error, retrying", "op", op, "error", err)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(b.Duration()):
		}
	}
}
