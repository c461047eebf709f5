// Package supervisor wires Components A-F into a single process and runs
// them concurrently, cancelling every other component the moment any one
// of them returns a fatal error (spec §4.F/§9) — mirroring the teacher's
// use of golang.org/x/sync/errgroup to run independent chain head trackers
// side by side and fail the whole service together.
package supervisor

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/b10z-labs/bridgekeeper/internal/evmclient"
	"github.com/b10z-labs/bridgekeeper/internal/gastracker"
	"github.com/b10z-labs/bridgekeeper/internal/logger"
	"github.com/b10z-labs/bridgekeeper/internal/oracle"
	"github.com/b10z-labs/bridgekeeper/internal/relayer"
	"github.com/b10z-labs/bridgekeeper/internal/safety"
	"github.com/b10z-labs/bridgekeeper/internal/signer"
)

// Runnable is any component whose main loop blocks on ctx.
type Runnable interface {
	Run(ctx context.Context) error
}

// Supervisor owns every long-running component of the companion and the
// shared caches/trackers some of them read concurrently.
type Supervisor struct {
	Oracle  *oracle.Scanner
	Signer  *signer.Signer
	Relayer *relayer.Relayer
	Safety  *safety.Checker
	Gas     *gastracker.Tracker

	evm            *evmclient.Client
	safetyInterval time.Duration
	gasLoopSpeed   time.Duration
	log            *logger.Logger
}

// New assembles a Supervisor from its already-constructed components. Built
// this way (rather than taking raw config) so cmd/bridgekeeper controls
// wiring and tests can substitute fakes for any one component.
func New(oracleScanner *oracle.Scanner, sig *signer.Signer, rel *relayer.Relayer, safetyChecker *safety.Checker, gas *gastracker.Tracker, evm *evmclient.Client, safetyInterval, gasLoopSpeed time.Duration, log *logger.Logger) *Supervisor {
	return &Supervisor{
		Oracle: oracleScanner, Signer: sig, Relayer: rel, Safety: safetyChecker, Gas: gas,
		evm: evm, safetyInterval: safetyInterval, gasLoopSpeed: gasLoopSpeed, log: log.With("component", "supervisor"),
	}
}

// Run starts every component on its own goroutine via errgroup and blocks
// until one of them returns (successfully or not) or ctx is cancelled. The
// first returned error cancels the rest, matching spec §9's "halt the whole
// companion rather than run half a bridge" stance on any component failure.
func (sv *Supervisor) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return sv.Oracle.Run(gctx) })
	g.Go(func() error { return sv.Signer.Run(gctx) })
	g.Go(func() error { return sv.Relayer.Run(gctx) })
	g.Go(func() error { return sv.Safety.Run(gctx, sv.safetyInterval) })
	g.Go(func() error { return sv.Gas.Run(gctx, sv.evm, sv.gasLoopSpeed, sv.log) })

	err := g.Wait()
	if err != nil {
		sv.log.Errorw("a component exited, shutting down the rest", "error", err)
	}
	return err
}
