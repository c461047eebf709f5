package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/urfave/cli/v2"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/ibcforward"
	"github.com/b10z-labs/bridgekeeper/internal/jsonrpcfacade"
	"github.com/b10z-labs/bridgekeeper/internal/metrics"
	"github.com/b10z-labs/bridgekeeper/internal/oracle"
	"github.com/b10z-labs/bridgekeeper/internal/safety"
	"github.com/b10z-labs/bridgekeeper/internal/supervisor"
)

var orchestratorCommand = &cli.Command{
	Name:  "orchestrator",
	Usage: "run every component (oracle, signer, relayer, safety check, gas tracker) until stopped",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "ibc-executor", Usage: "bech32 address submitting MsgExecuteIbcAutoForwards; omit to disable the ibc-forward duty"},
	},
	Action: func(c *cli.Context) error {
		ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d, err := assemble(ctx, c)
		if err != nil {
			return err
		}

		if err := safety.WaitForCosmosNodeReady(ctx, func(ctx context.Context) (bool, error) {
			status, err := d.pos.GetChainStatus(ctx)
			return status.CatchingUp, err
		}, d.cfg.Loops.OracleLoop, d.log); err != nil {
			return err
		}

		sv := supervisor.New(
			d.newOracle(), d.newSigner(), d.newRelayer(), d.newSafety(), d.gasTracker,
			d.evm, d.cfg.Loops.SignerLoop, d.cfg.EVM.GasTrackerLoopSpeed, d.log,
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return sv.Run(gctx) })
		g.Go(func() error { return metrics.Serve(gctx, d.cfg.MetricsListenAddr) })

		if d.cfg.JSONRPCListenAddr != "" {
			facade := jsonrpcfacade.New(d.cfg.EVM.RPCURL, d.log)
			g.Go(func() error { return facade.Run(gctx, d.cfg.JSONRPCListenAddr) })
		}

		if executor := c.String("ibc-executor"); executor != "" {
			fwd := ibcforward.New(
				d.pos, d.pos, d.pos, d.posKey.AsPosclientSigner,
				executor, d.cfg.PoS.ChainID, d.cfg.PoS.ZeroFeeDenom,
				10, d.cfg.Loops.OracleLoop, d.log,
			)
			g.Go(func() error { return fwd.Run(gctx) })
		}

		return g.Wait()
	},
}

var oracleResyncCommand = &cli.Command{
	Name:  "oracle-resync",
	Usage: "run the oracle's history resync once and print the resolved resume block, without entering the scan loop",
	Action: func(c *cli.Context) error {
		ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d, err := assemble(ctx, c)
		if err != nil {
			return err
		}

		lastNonce, err := d.pos.GetLastEventNonceForValidator(ctx, d.posKey.Address().String())
		if err != nil {
			return err
		}
		if lastNonce == 0 {
			fmt.Println("no claims submitted yet; scan would start from block 0")
			return nil
		}

		resumeBlock, err := oracleResyncFromBlock(ctx, d, lastNonce)
		if err != nil {
			return err
		}
		fmt.Printf("last claimed nonce %d resolved to block %d; scan resumes at %d\n", lastNonce, resumeBlock, resumeBlock+1)
		return nil
	},
}

var relayOnceCommand = &cli.Command{
	Name:  "relay-once",
	Usage: "run a single relayer tick (valset, batch, logic-call pipelines) and exit",
	Action: func(c *cli.Context) error {
		ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d, err := assemble(ctx, c)
		if err != nil {
			return err
		}
		return d.newRelayer().Tick(ctx)
	},
}

func oracleResyncFromBlock(ctx context.Context, d *deps, lastEventNonce uint64) (uint64, error) {
	return oracle.Resync(ctx, oracle.EvmAdapter{Client: d.evm}, bridgetypes.NewLastCheckedBlockCache(), d.gravityContract.Hex(), d.gravityContract, d.cfg.EVM.HistoryResyncWindow, lastEventNonce, d.log)
}

var keysCommand = &cli.Command{
	Name:  "keys",
	Usage: "inspect the companion's configured EVM and PoS key material",
	Subcommands: []*cli.Command{
		{
			Name:  "show",
			Usage: "print the EVM address and PoS delegate address the companion will sign with",
			Action: func(c *cli.Context) error {
				ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				d, err := assemble(ctx, c)
				if err != nil {
					return err
				}
				fmt.Printf("evm address: %s\n", d.evmKey.Address().Hex())
				fmt.Printf("pos delegate address: %s\n", d.posKey.Address().String())
				return nil
			},
		},
	},
}
