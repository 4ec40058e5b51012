package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

var showtrade = cli.Command{
	Name:      "showtrade",
	Usage:     "print the full detail of a trade",
	ArgsUsage: "<tradeId>",
	Action:    showTradeAction,
}

func showTradeAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("usage: showtrade <tradeId>")
	}

	repoManager, cleanup, err := getRepoManager(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	trade, err := repoManager.TradeRepository().GetTrade(
		context.Background(), ctx.Args().First(),
	)
	if err != nil {
		return err
	}
	if trade == nil {
		return fmt.Errorf("trade %s not found", ctx.Args().First())
	}

	printJSON(trade)
	return nil
}
