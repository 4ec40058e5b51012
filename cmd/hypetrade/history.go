package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
)

var history = cli.Command{
	Name:      "history",
	Usage:     "replay the history ledger of a trade entry by entry",
	ArgsUsage: "<tradeId>",
	Action:    historyAction,
}

func historyAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("usage: history <tradeId>")
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

	nav := domain.NewHistoryNavigator(trade)
	for i := 0; i < len(trade.History); i++ {
		cursor := nav.Back()
		entry := nav.Entry()
		fmt.Printf(
			"[%d] %s  %s -> %s  by %s  at %s\n",
			cursor, entry.Action, entry.PreviousStatus, entry.NewStatus,
			entry.ActorAddress,
			time.Unix(entry.CreatedAt, 0).Format(time.RFC3339),
		)
		for _, item := range entry.ItemsSnapshot {
			fmt.Printf(
				"      %-12s  %s (%s)\n",
				item.Side, item.Asset.DisplayName, item.StagedValue,
			)
		}
	}
	return nil
}
