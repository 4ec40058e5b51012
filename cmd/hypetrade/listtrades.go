package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
)

var listtrades = cli.Command{
	Name:  "listtrades",
	Usage: "get a list of all trades in the store",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "party",
			Usage: "only list trades the given address takes part in",
		},
	},
	Action: listTradesAction,
}

func listTradesAction(ctx *cli.Context) error {
	repoManager, cleanup, err := getRepoManager(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	repo := repoManager.TradeRepository()

	var trades []*domain.Trade
	if party := ctx.String("party"); len(party) > 0 {
		trades, err = repo.GetTradesByParty(context.Background(), party)
	} else {
		trades, err = repo.GetAllTrades(context.Background())
	}
	if err != nil {
		return err
	}

	for _, trade := range trades {
		fmt.Printf(
			"%s  %-16s  fairness %3d  items %2d  history %2d\n",
			trade.Id, trade.Status, trade.FairnessScore,
			len(trade.Items), len(trade.History),
		)
	}
	return nil
}
