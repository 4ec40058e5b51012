package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/ddleblanc/hypetrade/internal/config"
	"github.com/ddleblanc/hypetrade/internal/core/ports"
	dbbadger "github.com/ddleblanc/hypetrade/internal/infrastructure/storage/db/badger"
	"github.com/ddleblanc/hypetrade/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/ddleblanc/hypetrade/internal/infrastructure/storage/db/pg"
)

func main() {
	if err := config.InitConfig(); err != nil {
		fatal(err)
	}

	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "hypetrade CLI"
	app.Usage = "Command line interface for inspecting hypetrade negotiations"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "data directory of the trades store",
			Value: config.GetDatadir(),
		},
	}
	app.Commands = append(
		app.Commands,
		&listtrades,
		&showtrade,
		&history,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getRepoManager(ctx *cli.Context) (ports.RepoManager, func(), error) {
	var repoManager ports.RepoManager
	var err error

	switch dbType := config.GetString(config.DBTypeKey); dbType {
	case config.DBInMemory:
		repoManager = inmemory.NewRepoManager()
	case config.DBPostgres:
		repoManager, err = postgresdb.NewRepoManager(
			config.GetString(config.PgConnectAddrKey),
		)
	default:
		datadir := ctx.String("datadir")
		repoManager, err = dbbadger.NewRepoManager(
			filepath.Join(datadir, config.DbLocation), nil,
		)
	}
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() { repoManager.Close() }
	return repoManager, cleanup, nil
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(data))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[hypetrade] %v\n", err)
	os.Exit(1)
}
