package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func newSnapshotFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "snapshot",
		Aliases:  []string{"s"},
		Usage:    "JSON file with the network snapshot (products + warehouses)",
		Required: true,
		EnvVars:  []string{"REBALANCE_SNAPSHOT"},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "rebalance",
		Usage: "Offline inventory rebalancing over a snapshot file",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:    "window-days",
				Usage:   "Sales window covered by the snapshot",
				Value:   30,
				EnvVars: []string{"REBALANCE_WINDOW_DAYS"},
			},
			&cli.Float64Flag{
				Name:    "force-aa-units",
				Usage:   "Units from which a product is global AA (0 disables)",
				Value:   2000,
				EnvVars: []string{"REBALANCE_FORCE_AA_UNITS"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log run details to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "classify",
				Usage: "ABC classification of an id→value JSON map, or of the snapshot's total sales",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "values", Usage: "JSON file with an id→value map"},
					&cli.StringFlag{Name: "snapshot", Aliases: []string{"s"}, Usage: "snapshot file (used when --values is absent)", EnvVars: []string{"REBALANCE_SNAPSHOT"}},
					&cli.Float64Flag{Name: "force-top", Usage: "values at or above this go to AA", Value: -1},
				},
				Action: runClassify,
			},
			{
				Name:  "global",
				Usage: "Best donors for every product with need at a destination",
				Flags: []cli.Flag{
					newSnapshotFlag(),
					&cli.StringFlag{Name: "dest", Aliases: []string{"d"}, Usage: "destination warehouse id", Required: true},
					&cli.BoolFlag{Name: "predict", Usage: "blend the heuristic demand forecast"},
				},
				Action: runGlobal,
			},
			{
				Name:  "pairwise",
				Usage: "Evaluate transfers from a fixed source to a fixed destination",
				Flags: []cli.Flag{
					newSnapshotFlag(),
					&cli.StringFlag{Name: "source", Usage: "source warehouse id", Required: true},
					&cli.StringFlag{Name: "dest", Aliases: []string{"d"}, Usage: "destination warehouse id", Required: true},
					&cli.StringFlag{Name: "pdf", Usage: "also write the transfer order PDF to this path"},
				},
				Action: runPairwise,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
