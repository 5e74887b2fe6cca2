package main

import (
	"context"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

func browseAction(_ context.Context, cmd *cli.Command) error {
	root := cmd.String("path")
	if cmd.Args().Len() > 0 {
		root = cmd.Args().First()
	}

	_, err := tea.NewProgram(NewModel(root), tea.WithAltScreen()).Run()

	return err
}

func main() {
	cmd := &cli.Command{
		Name:      "catalog",
		Usage:     "Browse the bars and instruments of a parquet data catalog",
		ArgsUsage: "[catalog directory]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Catalog directory to open on start",
			},
		},
		Action: browseAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
