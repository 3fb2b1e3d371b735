package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/frankplow/mutff-sub002/qtff"
)

func treeCmd() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Print the atom tree of a movie file",
		ArgsUsage: "FILE",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:        "max-depth",
				Usage:       "levels of children to print (negative = no limit)",
				Value:       -1,
				Destination: &maxDepth,
			},
		}, loggingFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			applyConfig(c, LoadConfig())
			log := newLogger()

			if c.Args().Len() != 1 {
				return fmt.Errorf("tree: expected exactly one FILE argument")
			}
			path := c.Args().First()

			f, err := qtff.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			log.Debug("file loaded", "path", path, "bytes", f.Size())

			atoms, err := f.Atoms()
			if err != nil {
				return err
			}
			for _, atom := range atoms {
				qtff.FprintAtomDepth(os.Stdout, atom, int(maxDepth))
			}
			log.Debug("dumped", "atoms", len(atoms))
			return nil
		},
	}
}
