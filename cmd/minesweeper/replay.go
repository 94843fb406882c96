package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-engine/internal/handlers"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type replayOptions struct {
	size     int
	mines    int
	safeZone int
	seed     uint64
	params   string
}

func newReplayCmd() *cobra.Command {
	var opts replayOptions

	cmd := &cobra.Command{
		Use:   "replay [commands...|-]",
		Short: "Run commands against a seeded board",
		Long: `Build a board from the given parameters and seed, apply the commands
and print the resulting grid and game status.

Each argument is one command; "-" reads newline separated commands from
stdin instead:

  o row col   open a cell
  f row col   toggle a flag
  c row col   chord a cell
  r           forfeit
  g           do nothing

Grid legend: "-" covered, "F" flag, "." empty, digits count mined
neighbours, "*" mine, "X" the mine that ended the game.`,
		Example: `  minesweeper replay --size 9 --mines 10 --seed 42 "o 4 4"
  minesweeper replay --params 16:40:9 --seed 1 - < moves.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := commandText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return runReplay(cmd.OutOrStdout(), opts, text)
		},
	}

	cmd.Flags().IntVar(&opts.size, "size", 9, "Board side length")
	cmd.Flags().IntVar(&opts.mines, "mines", 10, "Number of mines")
	cmd.Flags().IntVar(&opts.safeZone, "safe-zone", mines.DefaultSafeZone, "Cells kept free of mines around the first reveal")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Random seed")
	cmd.Flags().StringVar(&opts.params, "params", "", `Board parameters as "size:mines:safe_zone", overrides the other board flags`)

	return cmd
}

func commandText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read commands: %w", err)
		}
		return string(b), nil
	}
	return strings.Join(args, "\n"), nil
}

func (o replayOptions) gameParams() (mines.GameParams, error) {
	if o.params != "" {
		p, err := mines.ParseSeed(o.params)
		if err != nil {
			return mines.GameParams{}, err
		}
		return *p, nil
	}
	return mines.GameParams{Size: o.size, MineCount: o.mines, SafeZone: o.safeZone}, nil
}

func runReplay(w io.Writer, opts replayOptions, text string) error {
	params, err := opts.gameParams()
	if err != nil {
		return err
	}

	board, err := mines.NewBoard(params, rand.New(rand.NewPCG(opts.seed, 0)))
	if err != nil {
		return err
	}

	cmds, err := handlers.ParseCommands(text, board.Size())
	if err != nil {
		return err
	}

	res, err := handlers.ApplyAll(board, cmds)
	if err != nil {
		return err
	}

	fmt.Fprint(w, board.String())
	fmt.Fprintf(w, "status: %s, opened: %d, flags: %d/%d\n",
		res.Status, len(res.Changed), board.FlagCount(), board.MineCount())
	return nil
}
