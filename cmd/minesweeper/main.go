// minesweeper serves minesweeper games over HTTP and replays games headlessly.
//
// Usage:
//
//	minesweeper serve [--config path]           - Start the game server
//	minesweeper replay --size 9 --mines 10 ...  - Play scripted commands on a seeded board
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "minesweeper",
		Short: "Minesweeper board engine server and tools",
		Long: `Minesweeper hosts single player games on square boards.

Available commands:
  serve    - Start the HTTP and websocket game server
  replay   - Run text commands against a seeded board

Examples:
  minesweeper serve --config config.json
  minesweeper replay --size 9 --mines 10 --seed 7 "o 4 4" "f 0 0"`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newReplayCmd())

	return root
}
