package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/platform/tui"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play <board>",
	Short: "Play a board",
	Long: `Start playing the specified board.

Controls:
  Arrows/hjkl  - Move the cursor
  Space/Enter  - Select the cursor cell; select a neighbour to swap
  Mouse        - Click two neighbours, or drag a token onto a neighbour
  Esc/B        - Clear the selection (back to menu while paused)
  P            - Pause
  R            - Shuffle a fresh board
  Ctrl+S       - Save a text screenshot
  Q/Ctrl+C     - Quit

Examples:
  match3 play match3
  match3 play match3_large --seed 42
  match3 play match3 --config ./my-match3.yaml
  match3 play match3 --log-file /tmp/trace.log --log-level debug`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := args[0]

	game, err := registry.Create(gameID)
	if errors.Is(err, registry.ErrUnknown) {
		fmt.Fprintf(os.Stderr, "Error: unknown board %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'match3 list' to see available boards.")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	opts, closeAll, err := playOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(game, terminalConfig(), opts)

	// Close the journal before potential exit
	closeAll()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
