package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/games/match3"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available boards",
	Long:  `Shows every registered board variant with its size and color count.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	fmt.Println("Available boards:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, v := range match3.Variants {
		maxIDLen = max(maxIDLen, len(v.ID))
	}

	fmt.Printf("  %-*s  %-7s  %-6s  %s\n", maxIDLen, "ID", "Board", "Colors", "Title")
	fmt.Printf("  %-*s  %-7s  %-6s  %s\n", maxIDLen, "--", "-----", "------", "-----")

	for _, v := range match3.Variants {
		size, colors := v.Size, v.Colors
		if size == 0 {
			size, colors = cfg.Board.Size, cfg.Board.Colors
		}
		board := fmt.Sprintf("%dx%d", size, size)
		fmt.Printf("  %-*s  %-7s  %-6d  %s\n", maxIDLen, v.ID, board, colors, v.Title)
	}

	fmt.Println()
	fmt.Println("Run 'match3 play <id>' to play a board.")
}
