package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"conquest/game"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func boardCmd() *cobra.Command {
	var (
		size, ocean int
		seed        uint64
		players     []string
		rulesPath   string
	)
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Generate a board and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := gameOptionsFor(rulesPath, seed)
			if err != nil {
				return err
			}
			g, err := game.NewGame(size, size, ocean, opts...)
			if err != nil {
				return err
			}
			for _, name := range players {
				if _, err := g.AddPlayer(name); err != nil {
					return err
				}
			}
			g.Start()
			snap := g.Serialize()

			color.New(color.FgCyan, color.Bold).Printf("Board %dx%d, ocean %d, seed %d\n", size, size, ocean, seed)
			if err := renderBoard(os.Stdout, snap); err != nil {
				return err
			}
			fmt.Println()
			return renderPlayers(os.Stdout, snap)
		},
	}
	cmd.Flags().IntVar(&size, "size", 12, "board side length")
	cmd.Flags().IntVar(&ocean, "ocean", 2, "width of the ocean cross")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "generation seed")
	cmd.Flags().StringSliceVar(&players, "players", []string{"red", "blue"}, "player names in seating order")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "balance file")
	return cmd
}

func gameOptionsFor(rulesPath string, seed uint64) ([]game.Option, error) {
	opts := []game.Option{game.WithSeed(seed)}
	if rulesPath != "" {
		rules, err := game.LoadRules(rulesPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, game.WithRules(rules))
	}
	return opts, nil
}

// cellLabel is a compact tile description: ~ ocean, # obstacle, C<n> a
// capital of player n, P<n> other player land, L<level> a bot.
func cellLabel(t game.TileSnapshot, seats map[string]int) string {
	switch t.Terrain {
	case game.Ocean:
		return "~"
	case game.Obstacle:
		return "#"
	}
	if seat, ok := seats[t.Owner]; ok {
		if t.Capital {
			return "C" + strconv.Itoa(seat)
		}
		return fmt.Sprintf("P%d:%d", seat, len(t.Garrison))
	}
	return fmt.Sprintf("L%d:%d", t.Level, len(t.Garrison))
}

func renderBoard(w io.Writer, snap game.Snapshot) error {
	seats := make(map[string]int, len(snap.Players))
	for i, p := range snap.Players {
		seats[p.ID] = i + 1
	}
	header := []string{"y\\x"}
	for x := 0; x < snap.Width; x++ {
		header = append(header, strconv.Itoa(x))
	}
	table := tablewriter.NewTable(w, tablewriter.WithHeader(header))
	for y := 0; y < snap.Height; y++ {
		row := []string{strconv.Itoa(y)}
		for x := 0; x < snap.Width; x++ {
			row = append(row, cellLabel(snap.Tiles[y*snap.Width+x], seats))
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderPlayers(w io.Writer, snap game.Snapshot) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Name", "Corner", "Tiles", "Food", "Wood", "Metal"}),
	)
	for i, p := range snap.Players {
		row := []string{
			strconv.Itoa(i + 1),
			p.Name,
			p.Corner,
			strconv.Itoa(len(p.Tiles)),
			strconv.FormatFloat(p.Resources.Food, 'f', -1, 64),
			strconv.FormatFloat(p.Resources.Wood, 'f', -1, 64),
			strconv.FormatFloat(p.Resources.Metal, 'f', -1, 64),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
