package main

import (
	"os"
	"strconv"

	"conquest/config"
	"conquest/experiments"
	"conquest/experiments/metrics"
	"conquest/gamemaster"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func benchCmd(configPath *string) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure move throughput of concurrent in-process games",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			closer, err := config.SetupLogging(cfg.Log, os.Stderr)
			if err != nil {
				return err
			}
			defer closer.Close()

			opts, err := gameOptions(cfg.Game)
			if err != nil {
				return err
			}
			master := gamemaster.New(gamemaster.WithGameOptions(opts...))
			records, err := experiments.RunThroughput(cmd.Context(), master, experiments.DefaultConfigs)
			if err != nil {
				return err
			}

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Config", "Goroutines", "Games", "Moves", "Rejected", "Duration", "Moves/s"}),
			)
			for _, r := range records {
				row := []string{
					strconv.Itoa(r.Config.ID),
					strconv.Itoa(r.Config.Goroutines),
					strconv.Itoa(r.Games),
					strconv.Itoa(r.Accepted),
					strconv.Itoa(r.Rejected),
					r.Duration.String(),
					strconv.FormatFloat(r.MovesPerSecond(), 'f', 0, 64),
				}
				if err := table.Append(row); err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}

			if outDir == "" {
				return nil
			}
			writer, err := metrics.NewWriter(outDir)
			if err != nil {
				return err
			}
			if err := writer.WriteLoadConfigs(experiments.DefaultConfigs); err != nil {
				return err
			}
			if err := writer.WriteRunRecords(records); err != nil {
				return err
			}
			color.Green("results stored in %s", writer.Dir())
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "directory for CSV results")
	return cmd
}
