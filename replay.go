package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"conquest/communication/client"
	"conquest/config"
	"conquest/engine"
	"conquest/game"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func replayCmd(configPath *string) *cobra.Command {
	var recordsPath, remote string
	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Replay a scripted game and print the outcome",
		Args:  cobra.ExactArgs(1),
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

			script, err := engine.LoadScript(args[0])
			if err != nil {
				return err
			}
			var replay *engine.Replay
			if remote != "" {
				replay, err = engine.RunRemote(cmd.Context(), client.NewClient(remote), script)
			} else {
				replay, err = engine.Run(script)
			}
			if err != nil {
				return err
			}

			color.New(color.FgCyan, color.Bold).Printf("Replay of %q (game %s)\n", script.Name, replay.GameID)
			if err := renderRecords(os.Stdout, replay.Records); err != nil {
				return err
			}
			if replay.Rejected > 0 {
				color.Yellow("%d of %d moves rejected", replay.Rejected, len(replay.Records))
			} else {
				color.Green("all %d moves accepted", len(replay.Records))
			}
			fmt.Printf("final hash %x\n", replay.Hash)
			if err := renderStandings(os.Stdout, replay.Standings); err != nil {
				return err
			}

			if recordsPath != "" {
				if err := engine.WriteRecordsFile(recordsPath, replay.Records); err != nil {
					return err
				}
				fmt.Printf("records written to %s\n", recordsPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&recordsPath, "records", "", "write a CSV move log to this path")
	cmd.Flags().StringVar(&remote, "remote", "", "replay against the server at this URL instead of in process")
	return cmd
}

func renderRecords(w io.Writer, records []engine.Record) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Step", "Player", "Action", "Subject", "Result"}),
	)
	for _, r := range records {
		outcome := "ok"
		if !r.Accepted() {
			outcome = r.Err.Error()
		}
		row := []string{strconv.Itoa(r.Step), r.Player, r.Move.Action.String(), r.Move.Subject, outcome}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderStandings(w io.Writer, standings []game.Standing) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Player", "Tiles", "Soldiers", "Workers", "Wealth", "Region", "Score"}),
	)
	for _, s := range standings {
		row := []string{
			s.Name,
			strconv.Itoa(s.Tiles),
			strconv.Itoa(s.Soldiers),
			strconv.Itoa(s.Workers),
			strconv.FormatFloat(s.Wealth, 'f', 1, 64),
			strconv.Itoa(s.LargestRegion),
			strconv.FormatFloat(s.Score, 'f', 3, 64),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
