package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"deliky-backend/lib/timezone"
	"deliky-backend/services/tracker/history"
)

var historyDbPath string
var historyLimit int

func init() {
	historyCmd.Flags().StringVar(&historyDbPath, "db", "history.db", "Path of the availability history database.")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "Maximum number of checks to print.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the most recent availability checks, newest first.",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := history.Open(historyDbPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		checks, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := newTable()
		t.AppendHeader(table.Row{"time", "chat", "drug", "city", "results", "top price"})
		for _, check := range checks {
			t.AppendRow(table.Row{
				check.Time.In(timezone.Location).Format(time.DateTime),
				check.ChatId,
				check.Drug,
				check.City,
				check.Results,
				check.TopPrice,
			})
		}
		t.Render()
	},
}
