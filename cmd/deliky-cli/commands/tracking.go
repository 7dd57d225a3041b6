package commands

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"deliky-backend/lib/timezone"
	"deliky-backend/services/tracker"
)

var statePath string

func init() {
	trackingCmd.Flags().StringVar(&statePath, "state", "state.json", "Path of the tracker state file.")
	rootCmd.AddCommand(trackingCmd)
}

var trackingCmd = &cobra.Command{
	Use:   "tracking",
	Short: "Print every tracked (drug, city) pair across all chats.",
	Run: func(cmd *cobra.Command, args []string) {
		store := tracker.OpenStore(statePath)

		t := newTable()
		t.AppendHeader(table.Row{"chat", "drug", "city", "added"})
		for chatId, pairs := range store.Snapshot() {
			for _, pair := range pairs {
				t.AppendRow(table.Row{
					chatId,
					pair.Drug,
					pair.City,
					time.Unix(pair.Added, 0).In(timezone.Location).Format(time.DateTime),
				})
			}
		}
		t.Render()
	},
}
