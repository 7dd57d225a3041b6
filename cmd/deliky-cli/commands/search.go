package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"deliky-backend/lib/scrapers/tabletki"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <drug> [city]",
	Short: "Run one search against tabletki.ua and print the extracted listings.",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		drug := args[0]
		city := ""
		if len(args) == 2 {
			city = args[1]
		}

		client, err := tabletki.NewClient(tabletki.ClientOptions{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Second*15)
		defer cancel()

		listings, err := client.Search(ctx, drug, city)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		if len(listings) == 0 {
			fmt.Println("no listings found")
			return
		}

		t := newTable()
		t.AppendHeader(table.Row{"name", "price", "pharmacy", "link"})
		for _, l := range listings {
			t.AppendRow(table.Row{l.Name, l.Price, l.Pharmacy, l.Link})
		}
		t.Render()
	},
}
