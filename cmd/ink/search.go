package main

import (
	"fmt"
	"os"

	"github.com/inkstream/inkstream/internal/core"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search entries across all streams",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := core.CurrentRepository().SearchEntries(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if len(entries) == 0 {
			fmt.Println("No match")
			return
		}
		for _, entry := range entries {
			fmt.Printf("%s #%-3d %s\n", entry.ID[:8], entry.SequenceID, excerpt(entry.PlainText()))
		}
	},
}
