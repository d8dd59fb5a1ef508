package main

import (
	"fmt"
	"os"

	"github.com/inkstream/inkstream/internal/core"
	"github.com/spf13/cobra"
)

var commitMessage string

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message")
	rootCmd.AddCommand(commitCmd)
}

var commitCmd = &cobra.Command{
	Use:   "commit <entry>",
	Short: "Snapshot the current content of an entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entry := mustFindEntry(args[0])
		version, err := core.CurrentRepository().CommitEntry(entry, commitMessage)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Committed entry %s as version %d\n", entry.ID[:8], version.VersionNumber)
	},
}
