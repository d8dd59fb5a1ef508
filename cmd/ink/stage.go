package main

import (
	"fmt"
	"os"

	"github.com/inkstream/inkstream/internal/core"
	"github.com/spf13/cobra"
)

var clearStaging bool

func init() {
	unstageCmd.Flags().BoolVarP(&clearStaging, "clear", "", false, "Unstage every entry of the stream")
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(unstageCmd)
}

var stageCmd = &cobra.Command{
	Use:   "stage <entry>...",
	Short: "Mark entries to include in the next export",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, prefix := range args {
			entry := mustFindEntry(prefix)
			if err := core.CurrentRepository().StageEntry(entry, true); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
	},
}

var unstageCmd = &cobra.Command{
	Use:   "unstage [entry]...",
	Short: "Remove entries from the next export",
	Run: func(cmd *cobra.Command, args []string) {
		if clearStaging {
			if len(args) != 1 {
				fmt.Println("--clear expects exactly one stream")
				os.Exit(1)
			}
			stream := mustFindStream(args[0])
			if err := core.CurrentRepository().ClearStaging(stream.ID); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			return
		}
		if len(args) == 0 {
			fmt.Println("Nothing to unstage")
			os.Exit(1)
		}
		for _, prefix := range args {
			entry := mustFindEntry(prefix)
			if err := core.CurrentRepository().StageEntry(entry, false); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
	},
}
