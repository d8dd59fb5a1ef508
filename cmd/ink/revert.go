package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/inkstream/inkstream/internal/core"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(revertCmd)
}

var revertCmd = &cobra.Command{
	Use:   "revert <entry> <version>",
	Short: "Restore an entry to a committed version",
	Long:  `Restore an entry to a committed version. No new snapshot is taken.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		entry := mustFindEntry(args[0])
		number, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Printf("Invalid version number %q\n", args[1])
			os.Exit(1)
		}
		if err := core.CurrentRepository().RevertEntry(entry, number); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Reverted entry %s to version %d\n", entry.ID[:8], number)
	},
}
