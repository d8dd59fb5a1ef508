package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/inkstream/inkstream/internal/core"
	"github.com/spf13/cobra"
)

var historyDiff bool

func init() {
	historyCmd.Flags().BoolVarP(&historyDiff, "diff", "", false, "Show the diff from each version to the current content")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history <entry>",
	Short: "List the versions of an entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entry := mustFindEntry(args[0])
		r := core.CurrentRepository()

		versions, err := r.Versions(entry.ID)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if len(versions) == 0 {
			fmt.Println("No version committed yet")
			return
		}

		for _, version := range versions {
			message := version.CommitMessage
			if message == "" {
				message = "(no message)"
			}
			fmt.Printf("v%-3d %s  %s\n", version.VersionNumber,
				version.CommittedAt.Format("2006-01-02 15:04"), message)
			if historyDiff {
				patch, err := r.DiffVersion(entry, version.VersionNumber)
				if err != nil {
					fmt.Println(err)
					os.Exit(1)
				}
				printPatch(patch)
			}
		}
	},
}

func printPatch(patch string) {
	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			color.Red(line)
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			color.Green(line)
		default:
			fmt.Println(line)
		}
	}
}
