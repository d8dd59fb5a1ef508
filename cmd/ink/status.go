package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/inkstream/inkstream/internal/core"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status <stream>",
	Short: "Status",
	Long:  `Show the entries, the staging area, and the pending exchange of a stream.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stream := mustFindStream(args[0])
		r := core.CurrentRepository()

		entries, err := r.Entries(stream.ID)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("On stream %q (%s)\n", stream.Title, stream.ID[:8])
		for _, entry := range entries {
			marker := " "
			if entry.IsStaged {
				marker = "*"
			}
			fmt.Printf("%s #%-3d %s  %s  %s\n",
				marker, entry.SequenceID, entry.ID[:8], entry.Role, excerpt(entry.PlainText()))
		}

		block, err := r.PendingBlock(stream.ID)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if block != nil {
			fmt.Printf("\nPending exchange %s (directive %s, %d entries, exported %s)\n",
				block.BridgeKey, block.Directive, len(block.StagedRefs),
				block.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Println("Run 'ink import' with the assistant reply, or 'ink cancel'.")
		}
	},
}

func excerpt(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) > 60 {
		return text[:57] + "..."
	}
	return text
}
