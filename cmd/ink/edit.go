package main

import (
	"fmt"
	"os"

	"github.com/inkstream/inkstream/internal/core"
	"github.com/inkstream/inkstream/internal/doctree"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit <entry>",
	Short: "Edit an entry in the editor",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entry := mustFindEntry(args[0])

		text, err := editText(doctree.Render(entry.Content))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := core.CurrentRepository().EditEntry(entry, doctree.Parse(text)); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

// mustFindEntry resolves an entry from an ID prefix or exits.
func mustFindEntry(prefix string) *core.Entry {
	entry, err := core.CurrentRepository().FindEntryByPrefix(prefix)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return entry
}
