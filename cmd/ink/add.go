package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/inkstream/inkstream/internal/core"
	"github.com/inkstream/inkstream/internal/doctree"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <stream> [text]",
	Short: "Append an entry to a stream",
	Long:  `Append an entry to a stream. Without inline text, the editor opens.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stream := mustFindStream(args[0])

		var text string
		var err error
		if len(args) > 1 {
			text = strings.Join(args[1:], " ")
		} else {
			text, err = editText("")
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
		if text == "" {
			fmt.Println("Empty entry, nothing added")
			os.Exit(1)
		}

		entry, err := core.CurrentRepository().AddEntry(stream.ID, core.RoleUser, doctree.Parse(text))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := stream.Touch(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Added entry %s (#%d)\n", entry.ID[:8], entry.SequenceID)
	},
}
