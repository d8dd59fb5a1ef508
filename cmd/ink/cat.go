package main

import (
	"fmt"

	"github.com/inkstream/inkstream/internal/doctree"
	"github.com/inkstream/inkstream/pkg/markdown"
	"github.com/spf13/cobra"
)

var catHTML bool

func init() {
	catCmd.Flags().BoolVarP(&catHTML, "html", "", false, "Render the entry as HTML")
	rootCmd.AddCommand(catCmd)
}

var catCmd = &cobra.Command{
	Use:   "cat <entry>",
	Short: "Print the content of an entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entry := mustFindEntry(args[0])
		text := doctree.Render(entry.Content)
		if catHTML {
			fmt.Println(markdown.ToHTML(text))
			return
		}
		fmt.Println(text)
	},
}
