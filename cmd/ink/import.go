package main

import (
	"fmt"
	"io"
	"os"

	"github.com/inkstream/inkstream/internal/bridge"
	"github.com/inkstream/inkstream/internal/core"
	"github.com/spf13/cobra"
)

var importStdin bool

func init() {
	importCmd.Flags().BoolVarP(&importStdin, "stdin", "", false, "Read the reply from stdin instead of the clipboard")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <stream> [reply]",
	Short: "Import the assistant reply into a stream",
	Long: `Import the assistant reply into a stream.

The reply is read from the clipboard by default, from stdin with --stdin,
or from the command line when passed as an argument.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		stream := mustFindStream(args[0])
		r := core.CurrentRepository()

		var entry *core.Entry
		var env *bridge.Envelope
		var err error
		switch {
		case len(args) > 1:
			entry, env, err = r.ImportReply(stream.ID, args[1])
		case importStdin:
			var data []byte
			data, err = io.ReadAll(os.Stdin)
			if err == nil {
				entry, env, err = r.ImportReply(stream.ID, string(data))
			}
		default:
			entry, env, err = r.ImportFromClipboard(stream.ID)
		}

		if env != nil {
			for _, warning := range env.Warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
			}
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("Imported reply as entry %s (#%d)\n", entry.ID[:8], entry.SequenceID)
		if env.Summary != "" {
			fmt.Printf("Summary: %s\n", env.Summary)
		}
	},
}
