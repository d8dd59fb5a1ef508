package main

import (
	"fmt"
	"os"

	"github.com/inkstream/inkstream/internal/bridge"
	"github.com/inkstream/inkstream/internal/core"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var exportDirective string
var exportOpen bool

func init() {
	exportCmd.Flags().StringVarP(&exportDirective, "directive", "d", "", "Directive to send (DUMP, CRITIQUE, GENERATE)")
	exportCmd.Flags().BoolVarP(&exportOpen, "open", "o", false, "Open the configured assistant page after copying")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <stream>",
	Short: "Copy the staged entries to the clipboard as a prompt",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stream := mustFindStream(args[0])

		directive := core.CurrentConfig().DefaultDirective()
		if exportDirective != "" {
			var err error
			directive, err = bridge.ParseDirective(exportDirective)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}

		prompt, err := core.CurrentRepository().ExportStream(stream.ID, directive)
		if err != nil && prompt == nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err != nil {
			// The exchange is recorded but the prompt never reached the clipboard
			fmt.Fprintln(os.Stderr, err)
			fmt.Printf("The exchange is recorded (key %s). Copy the prompt below by hand:\n\n%s\n",
				prompt.ExchangeKey, prompt.Text)
		} else {
			fmt.Printf("Copied %d staged entries to the clipboard (key %s, ~%d tokens)\n",
				len(prompt.StagedRefs), prompt.ExchangeKey, prompt.ApproxTokens)
			fmt.Println("Paste the prompt into your assistant, then run 'ink import'.")
		}

		if exportOpen {
			url := core.CurrentConfig().Bridge.AssistantURL
			if url == "" {
				fmt.Println("No assistant_url configured under [bridge] in config.toml")
				os.Exit(1)
			}
			if err := browser.OpenURL(url); err != nil {
				fmt.Fprintf(os.Stderr, "Unable to browse to %s: %v\n", url, err)
				os.Exit(1)
			}
		}
	},
}
