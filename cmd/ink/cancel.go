package main

import (
	"fmt"
	"os"

	"github.com/inkstream/inkstream/internal/core"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cancelCmd)
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <stream>",
	Short: "Discard the pending exchange of a stream",
	Long:  `Discard the pending exchange of a stream. The exported entries return to staging.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stream := mustFindStream(args[0])
		if err := core.CurrentRepository().CancelExchange(stream.ID); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println("Exchange cancelled, entries are staged again")
	},
}
